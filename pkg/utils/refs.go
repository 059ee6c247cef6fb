package utils

import (
	"net/url"
	"strings"
)

// IDFromURL returns the trailing path segment of a reference URL:
// "https://host/api/location/3" -> "3". An empty URL yields an empty id.
// This is the only way identifiers are derived from references.
func IDFromURL(ref string) string {
	return ref[strings.LastIndexByte(ref, '/')+1:]
}

// SplitCursor classifies a next-page cursor. An absolute URL carrying a
// "page" query parameter reduces to that token; any other absolute URL is a
// link to fetch as-is; everything else is already a bare token.
func SplitCursor(cursor string) (token, link string) {
	u, err := url.Parse(cursor)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return cursor, ""
	}
	if page := u.Query().Get("page"); page != "" {
		return page, ""
	}
	return "", cursor
}
