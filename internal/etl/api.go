package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/BartekS5/rmetl/pkg/logger"
	"github.com/BartekS5/rmetl/pkg/models"
	"github.com/BartekS5/rmetl/pkg/source"
	"github.com/BartekS5/rmetl/pkg/utils"
)

// APIExtractor reads one page of the remote character collection per call.
type APIExtractor struct {
	Client  *http.Client
	BaseURL string
}

func NewAPIExtractor(client *http.Client, baseURL string) *APIExtractor {
	return &APIExtractor{Client: client, BaseURL: baseURL}
}

func (a *APIExtractor) Extract(ctx context.Context, cursor string) ([]models.Record, string, error) {
	pageURL, err := a.pageURL(cursor)
	if err != nil {
		return nil, "", err
	}

	body, err := source.Get(ctx, a.Client, pageURL)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.UseNumber()

	var page models.Page
	if err := dec.Decode(&page); err != nil {
		return nil, "", fmt.Errorf("%w: page %s: %w", ErrDecode, pageURL, err)
	}
	if page.Info == nil || page.Results == nil {
		return nil, "", fmt.Errorf("%w: page %s: missing info or results", ErrDecode, pageURL)
	}

	next := ""
	if page.Info.Next != nil {
		next = *page.Info.Next
	}
	logger.Debugf("GET %s: %d results, next=%q", pageURL, len(page.Results), next)
	return page.Results, next, nil
}

// CursorKey identifies the page a cursor addresses, so a page number and a
// next-link pointing at the same page compare equal.
func (a *APIExtractor) CursorKey(cursor string) string {
	pageURL, err := a.pageURL(cursor)
	if err != nil {
		return cursor
	}
	return pageURL
}

func (a *APIExtractor) pageURL(cursor string) (string, error) {
	token, link := utils.SplitCursor(cursor)
	if link != "" {
		return link, nil
	}
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse api url '%s': %w", a.BaseURL, err)
	}
	q := u.Query()
	q.Set("page", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
