package models

// Record is one decoded JSON object as it came off the wire or out of a snapshot.
type Record map[string]interface{}

// PageInfo is the "info" envelope of a paged response. Next is nil on the last page.
type PageInfo struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// Page is one response of the remote collection endpoint.
type Page struct {
	Info    *PageInfo `json:"info"`
	Results []Record  `json:"results"`
}

// JoinRecord pairs an owner id with one member id of its collection field.
type JoinRecord struct {
	OwnerID  string
	MemberID string
}

func (j JoinRecord) Row() []string {
	return []string{j.OwnerID, j.MemberID}
}
