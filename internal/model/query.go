package model

import "time"

// SearchQuery is a user-defined search the scraper runs against the
// YouTube search endpoint. MinSubscribers/MaxSubscribers are optional
// bounds applied after detail lookup; when both are set, min <= max.
type SearchQuery struct {
	ID             int64      `json:"id"`
	Query          string     `json:"query"`
	RegionCode     string     `json:"regionCode"`
	LanguageCode   string     `json:"languageCode,omitempty"`
	MinSubscribers int64      `json:"minSubscribers,omitempty"`
	MaxSubscribers int64      `json:"maxSubscribers,omitempty"`
	MaxResults     int        `json:"maxResults"`
	IsActive       bool       `json:"isActive"`
	LastRunAt      *time.Time `json:"lastRunAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// QueryCreateRequest is the POST /api/queries body.
type QueryCreateRequest struct {
	Query          string `json:"query"`
	RegionCode     string `json:"regionCode"`
	LanguageCode   string `json:"languageCode"`
	MinSubscribers int64  `json:"minSubscribers"`
	MaxSubscribers int64  `json:"maxSubscribers"`
	MaxResults     int    `json:"maxResults"`
}

// QueryUpdateRequest is the PUT /api/queries/:id body. Nil fields are left
// unchanged.
type QueryUpdateRequest struct {
	Query          *string `json:"query"`
	RegionCode     *string `json:"regionCode"`
	LanguageCode   *string `json:"languageCode"`
	MinSubscribers *int64  `json:"minSubscribers"`
	MaxSubscribers *int64  `json:"maxSubscribers"`
	MaxResults     *int    `json:"maxResults"`
	IsActive       *bool   `json:"isActive"`
}

// BulkQueriesRequest adds several queries at once, one per line.
type BulkQueriesRequest struct {
	Queries       string `json:"queries"`
	RegionCode    string `json:"regionCode"`
	MaxResults    int    `json:"maxResults"`
	ClearExisting bool   `json:"clearExisting"`
}
