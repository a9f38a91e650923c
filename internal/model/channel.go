package model

import "time"

// Channel is a discovered creator channel in the registry.
// The external YouTube channel ID is the unique key; DiscoveredAt is set on
// first insert and never changes afterwards.
type Channel struct {
	ChannelID    string    `json:"channelId"`
	ChannelURL   string    `json:"channelUrl"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CustomURL    string    `json:"customUrl,omitempty"`
	Country      string    `json:"country,omitempty"`
	Language     string    `json:"language,omitempty"`
	Subscribers  int64     `json:"subscribers"`
	TotalViews   int64     `json:"totalViews"`
	VideoCount   int64     `json:"videoCount"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Verdict      string    `json:"verdict"`
	Confidence   float64   `json:"confidence"`
	DiscoveredBy []int64   `json:"discoveredBy"`
	DiscoveredAt time.Time `json:"discoveredAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ChannelFilter narrows channel listings; zero values mean "no filter".
type ChannelFilter struct {
	Search   string
	Country  string
	Language string
	MinSubs  int64
	MaxSubs  int64
}

// ChannelPage is the paginated listing response.
type ChannelPage struct {
	Channels []Channel `json:"channels"`
	Total    int64     `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}
