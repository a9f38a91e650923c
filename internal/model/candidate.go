package model

// Candidate is a channel surfaced by a search, before classification.
// It only lives for the duration of one scrape run; accepted candidates
// become Channel rows.
type Candidate struct {
	ChannelID    string
	Title        string
	Description  string
	CustomURL    string
	Country      string
	Language     string
	Subscribers  int64
	// True when the channel hides its subscriber count; Subscribers is
	// then 0 and means "unknown", not "none".
	SubscribersHidden bool
	TotalViews   int64
	VideoCount   int64
	ThumbnailURL string

	// Queries that surfaced this candidate during the current run.
	FoundBy []int64
}

// Stats is the dashboard statistics payload.
type Stats struct {
	TotalChannels    int64           `json:"totalChannels"`
	TotalSubscribers int64           `json:"totalSubscribers"`
	ActiveQueries    int64           `json:"activeQueries"`
	ByCountry        []CountryCount  `json:"byCountry"`
	ByLanguage       []LanguageCount `json:"byLanguage"`
	Growth           []GrowthPoint   `json:"growth"`
	LastRun          *ScrapeRun      `json:"lastRun,omitempty"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

type LanguageCount struct {
	Language string `json:"language"`
	Count    int64  `json:"count"`
}

// GrowthPoint is the number of channels first discovered on a given day.
type GrowthPoint struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}
