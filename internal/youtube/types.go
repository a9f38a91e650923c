package youtube

// Wire structs for the YouTube Data API v3. Only the fields the scraper
// reads are declared; extra fields in responses are ignored (additive
// schema tolerance).

type searchResponse struct {
	Items []struct {
		ID struct {
			ChannelID string `json:"channelId"`
		} `json:"id"`
		Snippet struct {
			ChannelID   string `json:"channelId"`
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
	PageInfo      struct {
		TotalResults int `json:"totalResults"`
	} `json:"pageInfo"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type channelListResponse struct {
	Items []channelItem `json:"items"`
}

type channelItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		CustomURL   string `json:"customUrl"`
		Country     string `json:"country"`
		Thumbnails  struct {
			Default thumbnail `json:"default"`
			Medium  thumbnail `json:"medium"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	// Statistics counts arrive as decimal strings.
	Statistics struct {
		SubscriberCount       string `json:"subscriberCount"`
		HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
		ViewCount             string `json:"viewCount"`
		VideoCount            string `json:"videoCount"`
	} `json:"statistics"`
	BrandingSettings struct {
		Channel struct {
			Country  string `json:"country"`
			Keywords string `json:"keywords"`
		} `json:"channel"`
	} `json:"brandingSettings"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// SearchRequest describes one page of a channel search.
type SearchRequest struct {
	Query      string
	RegionCode string
	PageToken  string
	MaxResults int
}

// SearchPage is one page of search results.
type SearchPage struct {
	ChannelIDs    []string
	NextPageToken string
	TotalResults  int
}
