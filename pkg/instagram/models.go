package instagram

import "igflash/pkg/payload"

// Media is a single post. Fields the provider did not return are nil and
// encode as JSON null.
type Media struct {
	Code     *string `json:"code"`
	Comments *int64  `json:"comments"`
	ID       *string `json:"id"`
	Img      *string `json:"img"`
	Likes    *int64  `json:"likes"`
	Login    *string `json:"login"`
	OwnerID  *string `json:"owner_id"`
	Views    *int64  `json:"views"`
	// ViewsReal is never reported by the provider
	ViewsReal *int64    `json:"views_real"`
	Type      MediaType `json:"type"`
}

// Profile is a user profile. PageInfo and PostsData are only filled when the
// feed was requested with it.
type Profile struct {
	Followers *int64  `json:"followers"`
	ID        *string `json:"id"`
	Img       *string `json:"img"`
	Login     *string `json:"login"`
	Nickname  *string `json:"nickname"`
	Posts     *int64  `json:"posts"`
	Private   *bool   `json:"private"`

	PageInfo  *PageCursor     `json:"page_info,omitempty"`
	PostsData []payload.Value `json:"posts_data,omitempty"`
}

// PageCursor is the pagination state of a timeline
type PageCursor struct {
	HasNext   bool   `json:"has_next_page"`
	EndCursor string `json:"end_cursor"`
}

// FeedItem is a post from a user's feed
type FeedItem struct {
	Media
	// FeedLogin is the login the feed was requested for
	FeedLogin string `json:"feed_login"`
	// Link is the public post URL
	Link *string `json:"link"`
}
