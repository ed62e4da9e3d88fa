package instagram

import "igflash/pkg/payload"

// Response paths shared by the parsers and the fetch calls
const (
	itemsPath    = "items"
	dataUserPath = "data.user"
	timelinePath = "edge_owner_to_timeline_media"
)

// parseMedia maps a v1 post item
func (s *Scraper) parseMedia(v payload.Value) Media {
	return Media{
		Code:     v.Get("code").Str(),
		Comments: v.Get("comment_count").Int(),
		ID:       v.Get("pk").Str(),
		Img:      v.Get("image_versions2.candidates.0.url").Str(),
		Likes:    v.Get("like_count").Int(),
		Login:    v.Get("caption.user.username").Str(),
		OwnerID:  v.Get("caption.user.id").Str(),
		Views:    v.Get("ig_play_count").Int(),
		Type:     s.mediaTypes.Normalize(v.Get("media_type")),
	}
}

// parseGraphNode maps the node of a timeline edge
func (s *Scraper) parseGraphNode(node payload.Value) Media {
	return Media{
		Code:     node.Get("shortcode").Str(),
		Comments: node.First("edge_media_to_comment.count", "edge_media_preview_comment.count").Int(),
		ID:       node.Get("id").Str(),
		Img:      node.Get("display_url").Str(),
		Likes:    node.First("edge_liked_by.count", "edge_media_preview_like.count").Int(),
		Login:    node.Get("owner.username").Str(),
		OwnerID:  node.Get("owner.id").Str(),
		Views:    node.Get("video_view_count").Int(),
		Type:     s.mediaTypes.Normalize(node.Get("__typename")),
	}
}

// parseFeedItem maps a post from either a profile's embedded edges or a posts
// page. The owner login falls back to the login the feed was requested for.
func (s *Scraper) parseFeedItem(post payload.Value, login string) FeedItem {
	var media Media
	if node := post.Get("node"); node.Present() {
		media = s.parseGraphNode(node)
	} else {
		media = s.parseMedia(post)
	}
	if media.Login == nil && login != "" {
		owner := login
		media.Login = &owner
	}

	item := FeedItem{Media: media, FeedLogin: login}
	if media.Code != nil && *media.Code != "" {
		link := PostURL(*media.Code)
		item.Link = &link
	}
	return item
}

// parseProfile maps the data.user object of a profile response
func parseProfile(v payload.Value, includeFeed bool) Profile {
	profile := Profile{
		Followers: v.Get("edge_followed_by.count").Int(),
		ID:        v.Get("id").Str(),
		Img:       v.Get("profile_pic_url").Str(),
		Login:     v.Get("username").Str(),
		Nickname:  v.Get("full_name").Str(),
		Posts:     v.Get(timelinePath + ".count").Int(),
		Private:   v.Get("is_private").Bool(),
	}

	if includeFeed {
		profile.PageInfo = parsePageInfo(v.Get(timelinePath + ".page_info"))
		profile.PostsData = v.Get(timelinePath + ".edges").Items()
	}
	return profile
}

// parsePageInfo returns nil when the timeline carries no page_info
func parsePageInfo(v payload.Value) *PageCursor {
	if !v.Present() {
		return nil
	}
	cursor := &PageCursor{HasNext: v.Get("has_next_page").Truthy()}
	if endCursor := v.Get("end_cursor").Str(); endCursor != nil {
		cursor.EndCursor = *endCursor
	}
	return cursor
}
