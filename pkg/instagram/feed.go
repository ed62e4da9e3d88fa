package instagram

import (
	"context"

	errs "igflash/pkg/errors"
	"igflash/pkg/payload"
	"igflash/pkg/transport"
)

// Feed returns the latest postsRequired posts of login, in upstream order.
// Posts embedded in the profile are used first; the rest are paged in from
// the posts endpoint. A profile reporting fewer posts than required fails
// with an insufficient-posts error.
func (s *Scraper) Feed(ctx context.Context, login string, postsRequired int) ([]FeedItem, error) {
	if postsRequired < 1 {
		return nil, errs.Newf(errs.ErrorTypeValidation, "posts required must be at least 1, got %d", postsRequired)
	}

	profile, err := s.Profile(ctx, login, true)
	if err != nil {
		return nil, err
	}

	var total int64
	if profile.Posts != nil {
		total = *profile.Posts
	}
	if total < int64(postsRequired) {
		return nil, errs.Newf(errs.ErrorTypeInsufficientPosts, "Not enough posts: %d < %d", total, postsRequired)
	}

	posts := profile.PostsData
	if len(posts) < postsRequired {
		more, err := s.fetchFeedPages(ctx, login, postsRequired-len(posts), profile.PageInfo)
		if err != nil {
			return nil, err
		}
		posts = append(posts[:len(posts):len(posts)], more...)
	}
	if len(posts) > postsRequired {
		posts = posts[:postsRequired]
	}

	items := make([]FeedItem, len(posts))
	for i, post := range posts {
		items[i] = s.parseFeedItem(post, login)
	}

	s.logger.DebugWithFields("feed assembled", map[string]interface{}{
		"login":    login,
		"required": postsRequired,
		"embedded": len(profile.PostsData),
		"returned": len(items),
	})
	return items, nil
}

// fetchFeedPages pages through the posts endpoint until needed items are
// collected or the provider reports no further page. Each page is cached
// under the cursor it was requested with, so repeating a walk is served from
// the cache.
func (s *Scraper) fetchFeedPages(ctx context.Context, login string, needed int, start *PageCursor) ([]payload.Value, error) {
	var cursor PageCursor
	if start != nil {
		cursor = *start
	}

	var posts []payload.Value
	seen := make(map[string]bool)
	for {
		params := transport.P("user", login)
		page := "start"
		if cursor.HasNext && cursor.EndCursor != "" {
			params = params.With("end_cursor", cursor.EndCursor)
			page = cursor.EndCursor
		}
		seen[page] = true

		v, err := s.fetch(ctx, FetchRequest{
			Key:           "feed:" + login + "_" + page,
			URL:           s.baseURL + PostsEndpoint,
			Params:        params,
			RequiredField: itemsPath,
			Timeout:       s.feedTimeout,
		})
		if err != nil {
			return nil, err
		}

		posts = append(posts, v.Get(itemsPath).Items()...)
		cursor = PageCursor{HasNext: v.Get("more_available").Truthy()}
		if next := v.Get("next_max_id").Str(); next != nil {
			cursor.EndCursor = *next
		}

		if len(posts) >= needed || !cursor.HasNext {
			break
		}
		// A next page without a usable cursor would repeat this one
		if cursor.EndCursor == "" || seen[cursor.EndCursor] {
			s.logger.WarnWithFields("pagination stopped without cursor", map[string]interface{}{
				"login":  login,
				"cursor": cursor.EndCursor,
				"posts":  len(posts),
			})
			break
		}
	}

	if len(posts) > needed {
		posts = posts[:needed]
	}
	return posts, nil
}
