package instagram

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "igflash/pkg/errors"
)

// pagesByCursor serves posts pages keyed by the end_cursor query parameter
func pagesByCursor(t *testing.T, pages map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "natgeo", r.URL.Query().Get("user"))
		body, ok := pages[r.URL.Query().Get("end_cursor")]
		if !ok {
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("end_cursor"))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, body)
	}
}

func codes(items []FeedItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		if item.Code != nil {
			out[i] = *item.Code
		}
	}
	return out
}

func TestFeedInsufficientPosts(t *testing.T) {
	f := newFixture(t)
	f.provider.handle(ProfileEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, profileJSON("natgeo", 5, 5, false, "", false))
	})

	_, err := f.scraper.Feed(context.Background(), "natgeo", 12)
	require.Error(t, err)

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.ErrorTypeInsufficientPosts, e.Type)
	assert.Equal(t, "Not enough posts: 5 < 12", e.Message)
	assert.Equal(t, 0, f.provider.callCount(PostsEndpoint))
}

func TestFeedFromEmbeddedEdges(t *testing.T) {
	f := newFixture(t)
	f.provider.handle(ProfileEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, profileJSON("natgeo", 100, 12, true, "C1", false))
	})

	items, err := f.scraper.Feed(context.Background(), "natgeo", 10)
	require.NoError(t, err)
	require.Len(t, items, 10)
	assert.Equal(t, 0, f.provider.callCount(PostsEndpoint))

	first := items[0]
	assert.Equal(t, "E00", *first.Code)
	assert.Equal(t, "1000", *first.ID)
	assert.Equal(t, "https://cdn.test/e0.jpg", *first.Img)
	assert.Equal(t, "natgeo", *first.Login)
	assert.Equal(t, "787132", *first.OwnerID)
	assert.Equal(t, MediaTypePhoto, first.Type)
	assert.Equal(t, "natgeo", first.FeedLogin)
	assert.Equal(t, "https://www.instagram.com/p/E00/", *first.Link)
	assert.Equal(t, int64(90), *items[9].Likes)
}

func TestFeedPaginatesRemainder(t *testing.T) {
	f := newFixture(t)
	f.provider.handle(ProfileEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, profileJSON("natgeo", 20, 8, true, "C1", false))
	})
	f.provider.handle(PostsEndpoint, pagesByCursor(t, map[string]string{
		"C1": postsPageJSON(0, 12, true, "C2"),
	}))

	items, err := f.scraper.Feed(context.Background(), "natgeo", 12)
	require.NoError(t, err)
	require.Len(t, items, 12)

	assert.Equal(t, 1, f.provider.callCount(PostsEndpoint))
	assert.Equal(t, []string{"C1"}, f.provider.cursors())
	assert.Equal(t, []string{
		"E00", "E01", "E02", "E03", "E04", "E05", "E06", "E07",
		"P00", "P01", "P02", "P03",
	}, codes(items))

	fetched := items[8]
	assert.Equal(t, "5000", *fetched.ID)
	assert.Equal(t, int64(999), *fetched.Views)
	assert.Equal(t, MediaTypeVideo, fetched.Type)
	assert.Equal(t, "https://cdn.test/p0.jpg", *fetched.Img)
}

func TestFeedFollowsCursors(t *testing.T) {
	f := newFixture(t)
	f.provider.handle(ProfileEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, profileJSON("natgeo", 20, 8, true, "C1", false))
	})
	f.provider.handle(PostsEndpoint, pagesByCursor(t, map[string]string{
		"C1": postsPageJSON(0, 3, true, "C2"),
		"C2": postsPageJSON(3, 3, true, "C3"),
	}))
	ctx := context.Background()

	items, err := f.scraper.Feed(ctx, "natgeo", 12)
	require.NoError(t, err)
	require.Len(t, items, 12)
	assert.Equal(t, []string{"C1", "C2"}, f.provider.cursors())
	assert.Equal(t, "P03", *items[11].Code)

	// Every page is cached under its cursor
	for _, key := range []string{"profile:natgeo", "feed:natgeo_C1", "feed:natgeo_C2"} {
		_, ok := f.store.Get(ctx, key)
		assert.True(t, ok, key)
	}

	again, err := f.scraper.Feed(ctx, "natgeo", 12)
	require.NoError(t, err)
	assert.Equal(t, items, again)
	assert.Equal(t, 1, f.provider.callCount(ProfileEndpoint))
	assert.Equal(t, 2, f.provider.callCount(PostsEndpoint))
}

func TestFeedStartsWithoutCursor(t *testing.T) {
	f := newFixture(t)
	f.provider.handle(ProfileEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, profileJSON("natgeo", 20, 0, false, "", false))
	})
	f.provider.handle(PostsEndpoint, pagesByCursor(t, map[string]string{
		"":   postsPageJSON(0, 4, true, "N1"),
		"N1": postsPageJSON(4, 4, false, ""),
	}))
	ctx := context.Background()

	items, err := f.scraper.Feed(ctx, "natgeo", 6)
	require.NoError(t, err)
	assert.Equal(t, []string{"P00", "P01", "P02", "P03", "P04", "P05"}, codes(items))
	assert.Equal(t, []string{"", "N1"}, f.provider.cursors())

	_, ok := f.store.Get(ctx, "feed:natgeo_start")
	assert.True(t, ok)
}

func TestFeedStopsAtLastPage(t *testing.T) {
	f := newFixture(t)
	f.provider.handle(ProfileEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, profileJSON("natgeo", 20, 2, true, "C1", false))
	})
	f.provider.handle(PostsEndpoint, pagesByCursor(t, map[string]string{
		"C1": postsPageJSON(0, 3, false, ""),
	}))

	items, err := f.scraper.Feed(context.Background(), "natgeo", 12)
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, 1, f.provider.callCount(PostsEndpoint))
}

func TestFeedHasNextWithoutCursorTerminates(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"missing cursor", postsPageJSON(0, 2, true, "")},
		{"repeated cursor", postsPageJSON(0, 2, true, "C1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.provider.handle(ProfileEndpoint, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, profileJSON("natgeo", 20, 2, true, "C1", false))
			})
			f.provider.handle(PostsEndpoint, pagesByCursor(t, map[string]string{"C1": tt.page}))

			items, err := f.scraper.Feed(context.Background(), "natgeo", 12)
			require.NoError(t, err)
			assert.Len(t, items, 4)
			assert.Equal(t, 1, f.provider.callCount(PostsEndpoint))
		})
	}
}

func TestFeedPageFailure(t *testing.T) {
	f := newFixture(t)
	f.provider.handle(ProfileEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, profileJSON("natgeo", 20, 2, true, "C1", false))
	})
	f.provider.handle(PostsEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"items": [], "more_available": false}`)
	})

	_, err := f.scraper.Feed(context.Background(), "natgeo", 12)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeScraperFailure, errs.TypeOf(err))

	records, _ := f.sink.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, `{"user":"natgeo","end_cursor":"C1"}`, records[0].Params)
}

func TestFeedUnknownProfile(t *testing.T) {
	f := newFixture(t)

	_, err := f.scraper.Feed(context.Background(), "ghost", 12)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, 0, f.provider.callCount(PostsEndpoint))
}

func TestFeedRejectsNonPositiveCount(t *testing.T) {
	f := newFixture(t)

	for _, n := range []int{0, -3} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			_, err := f.scraper.Feed(context.Background(), "natgeo", n)
			require.Error(t, err)
			assert.Equal(t, errs.ErrorTypeValidation, errs.TypeOf(err))
		})
	}
	assert.Equal(t, 0, f.provider.callCount(ProfileEndpoint))
}
