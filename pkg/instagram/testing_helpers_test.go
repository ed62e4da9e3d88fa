package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"igflash/pkg/cache"
	"igflash/pkg/config"
	"igflash/pkg/diagnostics"
	"igflash/pkg/logger"
	"igflash/pkg/retry"
	"igflash/pkg/transport"
)

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// provider is a fake proxy API counting calls per endpoint
type provider struct {
	mu     sync.Mutex
	calls  map[string]int
	cursor []string
	routes map[string]http.HandlerFunc
}

func newProvider() *provider {
	return &provider{
		calls:  make(map[string]int),
		routes: make(map[string]http.HandlerFunc),
	}
}

func (p *provider) handle(path string, h http.HandlerFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes[path] = h
}

func (p *provider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.calls[r.URL.Path]++
	if r.URL.Path == PostsEndpoint {
		p.cursor = append(p.cursor, r.URL.Query().Get("end_cursor"))
	}
	h, ok := p.routes[r.URL.Path]
	p.mu.Unlock()

	if r.Header.Get("x-rapidapi-key") != "test-key" {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Page not found"}`))
		return
	}
	h(w, r)
}

func (p *provider) callCount(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[path]
}

func (p *provider) cursors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.cursor...)
}

// recordingSink keeps diagnostics in memory
type recordingSink struct {
	mu      sync.Mutex
	records []diagnostics.Record
	lines   []string
}

func (s *recordingSink) RecordScraperError(_ context.Context, rec diagnostics.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

func (s *recordingSink) LogScraperError(_ context.Context, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *recordingSink) snapshot() ([]diagnostics.Record, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]diagnostics.Record(nil), s.records...), append([]string(nil), s.lines...)
}

// clockStore is a cache.Store with a manual clock
type clockStore struct {
	mu      sync.Mutex
	now     time.Time
	entries map[string]clockEntry
}

type clockEntry struct {
	value     []byte
	ttl       time.Duration
	expiresAt time.Time
}

func newClockStore() *clockStore {
	return &clockStore{now: testNow, entries: make(map[string]clockEntry)}
}

func (s *clockStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !s.now.Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (s *clockStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = clockEntry{value: value, ttl: ttl, expiresAt: s.now.Add(ttl)}
}

func (s *clockStore) advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

func (s *clockStore) ttl(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key].ttl
}

type fixture struct {
	scraper  *Scraper
	provider *provider
	store    *cache.MemoryStore
	sink     *recordingSink
	server   *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	p := newProvider()
	server := httptest.NewServer(p)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.Provider.Key = "test-key"
	cfg.Provider.BaseURL = server.URL

	client := transport.NewClient(logger.NewNopLogger())
	client.SetRetry(&retry.Config{
		MaxAttempts: 2,
		Backoff:     &retry.ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     retry.DefaultRetryIf,
	})

	store := cache.NewMemoryStore(100, cfg.Provider.TTL)
	sink := &recordingSink{}
	scraper, err := New(cfg, Options{
		Store:    store,
		Doer:     client,
		Sink:     sink,
		Clock:    func() time.Time { return testNow },
		Location: time.UTC,
		Logger:   logger.NewNopLogger(),
	})
	require.NoError(t, err)

	return &fixture{
		scraper:  scraper,
		provider: p,
		store:    store,
		sink:     sink,
		server:   server,
	}
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

const postInfoJSON = `{
	"items": [{
		"code": "CXJR5eOMXFV",
		"comment_count": 12,
		"pk": 3141592653589793238,
		"image_versions2": {"candidates": [{"url": "https://cdn.test/a.jpg"}]},
		"like_count": 1200,
		"caption": {"user": {"username": "natgeo", "id": "787132"}},
		"ig_play_count": null,
		"media_type": 8
	}]
}`

// graphEdge builds a timeline edge as embedded in profile responses
func graphEdge(i int) map[string]interface{} {
	return map[string]interface{}{
		"node": map[string]interface{}{
			"__typename":            "GraphImage",
			"id":                    fmt.Sprintf("%d", 1000+i),
			"shortcode":             fmt.Sprintf("E%02d", i),
			"display_url":           fmt.Sprintf("https://cdn.test/e%d.jpg", i),
			"edge_media_to_comment": map[string]interface{}{"count": i},
			"edge_liked_by":         map[string]interface{}{"count": 10 * i},
			"owner":                 map[string]interface{}{"id": "787132", "username": "natgeo"},
			"is_video":              false,
			"taken_at_timestamp":    1700000000 + i,
		},
	}
}

// profileJSON builds a web_profile_info response
func profileJSON(login string, total, embedded int, hasNext bool, cursor string, private bool) string {
	edges := make([]interface{}, embedded)
	for i := range edges {
		edges[i] = graphEdge(i)
	}
	return mustJSON(map[string]interface{}{
		"data": map[string]interface{}{
			"user": map[string]interface{}{
				"id":               "787132",
				"username":         login,
				"full_name":        "National Geographic",
				"profile_pic_url":  "https://cdn.test/avatar.jpg",
				"is_private":       private,
				"edge_followed_by": map[string]interface{}{"count": 280000000},
				"edge_owner_to_timeline_media": map[string]interface{}{
					"count": total,
					"page_info": map[string]interface{}{
						"has_next_page": hasNext,
						"end_cursor":    cursor,
					},
					"edges": edges,
				},
			},
		},
		"status": "ok",
	})
}

// postsPageJSON builds a posts_username page holding v1 items from..from+n-1
func postsPageJSON(from, n int, more bool, next string) string {
	items := make([]interface{}, n)
	for i := range items {
		idx := from + i
		items[i] = map[string]interface{}{
			"code":          fmt.Sprintf("P%02d", idx),
			"pk":            fmt.Sprintf("%d", 5000+idx),
			"comment_count": idx,
			"like_count":    100 * idx,
			"media_type":    2,
			"ig_play_count": 999,
			"image_versions2": map[string]interface{}{
				"candidates": []interface{}{map[string]interface{}{"url": fmt.Sprintf("https://cdn.test/p%d.jpg", idx)}},
			},
			"caption": map[string]interface{}{"user": map[string]interface{}{"username": "natgeo", "id": "787132"}},
		}
	}
	page := map[string]interface{}{
		"items":          items,
		"more_available": more,
		"num_results":    n,
	}
	if next != "" {
		page["next_max_id"] = next
	}
	return mustJSON(page)
}
