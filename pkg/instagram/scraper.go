package instagram

import (
	"context"
	"net/http"
	"strings"
	"time"

	"igflash/pkg/cache"
	"igflash/pkg/config"
	"igflash/pkg/diagnostics"
	errs "igflash/pkg/errors"
	"igflash/pkg/logger"
	"igflash/pkg/payload"
	"igflash/pkg/transport"
)

// Name identifies this scraper in cache keys and diagnostics
const Name = "InstagramFlashScraper"

// Options holds the collaborators of a Scraper. Nil fields get defaults: an
// in-memory store, the HTTP transport, a logging sink, time.Now and the
// configured timezone.
type Options struct {
	Store    cache.Store
	Doer     transport.Doer
	Sink     diagnostics.Sink
	Clock    func() time.Time
	Location *time.Location
	Logger   logger.Logger
}

// Scraper fetches media, profiles and feeds from the proxy API, caching
// successful lookups and remembering missing profiles and posts. It is safe
// for concurrent use.
type Scraper struct {
	key         string
	host        string
	baseURL     string
	ttl         time.Duration
	timeout     time.Duration
	feedTimeout time.Duration
	errorPrefix string
	errorTTL    time.Duration

	store      cache.Store
	doer       transport.Doer
	sink       diagnostics.Sink
	now        func() time.Time
	loc        *time.Location
	mediaTypes MediaTypes
	logger     logger.Logger
}

// New creates a scraper from cfg
func New(cfg *config.Config, opts Options) (*Scraper, error) {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	loc := opts.Location
	if loc == nil {
		var err error
		loc, err = cfg.Location()
		if err != nil {
			return nil, errs.Wrap(errs.ErrorTypeConfiguration, "invalid timezone", err)
		}
	}

	s := &Scraper{
		key:         cfg.Provider.Key,
		host:        cfg.Provider.Host,
		baseURL:     strings.TrimRight(cfg.Provider.BaseURL, "/"),
		ttl:         cfg.Provider.TTL,
		timeout:     cfg.Provider.Timeout,
		feedTimeout: cfg.Provider.FeedTimeout,
		errorPrefix: cfg.Cache.ErrorKeyPrefix,
		errorTTL:    cfg.Cache.ErrorTTL,
		store:       opts.Store,
		doer:        opts.Doer,
		sink:        opts.Sink,
		now:         opts.Clock,
		loc:         loc,
		mediaTypes:  DefaultMediaTypes().With(cfg.MediaTypes),
		logger:      log.WithField("scraper", Name),
	}
	if s.baseURL == "" {
		s.baseURL = "https://" + s.host
	}
	if s.store == nil {
		s.store = cache.NewMemoryStore(cfg.Cache.MaxEntries, cfg.Provider.TTL)
	}
	if s.doer == nil {
		s.doer = transport.NewClientFromConfig(cfg, log)
	}
	if s.sink == nil {
		s.sink = diagnostics.NewLogSink(log)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// headers returns the provider authentication headers
func (s *Scraper) headers() map[string]string {
	return map[string]string{
		"x-rapidapi-host": s.host,
		"x-rapidapi-key":  s.key,
	}
}

// Media returns a post by shortcode
func (s *Scraper) Media(ctx context.Context, code string) (*Media, error) {
	v, err := s.fetch(ctx, FetchRequest{
		Key:           "media:" + code,
		URL:           s.baseURL + PostInfoEndpoint,
		Params:        transport.P("shortcode", code),
		RequiredField: itemsPath,
	})
	if err != nil {
		return nil, err
	}

	item := v.Get(itemsPath + ".0")
	if item.Kind() != payload.Mapping {
		return nil, errs.Newf(errs.ErrorTypeScraperFailure, "Bad response from %s", Name)
	}
	media := s.parseMedia(item)
	return &media, nil
}

// Profile returns a user profile. With includeFeed the first timeline page
// and its cursor are included.
func (s *Scraper) Profile(ctx context.Context, login string, includeFeed bool) (*Profile, error) {
	v, err := s.fetch(ctx, FetchRequest{
		Key:           "profile:" + login,
		URL:           s.baseURL + ProfileEndpoint,
		Params:        transport.P("user", login),
		RequiredField: dataUserPath,
	})
	if err != nil {
		return nil, err
	}

	profile := parseProfile(v.Get(dataUserPath), includeFeed)
	return &profile, nil
}

// httpStatus returns the status code reported for a failure, 0 when no
// response was received
func httpStatus(resp *transport.Response) int {
	if resp == nil {
		return 0
	}
	return resp.Status
}

// header returns the headers of resp, or nil
func header(resp *transport.Response) http.Header {
	if resp == nil {
		return nil
	}
	return resp.Header
}
