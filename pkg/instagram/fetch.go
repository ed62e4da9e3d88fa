package instagram

import (
	"context"
	"encoding/json"
	"time"

	errs "igflash/pkg/errors"
	"igflash/pkg/payload"
	"igflash/pkg/transport"
)

// FetchRequest describes one cached provider call
type FetchRequest struct {
	// Key is the positive cache key, unique per operation and arguments
	Key    string
	URL    string
	Params transport.Params
	// RequiredField is a dotted path that must be truthy in the response
	RequiredField string
	// Timeout overrides the default per-attempt timeout
	Timeout time.Duration
}

// fetch serves req from the cache, or calls the provider and caches the
// result. A remembered not-found answer is returned without a network call.
// Private profiles are returned but never cached.
func (s *Scraper) fetch(ctx context.Context, req FetchRequest) (payload.Value, error) {
	log := s.logger.WithField("key", req.Key)

	if raw, ok := s.store.Get(ctx, req.Key); ok {
		v, err := payload.Decode(raw)
		if err == nil {
			log.Debug("cache hit")
			return v, nil
		}
		log.WithError(err).Warn("discarding unreadable cache entry")
	}

	if raw, ok := s.store.Get(ctx, s.negativeKey(req.Key)); ok {
		log.Debug("negative cache hit")
		return payload.Value{}, &errs.Error{
			Type:      errs.ErrorTypeNotFound,
			Message:   cachedMessage(raw),
			FromCache: true,
		}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.timeout
	}

	resp, err := s.doer.Get(ctx, req.URL, req.Params, s.headers(), timeout)
	if err != nil {
		if ctx.Err() != nil {
			return payload.Value{}, ctx.Err()
		}
		return payload.Value{}, s.fail(ctx, req, err)
	}

	v, err := payload.Decode(resp.Body)
	if err != nil || !isDocument(v) || (req.RequiredField != "" && !v.Get(req.RequiredField).Truthy()) {
		log.WarnWithFields("required field missing for endpoint", map[string]interface{}{
			"required_field": req.RequiredField,
			"status":         resp.Status,
		})
		return payload.Value{}, s.fail(ctx, req, &errs.Error{
			Type:    errs.ErrorTypeValidation,
			Message: "invalid response payload",
			Code:    resp.Status,
			Err:     &transport.ResponseError{Response: resp},
		})
	}

	if v.Get("data.user.is_private").Truthy() {
		log.Debug("private profile, not cached")
		return v, nil
	}

	s.store.Set(ctx, req.Key, resp.Body, s.ttl)
	return v, nil
}

// fail classifies a failed call. A fresh not-found answer is remembered
// under the operation key so the next identical request short-circuits.
func (s *Scraper) fail(ctx context.Context, req FetchRequest, err error) error {
	classified := s.classify(ctx, err, req.URL, req.Params)
	if classified.Type == errs.ErrorTypeNotFound {
		s.rememberNotFound(ctx, s.negativeKey(req.Key), classified.Message)
	}
	return classified
}

// negativeKey returns the not-found cache key for an operation key or URL
func (s *Scraper) negativeKey(key string) string {
	return s.errorPrefix + Name + ":" + key
}

func (s *Scraper) rememberNotFound(ctx context.Context, key, message string) {
	raw, err := json.Marshal(message)
	if err != nil {
		return
	}
	s.store.Set(ctx, key, raw, s.errorTTL)
}

// cachedMessage decodes a stored not-found message
func cachedMessage(raw []byte) string {
	if v, err := payload.Decode(raw); err == nil {
		if msg := v.Str(); msg != nil {
			return *msg
		}
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return NotFoundMessage
}

// isDocument reports whether v is a JSON object or array
func isDocument(v payload.Value) bool {
	return v.Kind() == payload.Mapping || v.Kind() == payload.Sequence
}
