package instagram

import (
	"context"
	"fmt"

	"igflash/pkg/diagnostics"
	errs "igflash/pkg/errors"
	"igflash/pkg/payload"
	"igflash/pkg/ratelimit"
	"igflash/pkg/transport"
)

// NotFoundMessage is returned when the provider reports a missing profile or post
const NotFoundMessage = "Instagram profile or media not found"

// providerNotFound is the message the provider answers with for missing pages
const providerNotFound = "Page not found"

// classify turns a failed call into a caller-facing error. Every failure is
// logged to the sink. A provider "Page not found" becomes a NotFound error
// and is remembered under the URL; anything else is recorded as a scraper
// error and reported as a bad response.
func (s *Scraper) classify(ctx context.Context, err error, url string, params transport.Params) *errs.Error {
	resp := transport.ResponseOf(err)
	status := httpStatus(resp)
	limits := ratelimit.FromHeaders(header(resp)).Summary(s.now(), s.loc)

	var body string
	if resp != nil {
		body = string(resp.Body)
	} else {
		body = err.Error()
	}

	notFound := resp != nil && providerMessage(resp.Body) == providerNotFound
	if !notFound {
		s.sink.RecordScraperError(ctx, diagnostics.Record{
			Time:       s.now(),
			Scraper:    Name,
			Response:   body,
			StatusCode: status,
			URL:        url,
			Params:     params.String(),
			Limits:     limits,
		})
	}

	s.sink.LogScraperError(ctx, fmt.Sprintf("%s, %s status code: %d response: %s limits: %s",
		url, params.String(), status, body, limits))

	if notFound {
		s.rememberNotFound(ctx, s.negativeKey(url), NotFoundMessage)
		return &errs.Error{
			Type:    errs.ErrorTypeNotFound,
			Message: NotFoundMessage,
			Code:    status,
			Err:     err,
		}
	}

	return &errs.Error{
		Type:    errs.ErrorTypeScraperFailure,
		Message: "Bad response from " + Name,
		Code:    status,
		Err:     err,
	}
}

// providerMessage returns the top-level "message" of a response body
func providerMessage(body []byte) string {
	v, err := payload.Decode(body)
	if err != nil {
		return ""
	}
	if msg := v.Get("message").Str(); msg != nil {
		return *msg
	}
	return ""
}
