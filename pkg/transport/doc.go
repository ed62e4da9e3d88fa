// Package transport performs the HTTP GET requests sent to the proxy API.
//
// Client applies default headers, an optional client-side throttle and a
// per-attempt timeout, and retries transient failures with a constant delay.
// Responses are read fully; any non-2xx status becomes a typed *errors.Error
// wrapping a *ResponseError, so callers can still look at the status, headers
// and body of a failed call:
//
//	resp, err := client.Get(ctx, url, transport.P("shortcode", code), headers, 20*time.Second)
//	if err != nil {
//	    if failed := transport.ResponseOf(err); failed != nil {
//	        log.Printf("status %d: %s", failed.Status, failed.Body)
//	    }
//	}
package transport
