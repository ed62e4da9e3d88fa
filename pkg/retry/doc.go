// Package retry provides the fixed-count retry used by the transport.
//
// The provider policy is a small number of attempts with a constant delay
// between them, retrying only transient failures (network errors, 429 and
// 5xx responses):
//
//	resp, err := retry.DoWithResult(ctx, func(ctx context.Context) (*Response, error) {
//		return c.do(ctx, req)
//	}, &retry.Config{
//		MaxAttempts: 2,
//		Backoff:     &retry.ConstantBackoff{Delay: 500 * time.Millisecond},
//		RetryIf:     retry.DefaultRetryIf,
//		Logger:      log,
//	})
//
// The last error is returned wrapped, so callers can still inspect it with
// errors.As. Waiting between attempts stops as soon as ctx is done.
package retry
