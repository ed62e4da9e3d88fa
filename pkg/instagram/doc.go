// Package instagram retrieves Instagram media, profiles and feeds through the
// "flash" proxy API on RapidAPI.
//
// A Scraper caches every successful lookup, remembers "not found" answers
// for a shorter time so repeated lookups of a missing login or post never
// reach the provider, and pages through a user's posts until a requested
// number of them has been collected:
//
//	scraper, err := instagram.New(cfg, instagram.Options{Store: store})
//	if err != nil {
//	    return err
//	}
//
//	media, err := scraper.Media(ctx, "CXJR5eOMXFV")
//	profile, err := scraper.Profile(ctx, "natgeo", false)
//	feed, err := scraper.Feed(ctx, "natgeo", 12)
//	if errors.IsNotFound(err) {
//	    // missing profile, possibly served from the negative cache
//	}
//
// Failures are typed *errors.Error values: not_found, scraper_failure,
// insufficient_posts or validation. Failed calls are reported to a
// diagnostics.Sink together with the provider's rate-limit headers.
package instagram
