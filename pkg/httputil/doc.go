// Package httputil provides HTTP helpers for fetching remote recipe sources.
//
// [Retry] wraps a fetch with exponential backoff. Only failures wrapped in
// [RetryableError] are retried (network errors, 5xx and 429 responses);
// anything else, such as a 404 or a malformed body, returns immediately.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
package httputil
