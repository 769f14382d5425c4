package fetch

import "fmt"

// FetchError indicates the remote archive request did not succeed.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch failed: url=%s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch failed: status=%d url=%s", e.StatusCode, e.URL)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CorruptArchiveError indicates the downloaded payload is not a valid
// archive or failed its internal integrity check.
type CorruptArchiveError struct {
	URL string
	Err error
}

func (e *CorruptArchiveError) Error() string {
	return fmt.Sprintf("corrupt archive: url=%s: %v", e.URL, e.Err)
}

func (e *CorruptArchiveError) Unwrap() error { return e.Err }
