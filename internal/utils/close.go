package utils

import "io"

// DrainClose reads what is left of a response body (bounded) and closes it,
// so the underlying keep-alive connection can be reused.
func DrainClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 64<<10))
	_ = rc.Close()
}
