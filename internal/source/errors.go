package source

import (
	"fmt"
	"strings"
)

// FetchError reports a transport or HTTP-status failure while pulling the
// payload. Recoverable: the session degrades to the bundled reference data.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SchemaError reports a payload missing one or more mandatory fields.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid payload schema: missing %s", strings.Join(e.Missing, ", "))
}
