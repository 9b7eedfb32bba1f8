package metrics

import (
	"errors"
	"testing"

	"github.com/seethefuture888888-creator/kangbo/internal/source"
)

func TestResultFor(t *testing.T) {
	if got := ResultFor(nil); got != ResultOK {
		t.Fatalf("expected ok result, got %s", got)
	}
	if got := ResultFor(&source.SchemaError{Missing: []string{"assets"}}); got != ResultSchemaError {
		t.Fatalf("expected schema result, got %s", got)
	}
	if got := ResultFor(&source.FetchError{URL: "http://x", Status: 500}); got != ResultFetchError {
		t.Fatalf("expected fetch result, got %s", got)
	}
	if got := ResultFor(errors.New("misc")); got != ResultFetchError {
		t.Fatalf("unclassified errors count as fetch failures, got %s", got)
	}
}
