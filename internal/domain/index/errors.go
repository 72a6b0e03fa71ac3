package index

import (
	"errors"
	"fmt"
)

// Indexing failure kinds.
var (
	ErrIndexCreation = errors.New("failed to create index")
	ErrIndexWriter   = errors.New("failed to open index writer")
	ErrAddDoc        = errors.New("failed to add document")
	ErrCommit        = errors.New("failed to commit index")
)

// Search failure kinds.
var (
	ErrIndexReader         = errors.New("failed to open index reader")
	ErrInvalidRegexPattern = errors.New("invalid regex pattern")
	ErrSearchFailed        = errors.New("search failed")
	ErrRetrievingDoc       = errors.New("failed to retrieve document")
)

// IndexError reports a failed Index call. Kind is one of the indexing
// sentinels; Err is the underlying cause.
type IndexError struct {
	Kind error
	Err  error
}

func (e *IndexError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *IndexError) Unwrap() []error {
	return causes(e.Kind, e.Err)
}

// SearchError reports a failed Search call.
type SearchError struct {
	Kind error
	Err  error
}

func (e *SearchError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *SearchError) Unwrap() []error {
	return causes(e.Kind, e.Err)
}

func causes(kind, err error) []error {
	if err == nil {
		return []error{kind}
	}
	return []error{kind, err}
}

func indexErr(kind, err error) error  { return &IndexError{Kind: kind, Err: err} }
func searchErr(kind, err error) error { return &SearchError{Kind: kind, Err: err} }
