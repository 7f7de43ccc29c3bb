package domain

import "fmt"

// RetrievalError reports a remote collaborator (feature source or
// catalog) that was unreachable or answered with a non-success status.
type RetrievalError struct {
	URL    string
	Status int
	Err    error
}

func (e *RetrievalError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("retrieve %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("retrieve %s: %v", e.URL, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// NotFoundError reports a local feature source file that does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("feature source %s not found", e.Path) }

func (e *NotFoundError) Unwrap() error { return e.Err }

// ParseError reports malformed GeoJSON content.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Source, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// NoScenesFoundError reports a scene search that exhausted its iteration
// budget without a match. It is a recoverable condition for the caller,
// distinct from a transport failure.
type NoScenesFoundError struct {
	Collection string
	Searched   []string // date ranges tried, oldest last
}

func (e *NoScenesFoundError) Error() string {
	return fmt.Sprintf("no scenes found in collection %s after searching %d date ranges (%s .. %s)",
		e.Collection, len(e.Searched), first(e.Searched), last(e.Searched))
}

// MissingAssetError reports a requested asset key absent from a scene:
// a mismatch between the configured asset key and the catalog schema.
type MissingAssetError struct {
	ItemID string
	Key    string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("scene %s has no asset %q", e.ItemID, e.Key)
}

// MissingPropertyError reports a requested sort or display property
// absent from a scene.
type MissingPropertyError struct {
	ItemID string
	Key    string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("scene %s has no property %q", e.ItemID, e.Key)
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func last(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}
