package model

import (
	"errors"
	"fmt"
)

// MalformedProfileError reports a structural problem in ingested profile
// data. Path locates the offending value, e.g. "$.children[2].sampleCount".
type MalformedProfileError struct {
	Path string
	Err  error
}

func (e *MalformedProfileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed profile: %v", e.Err)
	}
	return fmt.Sprintf("malformed profile at %s: %v", e.Path, e.Err)
}

func (e *MalformedProfileError) Unwrap() error { return e.Err }

func IsMalformedProfileError(err error) bool {
	if err == nil {
		return false
	}
	var v *MalformedProfileError
	return errors.As(err, &v)
}

func malformed(path string, format string, args ...any) error {
	return &MalformedProfileError{Path: path, Err: fmt.Errorf(format, args...)}
}

var (
	errMissingWeight = errors.New("missing weight")
	errNotSequence   = errors.New("children is not a sequence")
)
