// Package errors provides a helper for attaching a sentinel error on top of
// an underlying cause without losing either for errors.Is checks.
package errors

import "errors"

// With returns an error that represents top wrapped on top of the base error.
func With(base, top error) error {
	if base == nil && top == nil {
		return nil
	}
	if top == nil {
		return base
	}
	if base == nil {
		return top
	}
	return union{error: base, top: top}
}

type union struct {
	error
	top error
}

func (u union) Is(target error) bool {
	// Like errors.Is, but without iterative unwrapping: if top doesn't match,
	// errors.Is will Unwrap, which does the right thing.
	if target == nil {
		return false
	}
	if errors.Is(u.top, target) {
		return true
	}
	return false
}

func (u union) Unwrap() error {
	if err := errors.Unwrap(u.top); err != nil {
		return union{error: u.error, top: err}
	}
	// ran out of errors on top to unwrap, so return the underlying error.
	return u.error
}
