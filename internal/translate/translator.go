// Package translate converts recognized text into a target language through
// a pluggable machine-translation backend.
package translate

import (
	"context"
	"fmt"

	"github.com/voxlate/voxlate/internal/catalog"
)

// ServiceError wraps any failure from the translation backend. Translation is
// all-or-nothing per call; there are no partial results.
type ServiceError struct {
	Detail string
	Cause  error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("translate: %s: %v", e.Detail, e.Cause)
	}
	return "translate: " + e.Detail
}

func (e *ServiceError) Unwrap() error { return e.Cause }

// Translator converts text to the destination language. The source language
// is always auto-detected by the backend; callers only choose the
// destination. A successful call never returns an empty string.
type Translator interface {
	Translate(ctx context.Context, text string, dest catalog.Code) (string, error)
}
