package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Skotchmaster/shop_backoffice/internal/hash"
	"github.com/Skotchmaster/shop_backoffice/internal/repo"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrReferenceNotFound  = errors.New("referenced document not found")
	ErrUpload             = errors.New("upload failed")
	ErrNotFound           = repo.ErrNotFound
	ErrUserAlreadyExist   = repo.ErrUserAlreadyExist
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordTooLong    = hash.ErrPasswordTooLong
)

// FormError rejects a submission with messages keyed by form field. Kind is
// one of ErrValidation, ErrReferenceNotFound or ErrUpload.
type FormError struct {
	Kind   error
	Fields map[string]string
}

func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%v (%s)", e.Kind, strings.Join(parts, "; "))
}

func (e *FormError) Unwrap() error { return e.Kind }

func formError(kind error, field, msg string) *FormError {
	return &FormError{Kind: kind, Fields: map[string]string{field: msg}}
}

func AsFormError(err error) (*FormError, bool) {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
