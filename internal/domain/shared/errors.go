package shared

import "errors"

// ErrorKind classifies a DomainError. Callers branch on the kind, never on the
// message text.
type ErrorKind string

const (
	KindValidation           ErrorKind = "VALIDATION_ERROR"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindReferentialIntegrity ErrorKind = "REFERENTIAL_INTEGRITY"
	KindConflict             ErrorKind = "CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"-"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is the sentinel for this error's kind, so that
// errors.Is(err, shared.ErrNotFound) matches every not-found error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Code == string(t.Kind)
}

// NewDomainError creates a new domain error of the given kind
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates an error for malformed or out-of-range input
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewNotFoundError creates an error for an unknown identifier
func NewNotFoundError(code, message string) *DomainError {
	return NewDomainError(KindNotFound, code, message)
}

// NewReferentialIntegrityError creates an error for a delete blocked by references
func NewReferentialIntegrityError(code, message string) *DomainError {
	return NewDomainError(KindReferentialIntegrity, code, message)
}

// NewConflictError creates an error for a storage-level uniqueness conflict
func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// Kind sentinels
var (
	ErrValidation           = NewDomainError(KindValidation, string(KindValidation), "Invalid input provided")
	ErrNotFound             = NewDomainError(KindNotFound, string(KindNotFound), "Resource not found")
	ErrReferentialIntegrity = NewDomainError(KindReferentialIntegrity, string(KindReferentialIntegrity), "Resource is still referenced")
	ErrConflict             = NewDomainError(KindConflict, string(KindConflict), "Resource was modified by another process")
)

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsReferentialIntegrity reports whether err is a referential integrity error
func IsReferentialIntegrity(err error) bool {
	return errors.Is(err, ErrReferentialIntegrity)
}

// AsDomainError extracts the DomainError from err's chain
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
