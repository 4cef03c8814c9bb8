package httperr

import "errors"

// Kind buckets rejections so callers can render distinct UX per case and
// know which ones are worth retrying.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthorization
	KindNotFound
	KindAvailability
	KindConflict
	KindRateLimited
	KindTransient
)

// Error is a domain rejection carrying a machine-readable code. Admission
// surfaces exactly one of these per request, the first failing rule in
// order, never an aggregate.
type Error struct {
	Kind Kind
	Code string
}

func (e Error) Error() string {
	return e.Code
}

func New(kind Kind, code string) error {
	return Error{Kind: kind, Code: code}
}

func Validation(code string) error    { return Error{Kind: KindValidation, Code: code} }
func Authorization(code string) error { return Error{Kind: KindAuthorization, Code: code} }
func NotFoundErr(code string) error   { return Error{Kind: KindNotFound, Code: code} }
func Availability(code string) error  { return Error{Kind: KindAvailability, Code: code} }
func Conflict(code string) error      { return Error{Kind: KindConflict, Code: code} }
func RateLimited(code string) error   { return Error{Kind: KindRateLimited, Code: code} }
func Transient(code string) error     { return Error{Kind: KindTransient, Code: code} }

func Is(err error, code string) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func CodeOf(err error) string {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal_error"
}
