package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	// Validation
	ErrMissingField    = fmt.Errorf("missing required field")
	ErrInvalidEmail    = fmt.Errorf("invalid email format")
	ErrInvalidPassword = fmt.Errorf("password does not meet requirements")
	ErrInvalidMessage  = fmt.Errorf("text or image is required")
	ErrSelfMessage     = fmt.Errorf("cannot send messages to yourself")
	ErrSelfReference   = fmt.Errorf("you cannot add yourself")
	ErrTextTooLong     = fmt.Errorf("text is too long")
	ErrInvalidImage    = fmt.Errorf("invalid image payload")
	ErrInvalidBody     = fmt.Errorf("invalid request body")

	// Not found
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrRequestNotFound = fmt.Errorf("invitation not found")

	// Conflict
	ErrAlreadyFriends    = fmt.Errorf("you are already friends")
	ErrDuplicateRequest  = fmt.Errorf("invitation already sent previously")
	ErrUserAlreadyExists = fmt.Errorf("email already exists")

	// Authentication
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUnauthenticated    = fmt.Errorf("unauthorized")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	// Internal
	ErrStorage                = fmt.Errorf("storage failure")
	ErrConnectionClosed       = fmt.Errorf("connection closed")
	ErrFriendshipInconsistent = fmt.Errorf("friendship update left inconsistent state")
)

type classified struct {
	sentinel error
	kind     Kind
}

// kinds is ordered: when a chain wraps several sentinels, the first listed wins.
var kinds = []classified{
	{ErrMissingField, KindValidation},
	{ErrInvalidEmail, KindValidation},
	{ErrInvalidPassword, KindValidation},
	{ErrInvalidMessage, KindValidation},
	{ErrSelfMessage, KindValidation},
	{ErrSelfReference, KindValidation},
	{ErrTextTooLong, KindValidation},
	{ErrInvalidImage, KindValidation},
	{ErrInvalidBody, KindValidation},
	{ErrUserNotFound, KindNotFound},
	{ErrRequestNotFound, KindNotFound},
	{ErrAlreadyFriends, KindConflict},
	{ErrDuplicateRequest, KindConflict},
	{ErrUserAlreadyExists, KindConflict},
	{ErrInvalidCredentials, KindValidation},
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrTokenGeneration, KindInternal},
	{ErrStorage, KindInternal},
	{ErrConnectionClosed, KindInternal},
	{ErrFriendshipInconsistent, KindInternal},
}

// KindOf walks the wrap chain and returns the kind of the first known sentinel.
// Unknown errors are internal.
func KindOf(err error) Kind {
	if c, ok := classify(err); ok {
		return c.kind
	}
	return KindInternal
}

func classify(err error) (classified, bool) {
	for _, c := range kinds {
		if stderrors.Is(err, c.sentinel) {
			return c, true
		}
	}
	return classified{}, false
}

// MapToHTTPStatus converts a service error into the status code returned to clients.
// Conflicts are client-correctable and reported as 400 like validation failures.
func MapToHTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text a client may see. Internal failures never leak details.
func PublicMessage(err error) string {
	c, ok := classify(err)
	if !ok || c.kind == KindInternal {
		return "Internal server error"
	}
	return c.sentinel.Error()
}

// Is and As are re-exported so callers importing this package as "errors"
// keep access to the standard helpers.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func New(text string) error { return stderrors.New(text) }
