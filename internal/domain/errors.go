package domain

import (
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindBadRequest ErrorKind = "BAD_REQUEST"
	KindConflict   ErrorKind = "CONFLICT"
)

// Error is the typed failure surfaced by the booking core. Callers match the
// kind with errors.Is against ErrNotFound, ErrBadRequest or ErrConflict and
// recover the offending references with errors.As.
type Error struct {
	Kind    ErrorKind
	Entity  string
	Refs    []string
	Message string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(string(e.Kind)))
	if e.Entity != "" {
		b.WriteString(": ")
		b.WriteString(e.Entity)
	}
	if len(e.Refs) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(e.Refs, ","))
		b.WriteString("]")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	return b.String()
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Entity != "" && t.Entity != e.Entity {
		return false
	}
	if t.Message != "" && t.Message != e.Message {
		return false
	}

	return t.Kind == e.Kind
}

var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrBadRequest = &Error{Kind: KindBadRequest}
	ErrConflict   = &Error{Kind: KindConflict}
)

const (
	EntityTent         = "tent"
	EntityProduct      = "product"
	EntityExperience   = "experience"
	EntityDiscountCode = "discount_code"
	EntityPromotion    = "promotion"
	EntityReserve      = "reserve"
	EntityLineItem     = "line_item"
	EntityUser         = "user"
)

const (
	MsgOutOfStock       = "out of stock"
	MsgExpired          = "expired"
	MsgInactive         = "inactive"
	MsgInvalidDateRange = "date_to must not be before date_from"
	MsgTerminalReserve  = "reserve is completed or canceled"
	MsgConfirmedLine    = "confirmed line items cannot be modified"
	MsgCodeExists       = "code already exists"
	MsgEmailExists      = "email already exists"
)

func NotFound(entity string, refs ...any) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Refs: toRefs(refs)}
}

func BadRequest(entity, message string, refs ...any) *Error {
	return &Error{Kind: KindBadRequest, Entity: entity, Message: message, Refs: toRefs(refs)}
}

func Conflict(entity, message string, refs ...any) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Message: message, Refs: toRefs(refs)}
}

func toRefs(refs []any) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		switch v := r.(type) {
		case []uint:
			for _, id := range v {
				out = append(out, fmt.Sprint(id))
			}
		default:
			out = append(out, fmt.Sprint(v))
		}
	}

	return out
}
