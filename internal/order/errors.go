package order

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("this order cannot be changed that way")
	ErrWindowExpired     = errors.New("return/exchange period expired (7 days limit)")
	ErrForbidden         = errors.New("forbidden")
	ErrNothingToCheckout = errors.New("nothing to check out")
)

// ValidationError lists the fields a caller has to fix.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
