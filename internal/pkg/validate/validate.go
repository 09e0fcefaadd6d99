package validate

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"sort"
	"strings"
)

var ErrInvalid = errors.New("invalid input")

// Error carries field-level problems. errors.Is(err, ErrInvalid) holds for it.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrInvalid.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalid.Error(), strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

// Problems accumulates one message per field; the first message wins.
type Problems struct {
	fields map[string]string
}

func (p *Problems) Add(field, message string) {
	if p.fields == nil {
		p.fields = make(map[string]string)
	}
	if _, exists := p.fields[field]; exists {
		return
	}
	p.fields[field] = message
}

func (p *Problems) Check(ok bool, field, message string) {
	if !ok {
		p.Add(field, message)
	}
}

func (p *Problems) Empty() bool {
	return len(p.fields) == 0
}

func (p *Problems) Err() error {
	if p.Empty() {
		return nil
	}
	out := make(map[string]string, len(p.fields))
	for k, v := range p.fields {
		out[k] = v
	}
	return &Error{Fields: out}
}

// FieldsOf extracts field-level problems from err, if any.
func FieldsOf(err error) (map[string]string, bool) {
	var verr *Error
	if errors.As(err, &verr) && verr != nil {
		return verr.Fields, true
	}
	return nil, false
}

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func Email(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	return addr.Address == value
}

// HTTPURL reports whether value is an absolute http or https URL with a host.
func HTTPURL(value string) bool {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
