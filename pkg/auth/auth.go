// Package auth validates password sign-in parameters before they are sent to
// the backend's session endpoint.
package auth

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 16

// Params are the credentials submitted by the user.
type Params struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is what gets forwarded to session creation. The password never
// leaves this package through it.
type Profile struct {
	Email string `json:"email"`
}

// ValidationError carries the messages for every invalid field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Error lists the field messages in field order.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	return "invalid sign-in parameters: " + strings.Join(parts, ", ")
}

// Messages returns the messages for one field.
func (e *ValidationError) Messages(field string) []string {
	return e.Fields[field]
}

type formatted struct {
	Errors []string `json:"_errors"`
}

// MarshalJSON writes the nested form clients already parse:
// {"_errors":[],"email":{"_errors":["..."]}}.
func (e *ValidationError) MarshalJSON() ([]byte, error) {
	out := map[string]any{"_errors": []string{}}
	for name, msgs := range e.Fields {
		out[name] = formatted{Errors: msgs}
	}
	return json.Marshal(out)
}

// Profile checks p and returns the profile to hand to the backend. A failure
// is always a *ValidationError.
func (p Params) Profile() (Profile, error) {
	verr := &ValidationError{}

	if !validEmail(p.Email) {
		verr.add("email", "Invalid email")
	}
	if utf8.RuneCountInString(p.Password) < MinPasswordLength {
		verr.add("password", fmt.Sprintf("String must contain at least %d character(s)", MinPasswordLength))
	}

	if len(verr.Fields) > 0 {
		return Profile{}, verr
	}
	return Profile{Email: p.Email}, nil
}

// NewProfile is shorthand for p.Profile().
func NewProfile(p Params) (Profile, error) {
	return p.Profile()
}

// validEmail accepts a bare addr-spec with a dotted domain.
func validEmail(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
