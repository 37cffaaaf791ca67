// Package api provides the shelf backend client.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/open-cli-collective/shelf-cli/pkg/valueeditor"
)

// User is the signed-in account.
type User struct {
	ID           string `json:"_id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	CreationTime Time   `json:"_creationTime,omitempty"`
}

// Session holds the tokens returned by a successful sign-in.
type Session struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Field describes one filterable asset field.
type Field struct {
	ID          string                `json:"_id" yaml:"id,omitempty"`
	Name        string                `json:"name" yaml:"name"`
	Label       string                `json:"label" yaml:"label,omitempty"`
	Type        valueeditor.FieldType `json:"type" yaml:"type"`
	InputType   string                `json:"inputType,omitempty" yaml:"input_type,omitempty"`
	Placeholder string                `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []valueeditor.Option  `json:"values,omitempty" yaml:"values,omitempty"`
	Required    bool                  `json:"required,omitempty" yaml:"required,omitempty"`
}

// Title returns the label, falling back to the name.
func (f Field) Title() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Time is a backend timestamp: milliseconds since the Unix epoch.
type Time struct {
	time.Time
}

// UnmarshalJSON parses a millisecond timestamp.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)

	// Handle null or empty
	if s == "null" || s == `""` || s == "" {
		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return err
	}

	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

// MarshalJSON writes milliseconds since the epoch.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UnixMilli())
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	StatusCode int             `json:"statusCode"`
	Code       string          `json:"code,omitempty"`
	Message    string          `json:"message"`
	Errors     []string        `json:"errors,omitempty"`
	Data       json.RawMessage `json:"errorData,omitempty"`
}

// UnmarshalJSON accepts both the plain error body and the function error
// envelope.
func (e *ErrorResponse) UnmarshalJSON(data []byte) error {
	type plain ErrorResponse
	var raw struct {
		plain
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = ErrorResponse(raw.plain)
	if e.Message == "" {
		e.Message = raw.ErrorMessage
	}
	return nil
}

func (e *ErrorResponse) Error() string {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	if e.Message == "" && e.StatusCode != 0 {
		return http.StatusText(e.StatusCode)
	}
	return e.Message
}
