// Package view formats command output for the terminal.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Format is an --output value.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

var formats = []Format{FormatTable, FormatJSON, FormatPlain}

// ValidateFormat checks an --output value. Empty selects the table format.
func ValidateFormat(format string) error {
	if format == "" {
		return nil
	}
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		if Format(format) == f {
			return nil
		}
		names = append(names, string(f))
	}
	return fmt.Errorf("invalid output format %q: must be one of %s", format, strings.Join(names, ", "))
}

// Renderer writes results and status lines in one output format.
type Renderer struct {
	format Format
	writer io.Writer
}

// NewRenderer creates a renderer writing to stdout. noColor turns colors off
// process-wide.
func NewRenderer(format Format, noColor bool) *Renderer {
	if noColor {
		color.NoColor = true
	}
	return &Renderer{format: format, writer: os.Stdout}
}

// SetWriter redirects output.
func (r *Renderer) SetWriter(w io.Writer) {
	r.writer = w
}

// Format returns the output format.
func (r *Renderer) Format() Format {
	return r.format
}

// RenderTable writes rows under headers. JSON output is a list of objects
// keyed by the lowercased headers; plain output is tab-separated rows with no
// header line.
func (r *Renderer) RenderTable(headers []string, rows [][]string) {
	switch r.format {
	case FormatJSON:
		items := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			item := make(map[string]string, len(headers))
			for i, h := range headers {
				if i < len(row) {
					item[strings.ToLower(h)] = row[i]
				}
			}
			items = append(items, item)
		}
		_ = r.RenderJSON(items)
	case FormatPlain:
		for _, row := range rows {
			fmt.Fprintln(r.writer, strings.Join(row, "\t"))
		}
	default:
		fmt.Fprintln(r.writer, strings.Join(headers, "  "))
		for _, row := range rows {
			fmt.Fprintln(r.writer, strings.Join(row, "  "))
		}
	}
}

// RenderJSON writes v as indented JSON.
func (r *Renderer) RenderJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.writer, string(data))
	return nil
}

// RenderText writes one line of text.
func (r *Renderer) RenderText(text string) {
	fmt.Fprintln(r.writer, text)
}

func (r *Renderer) status(attr color.Attribute, mark, msg string) {
	color.New(attr).Fprintln(r.writer, mark+" "+msg)
}

// Success prints a green check line.
func (r *Renderer) Success(msg string) { r.status(color.FgGreen, "✓", msg) }

// Warning prints a yellow warning line.
func (r *Renderer) Warning(msg string) { r.status(color.FgYellow, "!", msg) }

// Error prints a red error line.
func (r *Renderer) Error(msg string) { r.status(color.FgRed, "✗", msg) }

// Truncate shortens s to maxLen bytes, ending in "..." when there is room.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
