package md

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ToText converts rendered HTML back to readable markdown text for hosts
// without an HTML surface, such as a terminal.
func ToText(html string) (string, error) {
	if html == "" {
		return "", nil
	}

	text, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}
