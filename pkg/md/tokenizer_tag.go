// tokenizer_tag.go classifies {% ... %} tag text.
package md

import (
	"fmt"
	"strings"
	"unicode"
)

// TagToken is a classified tag.
type TagToken struct {
	Kind  TagKind
	Name  string
	Attrs map[string]string
}

// TokenizeTag parses a complete tag. Recognized forms:
//   - {% name %} or {% name key=value %} - open tag
//   - {% /name %} - close tag
//   - {% name /%} or {% name key=value /%} - self-closing
func TokenizeTag(text string) (TagToken, error) {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "{%") {
		return TagToken{}, fmt.Errorf("expected '{%%'")
	}
	if !strings.HasSuffix(s, "%}") || len(s) < 4 {
		return TagToken{}, fmt.Errorf("unclosed tag")
	}
	inner := strings.TrimSpace(s[2 : len(s)-2])

	kind := TagOpen
	if strings.HasPrefix(inner, "/") {
		kind = TagClose
		inner = strings.TrimSpace(inner[1:])
	} else if strings.HasSuffix(inner, "/") {
		kind = TagSelfClosing
		inner = strings.TrimSpace(inner[:len(inner)-1])
	}

	pos := 0
	for pos < len(inner) && isValidTagNameChar(rune(inner[pos])) {
		pos++
	}
	if pos == 0 {
		return TagToken{}, fmt.Errorf("empty tag name")
	}
	name := inner[:pos]
	rest := inner[pos:]
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		return TagToken{}, fmt.Errorf("invalid character %q in tag name", rest[0])
	}

	token := TagToken{Kind: kind, Name: name}
	if kind == TagClose {
		if strings.TrimSpace(rest) != "" {
			return TagToken{}, fmt.Errorf("close tag takes no attributes")
		}
		return token, nil
	}

	token.Attrs = parseAttributes(rest)
	return token, nil
}

func isValidTagNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}

// parseAttributes parses `key1=value1 key2="value with spaces"` into a map.
// Bare words become keys with an empty value.
func parseAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for _, param := range splitParams(strings.TrimSpace(s)) {
		key, value, _ := strings.Cut(param, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		attrs[key] = value
	}
	return attrs
}

// splitParams splits on unquoted spaces and strips the quotes.
func splitParams(s string) []string {
	var params []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, r := range s {
		switch {
		case (r == '"' || r == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = r
		case r == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
		case unicode.IsSpace(r) && !inQuotes:
			if current.Len() > 0 {
				params = append(params, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		params = append(params, current.String())
	}

	return params
}
