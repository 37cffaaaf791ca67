package embed

import (
	"mime"
	"strings"
)

// Icon names a file-type glyph.
type Icon string

const (
	IconImage   Icon = "image"
	IconAudio   Icon = "file-audio"
	IconVideo   Icon = "file-video"
	IconDoc     Icon = "file-text"
	IconArchive Icon = "file-archive"
	IconFile    Icon = "file"
)

// GuessIcon maps a MIME type to an icon. Any input, including "", yields an icon.
func GuessIcon(mimeType string) Icon {
	m := baseType(mimeType)
	switch {
	case m == "":
		return IconFile
	case strings.HasPrefix(m, "image/"):
		return IconImage
	case strings.HasPrefix(m, "audio/"):
		return IconAudio
	case strings.HasPrefix(m, "video/"):
		return IconVideo
	case m == "application/pdf":
		return IconDoc
	case m == "application/zip" || strings.Contains(m, "compressed"):
		return IconArchive
	default:
		return IconFile
	}
}

// IsImage reports whether a URL with this MIME type should be shown as an
// image. Unknown types are assumed to be images.
func IsImage(mimeType string) bool {
	m := baseType(mimeType)
	return m == "" || strings.HasPrefix(m, "image/")
}

// baseType strips parameters and normalizes case.
func baseType(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	if m, _, err := mime.ParseMediaType(mimeType); err == nil {
		return m
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
