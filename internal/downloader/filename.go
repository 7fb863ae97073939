package downloader

import (
	"regexp"
	"strings"
)

const (
	// MaxFilenameLength bounds the sanitised title.
	MaxFilenameLength = 255
	// DefaultExt is used when the MIME type gives no usable subtype.
	DefaultExt = "mp4"
)

var unsafeChars = regexp.MustCompile(`[\x00-\x1e"#$%'*,./:;<>?\\^|~]`)

// SafeFilename drops characters that are unsafe in file names on common
// filesystems. Whitespace is kept as is.
func SafeFilename(title string) string {
	name := unsafeChars.ReplaceAllString(title, "")
	if runes := []rune(name); len(runes) > MaxFilenameLength {
		name = string(runes[:MaxFilenameLength])
	}
	return name
}

// ExtFromMime returns the file extension (without dot) for a MIME type such
// as `video/mp4; codecs="avc1.42001E, mp4a.40.2"`.
func ExtFromMime(mime string) string {
	base := strings.TrimSpace(mime)
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	parts := strings.Split(base, "/")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}
	return DefaultExt
}
