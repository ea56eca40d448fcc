package session

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText converts a session string to UTF-8. Older sessions store Mac
// Roman text; anything that is not already valid UTF-8 is treated as such.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := charmap.Macintosh.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}
