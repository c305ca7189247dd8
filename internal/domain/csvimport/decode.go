package csvimport

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decode reads r fully as text. A UTF-8 or UTF-16 byte order mark selects the
// encoding and is dropped; otherwise the input must be UTF-8.
func decode(r io.Reader) (string, error) {
	tr := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	b, err := io.ReadAll(tr)
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", ErrParseFailure, err)
	}
	text := string(b)
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", fmt.Errorf("%w: input is not valid UTF-8 text", ErrParseFailure)
	}
	return text, nil
}
