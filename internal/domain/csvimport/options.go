package csvimport

import "unicode/utf8"

// Default delimiters per record kind.
const (
	RosterDelimiter = ','
	RubricDelimiter = ';'
)

type options struct {
	delimiter rune
}

// Option applies a configuration option to a parse call.
type Option func(*options)

// WithDelimiter overrides the field separator declared for the record kind.
func WithDelimiter(d rune) Option {
	return func(o *options) {
		if utf8.ValidRune(d) && d != 0 && d != '\r' && d != '\n' && d != '"' {
			o.delimiter = d
		}
	}
}
