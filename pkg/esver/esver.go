// Package esver normalizes the many spellings of an ECMAScript language
// target ("es6", "ES2017", "latest", bare "2020") into a single canonical
// token so the rest of the tool never compares raw strings.
package esver

import (
	"strconv"
	"strings"
	"time"
)

// Token is the canonical form of a language target: either a concrete
// edition year or the moving "latest" target. The zero Token means unset.
type Token struct {
	Year   int
	Latest bool
}

// IsZero reports whether the token carries no target at all.
func (t Token) IsZero() bool {
	return t.Year == 0 && !t.Latest
}

// String renders the token in a spelling Normalize accepts back, so
// normalizing a canonical token is a no-op.
func (t Token) String() string {
	if t.Latest {
		return "latest"
	}
	if t.Year == 0 {
		return ""
	}
	return "es" + strconv.Itoa(t.Year)
}

// MarshalJSON encodes the token as its canonical spelling.
func (t Token) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON accepts any spelling Normalize accepts, plus the empty
// string for the zero token.
func (t *Token) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	if s == "" {
		*t = Token{}
		return nil
	}
	tok, ok := Normalize(s)
	if !ok {
		return &UnrecognizedError{Input: s}
	}
	*t = tok
	return nil
}

// UnrecognizedError reports an input no known spelling matches.
type UnrecognizedError struct {
	Input string
}

func (e *UnrecognizedError) Error() string {
	return "unrecognized ECMAScript target " + strconv.Quote(e.Input)
}

// Editions 1-5 predate the yearly release cadence and map to fixed years.
// Edition 4 was abandoned before publication and stays unmapped.
var legacyEditions = map[int]int{
	1: 1997,
	2: 1998,
	3: 1999,
	5: 2009,
}

const firstEditionYear = 1997

// Normalize canonicalizes a target spelling. The second return is false
// when the input matches no known spelling; callers treat that as "this
// source contributed nothing", never as an error.
func Normalize(s string) (Token, bool) {
	return NormalizeAt(s, time.Now())
}

// NormalizeAt is Normalize with a pinned clock. Results more than two
// years past now are rejected as likely typos.
func NormalizeAt(s string, now time.Time) (Token, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Token{}, false
	}

	if s == "latest" || s == "esnext" {
		return Token{Latest: true}, true
	}

	digits := strings.TrimPrefix(s, "es")
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return Token{}, false
	}

	year := n
	if n < 1000 {
		// Small numbers are edition numbers, not years. From the 6th
		// edition on, the published year is 2009 + edition (es6 is 2015).
		if legacy, ok := legacyEditions[n]; ok {
			year = legacy
		} else if n >= 6 {
			year = 2009 + n
		} else {
			return Token{}, false
		}
	}

	if year < firstEditionYear || year > now.Year()+2 {
		return Token{}, false
	}
	return Token{Year: year}, true
}
