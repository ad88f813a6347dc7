package access

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/castellanoconmh/aula"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	headLen  = 6
	tailLen  = 4

	// maxByte is the largest multiple of len(alphabet) that fits in a byte;
	// bytes at or above it are rejected to keep sampling uniform.
	maxByte = 256 - 256%len(alphabet)
)

var codeRegexp = regexp.MustCompile(`^[A-Z0-9]{6}-[A-Z0-9]{4}$`)

// NewCode reads randomness from r to build a code shaped XXXXXX-YYYY
// out of uppercase letters and digits.
func NewCode(r io.Reader) (string, error) {
	out := make([]byte, 0, headLen+1+tailLen)
	buf := make([]byte, 2*(headLen+tailLen))
	for len(out) < headLen+1+tailLen {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("%w: reading randomness: %s", aula.ErrUnexpected, err)
		}

		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}

			if len(out) == headLen {
				out = append(out, '-')
			}

			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == headLen+1+tailLen {
				break
			}
		}
	}

	return string(out), nil
}

// Normalize trims surrounding whitespace from code and uppercases it.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidFormat asserts whether code, already normalized, has the shape NewCode produces.
func ValidFormat(code string) bool {
	return codeRegexp.MatchString(code)
}
