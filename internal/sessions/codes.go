package sessions

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// CodeFormat describes the short join codes players type to reach a session.
type CodeFormat struct {
	Length   int
	Alphabet string
}

// DefaultCodeFormat leaves out 0, O, 1, I and L, which read alike on screen.
var DefaultCodeFormat = CodeFormat{
	Length:   4,
	Alphabet: "ABCDEFGHJKMNPQRSTUVWXYZ23456789",
}

func (f CodeFormat) orDefault() CodeFormat {
	if f.Length <= 0 || len(f.Alphabet) < 2 {
		return DefaultCodeFormat
	}
	return f
}

// Generate draws a random code from crypto/rand.
func (f CodeFormat) Generate() (string, error) {
	f = f.orDefault()
	n := big.NewInt(int64(len(f.Alphabet)))
	var b strings.Builder
	b.Grow(f.Length)
	for range f.Length {
		i, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", fmt.Errorf("reading random index: %w", err)
		}
		b.WriteByte(f.Alphabet[i.Int64()])
	}
	return b.String(), nil
}

// Canonical upper-cases a typed code and reports whether it could have been
// generated by f.
func (f CodeFormat) Canonical(code string) (string, bool) {
	f = f.orDefault()
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != f.Length {
		return code, false
	}
	for _, r := range code {
		if !strings.ContainsRune(f.Alphabet, r) {
			return code, false
		}
	}
	return code, true
}
