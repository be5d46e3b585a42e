package common

import (
	"crypto/rand"
	"strings"
)

// GenerateRandByteArray returns size random bytes.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return b
}

// WipeByteArray zeroes b. nil is fine.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

var listEscaper = strings.NewReplacer(`\`, `\\`, `,`, `\,`)

// JoinList encodes values as one comma separated query value. Commas and
// backslashes inside a value are escaped with a backslash.
func JoinList(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = listEscaper.Replace(v)
	}
	return strings.Join(parts, ",")
}

// SplitList reverses JoinList. A trailing lone backslash is kept.
func SplitList(s string) []string {
	var out []string
	var cur strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune('\\')
	}
	return append(out, cur.String())
}
