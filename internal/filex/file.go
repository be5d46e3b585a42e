// Package filex holds file helpers: the client data directory, size
// formatting, mime detection and letter file-name parsing.
package filex

import (
	"fmt"
	"math"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxAttachmentSize is the per-file limit applied before upload.
const MaxAttachmentSize = 50 * 1024 * 1024

// EnsureSubDir creates base/name (0o770) when missing and returns its path.
// An empty base means the current working directory.
func EnsureSubDir(base, name string) (string, error) {
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		base = cwd
	}

	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

var sizeUnits = []string{"بايت", "كيلوبايت", "ميجابايت", "جيجابايت"}

// HumanSize renders n bytes in Arabic units with at most two decimals:
// 1536 -> "1.5 كيلوبايت".
func HumanSize(n int64) string {
	if n <= 0 {
		return "0 " + sizeUnits[0]
	}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(n) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// DetectMime guesses a content type, by extension first and then by
// sniffing data.
func DetectMime(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "application/octet-stream"
}

// IsOutlookMessage reports whether name is an Outlook .msg file.
func IsOutlookMessage(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".msg")
}
