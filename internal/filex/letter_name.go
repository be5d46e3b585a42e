package filex

import (
	"regexp"
	"strings"
	"time"
)

// letterName matches "<ref> <word> <DDMMYYYY>[_ ]<subject>",
// e.g. "7612 dd 22072025_Example Subject".
var letterName = regexp.MustCompile(`(?i)^(\d+)\s+[a-z]+\s+(\d{8})[_ ]?(.*)$`)

// LetterName is what a scanned-letter file name tells about the letter.
type LetterName struct {
	ReferenceNumber string
	Date            string // YYYY-MM-DD
	Subject         string
}

// ParseLetterName extracts reference number, date and subject from a file
// name. A trailing ".pdf" is ignored. ok is false when the name does not
// follow the convention or the embedded date is not a real calendar date.
func ParseLetterName(name string) (LetterName, bool) {
	base := strings.TrimSpace(name)
	if strings.HasSuffix(strings.ToLower(base), ".pdf") {
		base = base[:len(base)-len(".pdf")]
	}

	m := letterName.FindStringSubmatch(base)
	if m == nil {
		return LetterName{}, false
	}

	d, err := time.Parse("02012006", m[2])
	if err != nil {
		return LetterName{}, false
	}

	return LetterName{
		ReferenceNumber: m[1],
		Date:            d.Format(time.DateOnly),
		Subject:         strings.TrimSpace(m[3]),
	}, true
}
