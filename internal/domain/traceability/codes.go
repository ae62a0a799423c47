package traceability

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// MintBatchCode builds BATCH-<CROPTYPE>-<timestamp>-<farmerId>. The timestamp
// is Unix milliseconds of the harvest recording time.
func MintBatchCode(cropType string, at time.Time, farmerID string) string {
	crop := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToUpper(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(cropType))
	return fmt.Sprintf("BATCH-%s-%d-%s", crop, at.UnixMilli(), farmerID)
}

// newCode builds a human-readable record code such as TXN-1740819600000-3F9A1C
func newCode(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%d-%s", prefix, at.UnixMilli(), strings.ToUpper(uuid.NewString()[:6]))
}
