// Package identity derives deterministic content identifiers for statement
// records. Two records with the same date, description and amount always get
// the same identifier, which is what makes re-imports idempotent.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	separator  = "|"
)

// Derive returns the hex-encoded SHA-256 of "YYYY-MM-DD|description|amount".
// The amount uses its canonical decimal text so 100, 100.0 and 100.00 collapse
// to the same identifier.
func Derive(date time.Time, description string, amount decimal.Decimal) string {
	canonical := strings.Join([]string{
		date.Format(dateLayout),
		description,
		amount.String(),
	}, separator)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
