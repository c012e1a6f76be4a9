package certify

// dates.go normalizes the date fields to one canonical representation before
// hashing. Clients submit dates in a handful of formats (US slash dates,
// European slash dates, written-out month names) and the same calendar date
// must always fingerprint identically.

import (
	"fmt"
	"time"
)

// acceptedDateFormats is the ordered list of input formats tried during
// canonicalization. The first format that parses wins: an ambiguous string
// like "01/02/2024" satisfies the month-first format and is normalized as
// January 2nd even though the day-first format would also match.
// The non-padded layout verbs accept both "1/2/2024" and "01/02/2024".
var acceptedDateFormats = []string{
	"1/2/2006",        // MM/DD/YYYY
	"2/1/2006",        // DD/MM/YYYY
	"2 January, 2006", // DD Month, YYYY
	"2 Jan, 2006",     // DD Mon, YYYY
}

// canonicalDateFormat is the fixed output format: two-digit month, two-digit
// day, two-digit year.
const canonicalDateFormat = "01/02/06"

// CanonicalizeDate parses dateString against the accepted formats in order
// and returns it in the canonical MM/DD/YY form.
//
// A string that matches none of the accepted formats returns an error with
// code ErrCodeInvalidDate. Canonicalization failure blocks issuance: hashing
// an unparseable date would anchor a fingerprint that no verifier could ever
// reproduce.
func CanonicalizeDate(dateString string) (string, error) {
	for _, format := range acceptedDateFormats {
		parsed, err := time.Parse(format, dateString)
		if err != nil {
			continue
		}
		return parsed.Format(canonicalDateFormat), nil
	}

	return "", NewInvalidDateError(fmt.Sprintf("date %q does not match any accepted format", dateString))
}
