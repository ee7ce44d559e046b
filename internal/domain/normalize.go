package domain

import (
	"math"
	"strconv"
	"strings"
)

// addressSeparator joins the composite address segments.
const addressSeparator = ", "

// NormalizePostalCode renders a postal code as a decimal integer string.
// Blank input yields "". Float artifacts such as "50141.0" become "50141".
// Integer strings are kept digit-for-digit so leading zeros survive.
// Non-numeric text is returned trimmed and otherwise unchanged.
func NormalizePostalCode(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if isDigits(s) {
		return s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return strconv.FormatFloat(math.Trunc(v), 'f', 0, 64)
	}
	return strconv.FormatInt(int64(v), 10)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CompositeAddress joins street, municipality, province and postal code with
// ", ". No segment is dropped when empty.
func CompositeAddress(f Facility) string {
	return strings.Join([]string{f.Street, f.Municipality, f.Province, f.PostalCode}, addressSeparator)
}

// NormalizeTable reshapes postal code and composite address on every row in
// place. Phone numbers are left verbatim.
func NormalizeTable(t *Table) {
	for i := range t.Facilities {
		f := &t.Facilities[i]
		f.PostalCode = NormalizePostalCode(f.PostalCode)
		f.FullAddress = CompositeAddress(*f)
	}
}
