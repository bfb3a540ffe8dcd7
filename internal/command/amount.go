package command

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrBadAmount = errors.New("không thể phân tích số tiền")

// ParseAmount converts a human-written quantity into a float. Dots and
// commas are treated as digit grouping ("50.000" = 50000), "k"/"nghìn"
// multiply by a thousand and "tr"/"triệu" by a million.
func ParseAmount(raw string) (float64, error) {
	clean := strings.ToLower(strings.TrimSpace(raw))
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", "")

	multiplier := 1.0
	switch {
	case strings.Contains(clean, "k") || strings.Contains(clean, "nghìn"):
		multiplier = 1_000
		clean = strings.ReplaceAll(clean, "nghìn", "")
		clean = strings.ReplaceAll(clean, "k", "")
	case strings.Contains(clean, "tr"):
		multiplier = 1_000_000
		clean = strings.ReplaceAll(clean, "triệu", "")
		clean = strings.ReplaceAll(clean, "tr", "")
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(clean), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, raw)
	}
	return amount * multiplier, nil
}

// Pattern: [amount][optional unit suffix] [optional word "tiền"] [rest].
var debtContentPattern = regexp.MustCompile(`(?i)(\d[\d.,]*\s*(?:k|nghìn|tr|triệu|))(?:\s+tiền)?\s*(.*)`)

// SplitAmountContent pulls the leading amount expression out of free text,
// returning the amount string and the remaining note. When no amount is
// found the whole input comes back as the note.
func SplitAmountContent(raw string) (amountStr, note string) {
	m := debtContentPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", strings.TrimSpace(raw)
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}

// formatAmount renders an amount with Vietnamese digit grouping.
func formatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
