package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	salaryRangeRe  = regexp.MustCompile(`(?i)\$(\d{1,3}(?:,\d{3})+|\d+)\s*(k?)\s*(?:-|–|—|to)\s*\$?(\d{1,3}(?:,\d{3})+|\d+)\s*(k?)`)
	salarySingleRe = regexp.MustCompile(`(?i)\$(\d{1,3}(?:,\d{3})+|\d+)\s*(k?)`)
)

// minAnnualSalary filters out hourly rates and other small dollar figures
// that the patterns pick up but are not annual compensation.
const minAnnualSalary = 10000

// extractSalary finds a salary range or single figure in posting text and
// normalizes it to "$120,000 - $180,000" / "$150,000" form. Returns nil
// when no plausible annual figure is present.
func extractSalary(text string) *string {
	if m := salaryRangeRe.FindStringSubmatch(text); m != nil {
		low := parseAmount(m[1], m[2])
		high := parseAmount(m[3], m[4])
		if low >= minAnnualSalary && high >= minAnnualSalary {
			s := formatUSD(low) + " - " + formatUSD(high)
			return &s
		}
	}

	for _, m := range salarySingleRe.FindAllStringSubmatch(text, -1) {
		amount := parseAmount(m[1], m[2])
		if amount >= minAnnualSalary {
			s := formatUSD(amount)
			return &s
		}
	}

	return nil
}

// parseAmount converts a matched dollar figure, applying the "K" thousands
// suffix when present.
func parseAmount(num, kSuffix string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(num, ",", ""))
	if err != nil {
		return 0
	}
	if strings.EqualFold(kSuffix, "k") {
		n *= 1000
	}
	return n
}

// formatUSD renders an integer dollar amount with thousands separators.
func formatUSD(n int) string {
	digits := strconv.Itoa(n)
	var sb strings.Builder
	sb.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	return sb.String()
}
