package service

import (
	"regexp"
	"strings"
)

var amountPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// normalizeAmount canonicalizes a decimal amount string for fingerprinting:
// trailing fractional zeros are stripped so "100.50" and "100.5" fingerprint
// identically. Returns false when the input is not a plain decimal.
func normalizeAmount(amount string) (string, bool) {
	amount = strings.TrimSpace(amount)
	if !amountPattern.MatchString(amount) {
		return "", false
	}

	if strings.Contains(amount, ".") {
		amount = strings.TrimRight(amount, "0")
		amount = strings.TrimRight(amount, ".")
	}
	if amount == "-0" {
		amount = "0"
	}

	return amount, true
}

// normalizeTagNames trims each name, drops empties, and deduplicates
// case-insensitively keeping the first casing and the original order.
func normalizeTagNames(names []string) []string {
	normalized := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, name)
	}

	return normalized
}
