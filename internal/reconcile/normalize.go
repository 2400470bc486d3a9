// Package reconcile implements the reconciliation core shared by every
// retailer adapter: identifier normalization, period key derivation, the
// product registry, policy-tagged metric aggregation, year-over-year
// enrichment, and dashboard feature detection.
package reconcile

import "strings"

// ZeroUPC is the sentinel produced by NormalizeUPC for inputs that carry no
// identifier. It is not a valid product; callers must filter it out before
// registry insertion or aggregation.
const ZeroUPC = "0000000000000"

var upcSeparators = strings.NewReplacer(" ", "", "-", "", "\t", "")

// NormalizeUPC canonicalizes a raw product identifier into a fixed-width
// 13-digit code: separators stripped, a trailing ".0" float-serialization
// artifact removed, leading zeros dropped, then zero-padded to width 13.
// Pure and idempotent; malformed input yields a best-effort digit string and
// an empty input yields ZeroUPC.
func NormalizeUPC(raw string) string {
	s := upcSeparators.Replace(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, ".0")
	s = strings.TrimLeft(s, "0")
	if s == "" {
		s = "0"
	}
	if len(s) >= 13 {
		return s
	}
	return strings.Repeat("0", 13-len(s)) + s
}
