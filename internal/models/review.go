// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package models

// ReviewLabelFor maps a review positivity percentage onto Steam's qualitative
// scale. Thresholds are inclusive: exactly 80 is "Very Positive", exactly 40
// is "Mixed".
func ReviewLabelFor(score int) string {
	switch {
	case score >= 95:
		return "Overwhelmingly Positive"
	case score >= 80:
		return "Very Positive"
	case score >= 70:
		return "Mostly Positive"
	case score >= 40:
		return "Mixed"
	case score >= 20:
		return "Mostly Negative"
	default:
		return "Overwhelmingly Negative"
	}
}
