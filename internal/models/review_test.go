// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package models

import "testing"

func TestReviewLabelFor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "Overwhelmingly Positive"},
		{95, "Overwhelmingly Positive"},
		{94, "Very Positive"},
		{80, "Very Positive"},
		{79, "Mostly Positive"},
		{70, "Mostly Positive"},
		{69, "Mixed"},
		{40, "Mixed"},
		{39, "Mostly Negative"},
		{20, "Mostly Negative"},
		{19, "Overwhelmingly Negative"},
		{0, "Overwhelmingly Negative"},
	}
	for _, tt := range tests {
		if got := ReviewLabelFor(tt.score); got != tt.want {
			t.Errorf("ReviewLabelFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
