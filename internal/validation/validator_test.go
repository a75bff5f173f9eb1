// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name string `validate:"required"`
	Days int    `validate:"gte=0,lte=365"`
	Kind string `validate:"omitempty,oneof=all native gold"`
}

func TestValidateStructOK(t *testing.T) {
	if err := ValidateStruct(&sample{Name: "x", Days: 30, Kind: "gold"}); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}
	// Optional field empty.
	if err := ValidateStruct(&sample{Name: "x"}); err != nil {
		t.Errorf("omitempty field rejected: %v", err)
	}
}

func TestValidateStructFieldErrors(t *testing.T) {
	err := ValidateStruct(&sample{Days: -1, Kind: "bogus"})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	var verrs *Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("error type = %T, want *Errors", err)
	}
	if len(verrs.Fields) != 3 {
		t.Errorf("field errors = %d, want 3 (%v)", len(verrs.Fields), verrs.Fields)
	}
	if !strings.Contains(verrs.Error(), "Name is required") {
		t.Errorf("message missing required hint: %q", verrs.Error())
	}
	if !strings.Contains(verrs.Error(), "one of") {
		t.Errorf("message missing oneof hint: %q", verrs.Error())
	}
}
