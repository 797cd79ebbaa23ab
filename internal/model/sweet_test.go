// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestSweetStockLevel(t *testing.T) {
	tests := []struct {
		quantity int
		want     string
	}{
		{0, StockOut},
		{1, StockLow},
		{9, StockLow},
		{10, StockIn},
		{250, StockIn},
	}

	for _, tt := range tests {
		s := Sweet{Quantity: tt.quantity}
		if got := s.StockLevel(); got != tt.want {
			t.Errorf("StockLevel() with quantity %d = %q, want %q", tt.quantity, got, tt.want)
		}
	}
}

func TestIsValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !IsValidCategory(c) {
			t.Errorf("IsValidCategory(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"", "chocolate", "Pastry"} {
		if IsValidCategory(c) {
			t.Errorf("IsValidCategory(%q) = true, want false", c)
		}
	}
}

func TestSearchFiltersIsEmpty(t *testing.T) {
	price := 2.0
	if !(SearchFilters{}).IsEmpty() {
		t.Error("zero filters should be empty")
	}
	if (SearchFilters{MinPrice: &price}).IsEmpty() {
		t.Error("filters with min price should not be empty")
	}
}

func TestUpdateSweetDataOmitsNilFields(t *testing.T) {
	name := "Fudge"
	b, err := json.Marshal(UpdateSweetData{Name: &name})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got := string(b); got != `{"name":"Fudge"}` {
		t.Errorf("Marshal = %s, want {\"name\":\"Fudge\"}", got)
	}
}
