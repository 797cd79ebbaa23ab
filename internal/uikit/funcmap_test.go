// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"bytes"
	"html/template"
	"testing"
	"time"
)

func TestTemplateFuncs_FormatDateTime(t *testing.T) {
	formatDateTime := TemplateFuncs()["formatDateTime"].(func(time.Time) string)
	testTime := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	if got := formatDateTime(testTime); got != "Mar 15, 2025 2:30 PM" {
		t.Errorf("formatDateTime() = %q, want %q", got, "Mar 15, 2025 2:30 PM")
	}
}

func TestTemplateFuncs_Truncate(t *testing.T) {
	truncate := TemplateFuncs()["truncate"].(func(string, int) string)
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"hello world", 5, "hello..."},
		{"hello", 5, "hello"},
		{"", 5, ""},
		{"🍫🍫🍫", 2, "🍫🍫..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.length); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.expected)
		}
	}
}

func TestTemplateFuncs_PrettyJSON(t *testing.T) {
	prettyJSON := TemplateFuncs()["prettyJSON"].(func(string) string)
	if got := prettyJSON(`{"a":"b"}`); got != "{\n  \"a\": \"b\"\n}" {
		t.Errorf("prettyJSON = %q", got)
	}
	if got := prettyJSON("not json"); got != "not json" {
		t.Errorf("prettyJSON(invalid) = %q", got)
	}
}

func TestTemplateFuncs_Dict(t *testing.T) {
	dict := TemplateFuncs()["dict"].(func(...any) map[string]any)
	d := dict("a", 1, "b", "two")
	if d["a"] != 1 || d["b"] != "two" {
		t.Errorf("dict = %v", d)
	}
	if dict("odd") != nil {
		t.Error("dict with odd args should be nil")
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "sweets"},
		{1, "sweet"},
		{2, "sweets"},
	}
	for _, tt := range tests {
		if got := Plural(tt.n, "sweet"); got != tt.want {
			t.Errorf("Plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTemplateFuncs_InTemplate(t *testing.T) {
	tmpl := template.Must(template.New("t").Funcs(TemplateFuncs()).Parse(
		`{{formatPrice .Price}} x{{.Qty}} = {{lineTotal .Price .Qty}} {{(stockBadge .Stock).Label}} {{categoryEmoji .Cat}}`))

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, map[string]any{"Price": 2.5, "Qty": 3, "Stock": 4, "Cat": "Gummy"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := "$2.50 x3 = $7.50 Low Stock 🐻"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
