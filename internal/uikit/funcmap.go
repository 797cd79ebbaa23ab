// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit provides template helpers and small view models shared by
// the shop's pages.
package uikit

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"

	"github.com/olegiv/sweetshop-go/internal/util"
)

// TemplateFuncs returns the template.FuncMap used by every page.
//
// Callers can merge project-specific functions on top:
//
//	funcs := uikit.TemplateFuncs()
//	funcs["myFunc"] = myProjectFunc
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// String functions
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"truncate": func(s string, length int) string {
			r := []rune(s)
			if len(r) <= length {
				return s
			}
			return string(r[:length]) + "..."
		},
		"plural": Plural,

		// Math
		"add": func(a, b int) int {
			return a + b
		},

		// Time
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},

		// JSON
		"prettyJSON": func(s string) string {
			var data any
			if err := json.Unmarshal([]byte(s), &data); err != nil {
				return s
			}
			pretty, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return s
			}
			return string(pretty)
		},

		// Shop
		"formatPrice":   util.FormatPrice,
		"lineTotal":     func(price float64, qty int) string { return util.FormatPrice(util.LineTotal(price, qty)) },
		"stockBadge":    StockBadgeFor,
		"categoryEmoji": CategoryEmoji,
		"categoryClass": CategoryClass,

		// Data structures
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
	}
}

// Plural returns singular when n is 1 and singular+"s" otherwise.
func Plural(n int, singular string) string {
	if n == 1 {
		return singular
	}
	return singular + "s"
}
