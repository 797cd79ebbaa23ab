// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util holds small pure helpers shared by handlers and templates.
package util

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPrice renders a USD amount with two decimals and thousands
// separators: 1234.56 -> "$1,234.56", -5.99 -> "-$5.99".
// Halves round away from zero.
func FormatPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		price = 0
	}

	cents := math.Round(price * 100)
	negative := cents < 0
	if negative {
		cents = -cents
	}

	p := message.NewPrinter(language.AmericanEnglish)
	s := "$" + p.Sprintf("%.2f", cents/100)
	if negative {
		return "-" + s
	}
	return s
}

// LineTotal returns price * quantity for display on the purchase form.
func LineTotal(price float64, quantity int) float64 {
	if quantity < 0 {
		quantity = 0
	}
	return price * float64(quantity)
}
