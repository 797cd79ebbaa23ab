// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import "github.com/olegiv/sweetshop-go/internal/model"

// StockBadge is the availability label on a catalog card.
type StockBadge struct {
	Label string
	Class string
}

// StockBadgeFor maps a quantity to its badge.
func StockBadgeFor(quantity int) StockBadge {
	switch (model.Sweet{Quantity: quantity}).StockLevel() {
	case model.StockOut:
		return StockBadge{Label: "Out of Stock", Class: "badge-out"}
	case model.StockLow:
		return StockBadge{Label: "Low Stock", Class: "badge-low"}
	default:
		return StockBadge{Label: "In Stock", Class: "badge-in"}
	}
}

var categoryEmoji = map[string]string{
	model.CategoryChocolate: "🍫",
	model.CategoryGummy:     "🐻",
	model.CategoryCandy:     "🍬",
	model.CategoryLollipop:  "🍭",
}

// CategoryEmoji returns the card illustration for a category.
func CategoryEmoji(category string) string {
	if e, ok := categoryEmoji[category]; ok {
		return e
	}
	return "🍰"
}

var categoryClass = map[string]string{
	model.CategoryChocolate: "cat-amber",
	model.CategoryGummy:     "cat-pink",
	model.CategoryCandy:     "cat-red",
	model.CategoryLollipop:  "cat-purple",
}

// CategoryClass returns the CSS colour class of a category chip.
func CategoryClass(category string) string {
	if c, ok := categoryClass[category]; ok {
		return c
	}
	return "cat-blue"
}
