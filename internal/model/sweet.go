// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Sweet is a catalog item. The backend owns it; the client only ever holds
// a copy that is replaced wholesale on the next fetch.
type Sweet struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// LowStockThreshold is the quantity below which an item is flagged as low.
const LowStockThreshold = 10

// Stock levels shown on catalog cards.
const (
	StockOut = "out"
	StockLow = "low"
	StockIn  = "in"
)

// StockLevel classifies the item's quantity.
func (s Sweet) StockLevel() string {
	switch {
	case s.Quantity <= 0:
		return StockOut
	case s.Quantity < LowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

// InStock reports whether at least one unit can be purchased.
func (s Sweet) InStock() bool {
	return s.Quantity > 0
}

// Catalog categories.
const (
	CategoryChocolate = "Chocolate"
	CategoryGummy     = "Gummy"
	CategoryCandy     = "Candy"
	CategoryLollipop  = "Lollipop"
	CategoryCookies   = "Cookies"
	CategoryCake      = "Cake"
	CategoryOther     = "Other"
)

// Categories lists the fixed category set in display order.
var Categories = []string{
	CategoryChocolate,
	CategoryGummy,
	CategoryCandy,
	CategoryLollipop,
	CategoryCookies,
	CategoryCake,
	CategoryOther,
}

// IsValidCategory reports whether c is one of the fixed categories.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SearchFilters is a transient catalog query. Empty strings and nil
// pointers are absent and never sent to the backend.
type SearchFilters struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// IsEmpty reports whether no filter is set.
func (f SearchFilters) IsEmpty() bool {
	return f.Name == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// CreateSweetData is the body of POST /sweets.
type CreateSweetData struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// UpdateSweetData is the body of PUT /sweets/{id}. Nil fields are left
// unchanged by the backend.
type UpdateSweetData struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
}

// UpdateFrom builds a full patch from create-form data.
func UpdateFrom(d CreateSweetData) UpdateSweetData {
	return UpdateSweetData{
		Name:     &d.Name,
		Category: &d.Category,
		Price:    &d.Price,
		Quantity: &d.Quantity,
	}
}

// QuantityData is the body of the purchase and restock endpoints.
type QuantityData struct {
	Quantity int `json:"quantity"`
}
