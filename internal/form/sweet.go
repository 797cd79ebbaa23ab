// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/olegiv/sweetshop-go/internal/model"
)

// Validation messages.
const (
	MsgNameRequired       = "Name is required"
	MsgCategoryRequired   = "Category is required"
	MsgCategoryInvalid    = "Invalid category"
	MsgPriceRequired      = "Price is required"
	MsgPriceNotNumber     = "Price must be a number"
	MsgPriceNotPositive   = "Price must be greater than 0"
	MsgQuantityRequired   = "Quantity is required"
	MsgQuantityNotInteger = "Quantity must be a whole number"
	MsgQuantityNegative   = "Quantity cannot be negative"
	MsgQuantityMin        = "Minimum quantity is 1"
	MsgRestockInvalid     = "Please enter a valid quantity"
)

// MsgQuantityMax is the purchase limit message for the given stock.
func MsgQuantityMax(stock int) string {
	return fmt.Sprintf("Maximum available is %d", stock)
}

// DefaultRestockQuantity pre-fills the restock form.
const DefaultRestockQuantity = 50

// SweetValues returns the form values for editing an existing sweet.
func SweetValues(s model.Sweet) url.Values {
	return url.Values{
		FieldName:     {s.Name},
		FieldCategory: {s.Category},
		FieldPrice:    {strconv.FormatFloat(s.Price, 'f', -1, 64)},
		FieldQuantity: {strconv.Itoa(s.Quantity)},
	}
}

// ParseSweet validates the create/edit form. Each bad field gets exactly
// one message; the returned data is only meaningful when errs is empty.
func ParseSweet(values url.Values) (model.CreateSweetData, Errors) {
	errs := Errors{}
	var data model.CreateSweetData

	data.Name = text(values, FieldName)
	if data.Name == "" {
		errs.Add(FieldName, MsgNameRequired)
	}

	data.Category = strings.TrimSpace(values.Get(FieldCategory))
	switch {
	case data.Category == "":
		errs.Add(FieldCategory, MsgCategoryRequired)
	case !model.IsValidCategory(data.Category):
		errs.Add(FieldCategory, MsgCategoryInvalid)
	}

	if raw := strings.TrimSpace(values.Get(FieldPrice)); raw == "" {
		errs.Add(FieldPrice, MsgPriceRequired)
	} else if price, ok := parseFloat(raw); !ok {
		errs.Add(FieldPrice, MsgPriceNotNumber)
	} else if price <= 0 {
		errs.Add(FieldPrice, MsgPriceNotPositive)
	} else {
		data.Price = price
	}

	if qty, msg := parseStock(values.Get(FieldQuantity)); msg != "" {
		errs.Add(FieldQuantity, msg)
	} else {
		data.Quantity = qty
	}

	return data, errs
}

// parseStock validates a non-negative whole stock count.
func parseStock(raw string) (int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, MsgQuantityRequired
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if f, ok := parseFloat(raw); ok && f < 0 && f == math.Trunc(f) {
			return 0, MsgQuantityNegative
		}
		return 0, MsgQuantityNotInteger
	}
	if n < 0 {
		return 0, MsgQuantityNegative
	}
	return n, ""
}

// ParsePurchase validates a purchase quantity between 1 and stock.
func ParsePurchase(values url.Values, stock int) (int, Errors) {
	errs := Errors{}
	raw := strings.TrimSpace(values.Get(FieldQuantity))
	if raw == "" {
		errs.Add(FieldQuantity, MsgQuantityRequired)
		return 0, errs
	}
	n, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		errs.Add(FieldQuantity, MsgQuantityNotInteger)
	case n < 1:
		errs.Add(FieldQuantity, MsgQuantityMin)
	case n > stock:
		errs.Add(FieldQuantity, MsgQuantityMax(stock))
	}
	if !errs.Valid() {
		return 0, errs
	}
	return n, errs
}

// ParseRestock validates a positive restock quantity.
func ParseRestock(values url.Values) (int, Errors) {
	errs := Errors{}
	n, err := strconv.Atoi(strings.TrimSpace(values.Get(FieldQuantity)))
	if err != nil || n <= 0 {
		errs.Add(FieldQuantity, MsgRestockInvalid)
		return 0, errs
	}
	return n, errs
}

// ParseSearch reads the optional search filters. Blank or unparseable
// fields are left absent; nothing here is an error.
func ParseSearch(values url.Values) model.SearchFilters {
	var f model.SearchFilters

	f.Name = text(values, FieldName)
	if c := strings.TrimSpace(values.Get(FieldCategory)); model.IsValidCategory(c) {
		f.Category = c
	}
	if v, ok := parseFloat(strings.TrimSpace(values.Get(FieldMinPrice))); ok {
		f.MinPrice = &v
	}
	if v, ok := parseFloat(strings.TrimSpace(values.Get(FieldMaxPrice))); ok {
		f.MaxPrice = &v
	}
	return f
}

// SearchValues is the inverse of ParseSearch, used to refill the form.
func SearchValues(f model.SearchFilters) url.Values {
	v := url.Values{}
	if f.Name != "" {
		v.Set(FieldName, f.Name)
	}
	if f.Category != "" {
		v.Set(FieldCategory, f.Category)
	}
	if f.MinPrice != nil {
		v.Set(FieldMinPrice, strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		v.Set(FieldMaxPrice, strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	return v
}
