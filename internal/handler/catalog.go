// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/sweetshop-go/internal/form"
	"github.com/olegiv/sweetshop-go/internal/middleware"
	"github.com/olegiv/sweetshop-go/internal/model"
	"github.com/olegiv/sweetshop-go/internal/render"
	"github.com/olegiv/sweetshop-go/internal/service"
	"github.com/olegiv/sweetshop-go/internal/uikit"
)

// searchParam marks a submitted search form, even one with no filters.
const searchParam = "search"

// CatalogPage holds data for the catalog listing.
type CatalogPage struct {
	Sweets       []model.Sweet
	SearchActive bool
	Filters      url.Values
	Categories   []string
}

// SweetFormPage holds data for the create and edit forms. Sweet is nil
// when creating.
type SweetFormPage struct {
	Sweet      *model.Sweet
	Action     string
	Values     url.Values
	Errors     form.Errors
	Categories []string
}

// PurchasePage holds data for the purchase form.
type PurchasePage struct {
	Sweet    model.Sweet
	Values   url.Values
	Errors   form.Errors
	Quantity int
}

// RestockPage holds data for the restock form.
type RestockPage struct {
	Sweet  model.Sweet
	Values url.Values
	Errors form.Errors
}

// DeletePage holds data for the delete confirmation.
type DeletePage struct {
	Sweet model.Sweet
}

// CatalogHandler serves the catalog page and the item actions.
type CatalogHandler struct {
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	catalog        *service.CatalogService
	guard          *service.Guard
	eventService   *service.EventService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(renderer *render.Renderer, sm *scs.SessionManager, catalog *service.CatalogService, guard *service.Guard, events *service.EventService) *CatalogHandler {
	return &CatalogHandler{
		renderer:       renderer,
		sessionManager: sm,
		catalog:        catalog,
		guard:          guard,
		eventService:   events,
	}
}

// scope identifies the browser session for read sharing and the
// double-submit guard.
func (h *CatalogHandler) scope(r *http.Request) string {
	if h.sessionManager != nil {
		if token := h.sessionManager.Token(r.Context()); token != "" {
			return token
		}
	}
	return "user:" + strconv.FormatInt(middleware.GetUserID(r), 10)
}

func (h *CatalogHandler) guardKey(r *http.Request, action string, id int64) string {
	return h.scope(r) + "|" + action + "|" + strconv.FormatInt(id, 10)
}

// Index lists the catalog, or the search results when the search form
// was submitted.
func (h *CatalogHandler) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := form.ParseSearch(query)
	searchActive := query.Has(searchParam) || !filters.IsEmpty()

	var (
		sweets []model.Sweet
		err    error
	)
	if searchActive {
		sweets, err = h.catalog.Search(r.Context(), h.scope(r), filters)
	} else {
		sweets, err = h.catalog.List(r.Context(), h.scope(r))
	}

	page := CatalogPage{
		Sweets:       sweets,
		SearchActive: searchActive,
		Filters:      form.SearchValues(filters),
		Categories:   model.Categories,
	}
	data := render.TemplateData{Title: "Sweets", Data: page}

	if err != nil {
		handleAPIError(w, r, "list sweets", err, func(msg string) {
			data.Flash = msg
			data.FlashType = render.FlashError
			renderPage(w, r, h.renderer, http.StatusBadGateway, "catalog/index", data)
		})
		return
	}

	if searchActive {
		data.Flash = fmt.Sprintf("Found %d %s", len(sweets), uikit.Plural(len(sweets), "sweet"))
		data.FlashType = render.FlashSuccess
	}
	renderPage(w, r, h.renderer, http.StatusOK, "catalog/index", data)
}

// New renders the empty create form.
func (h *CatalogHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderSweetForm(w, r, http.StatusOK, nil, url.Values{}, form.Errors{}, "")
}

// Create validates and submits a new item.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectSweetsNew) {
		return
	}

	data, errs := form.ParseSweet(r.PostForm)
	if !errs.Valid() {
		h.renderSweetForm(w, r, http.StatusUnprocessableEntity, nil, r.PostForm, errs, "")
		return
	}

	var created *model.Sweet
	err := h.guard.Do(h.guardKey(r, "create", 0), func() error {
		var err error
		created, err = h.catalog.Create(r.Context(), data)
		return err
	})
	if h.rejectedInFlight(w, r, err) {
		return
	}
	if err != nil {
		handleAPIError(w, r, "create sweet", err, func(msg string) {
			h.renderSweetForm(w, r, apiErrorStatus(err), nil, r.PostForm, form.Errors{}, msg)
		})
		return
	}

	h.logCatalogEvent(r, "Sweet created", created.ID, map[string]any{"name": created.Name})
	flashSuccess(w, r, h.renderer, RouteRoot, MsgSweetCreated)
}

// Edit renders the edit form filled with the item's current values.
func (h *CatalogHandler) Edit(w http.ResponseWriter, r *http.Request) {
	sweet, ok := h.findSweet(w, r)
	if !ok {
		return
	}
	h.renderSweetForm(w, r, http.StatusOK, &sweet, form.SweetValues(sweet), form.Errors{}, "")
}

// Update validates and submits the edited item.
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, sweetPath(id, RouteSuffixEdit)) {
		return
	}

	current := &model.Sweet{ID: id}
	data, errs := form.ParseSweet(r.PostForm)
	if !errs.Valid() {
		h.renderSweetForm(w, r, http.StatusUnprocessableEntity, current, r.PostForm, errs, "")
		return
	}

	err := h.guard.Do(h.guardKey(r, "update", id), func() error {
		_, err := h.catalog.Update(r.Context(), id, data)
		return err
	})
	if h.rejectedInFlight(w, r, err) {
		return
	}
	if err != nil {
		handleAPIError(w, r, "update sweet", err, func(msg string) {
			h.renderSweetForm(w, r, apiErrorStatus(err), current, r.PostForm, form.Errors{}, msg)
		})
		return
	}

	h.logCatalogEvent(r, "Sweet updated", id, map[string]any{"name": data.Name})
	flashSuccess(w, r, h.renderer, RouteRoot, MsgSweetUpdated)
}

// DeleteConfirm renders the delete confirmation.
func (h *CatalogHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	sweet, ok := h.findSweet(w, r)
	if !ok {
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "catalog/delete", render.TemplateData{
		Title: "Delete Sweet",
		Data:  DeletePage{Sweet: sweet},
	})
}

// Delete removes the item.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := h.guard.Do(h.guardKey(r, "delete", id), func() error {
		return h.catalog.Delete(r.Context(), id)
	})
	if h.rejectedInFlight(w, r, err) {
		return
	}
	if err != nil {
		handleAPIError(w, r, "delete sweet", err, func(msg string) {
			flashError(w, r, h.renderer, RouteRoot, msg)
		})
		return
	}

	h.logCatalogEvent(r, "Sweet deleted", id, nil)
	flashSuccess(w, r, h.renderer, RouteRoot, MsgSweetDeleted)
}

// PurchaseForm renders the purchase form for an item.
func (h *CatalogHandler) PurchaseForm(w http.ResponseWriter, r *http.Request) {
	sweet, ok := h.findSweet(w, r)
	if !ok {
		return
	}
	h.renderPurchase(w, r, http.StatusOK, sweet, url.Values{form.FieldQuantity: {"1"}}, form.Errors{}, 1, "")
}

// Purchase validates the quantity against the known stock and buys it.
func (h *CatalogHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	sweet, ok := h.findSweet(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, sweetPath(sweet.ID, RouteSuffixPurchase)) {
		return
	}

	quantity, errs := form.ParsePurchase(r.PostForm, sweet.Quantity)
	if !errs.Valid() {
		h.renderPurchase(w, r, http.StatusUnprocessableEntity, sweet, r.PostForm, errs, 0, "")
		return
	}

	err := h.guard.Do(h.guardKey(r, "purchase", sweet.ID), func() error {
		_, err := h.catalog.Purchase(r.Context(), sweet.ID, quantity)
		return err
	})
	if h.rejectedInFlight(w, r, err) {
		return
	}
	if err != nil {
		handleAPIError(w, r, "purchase sweet", err, func(msg string) {
			h.renderPurchase(w, r, apiErrorStatus(err), sweet, r.PostForm, form.Errors{}, quantity, msg)
		})
		return
	}

	h.logCatalogEvent(r, "Sweet purchased", sweet.ID, map[string]any{"quantity": quantity})
	flashSuccess(w, r, h.renderer, RouteRoot, MsgPurchaseSuccess)
}

// RestockForm renders the restock form with the default quantity.
func (h *CatalogHandler) RestockForm(w http.ResponseWriter, r *http.Request) {
	sweet, ok := h.findSweet(w, r)
	if !ok {
		return
	}
	values := url.Values{form.FieldQuantity: {strconv.Itoa(form.DefaultRestockQuantity)}}
	h.renderRestock(w, r, http.StatusOK, sweet, values, form.Errors{}, "")
}

// Restock validates and submits a restock.
func (h *CatalogHandler) Restock(w http.ResponseWriter, r *http.Request) {
	sweet, ok := h.findSweet(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, sweetPath(sweet.ID, RouteSuffixRestock)) {
		return
	}

	quantity, errs := form.ParseRestock(r.PostForm)
	if !errs.Valid() {
		h.renderRestock(w, r, http.StatusUnprocessableEntity, sweet, r.PostForm, errs, "")
		return
	}

	err := h.guard.Do(h.guardKey(r, "restock", sweet.ID), func() error {
		_, err := h.catalog.Restock(r.Context(), sweet.ID, quantity)
		return err
	})
	if h.rejectedInFlight(w, r, err) {
		return
	}
	if err != nil {
		handleAPIError(w, r, "restock sweet", err, func(msg string) {
			h.renderRestock(w, r, apiErrorStatus(err), sweet, r.PostForm, form.Errors{}, msg)
		})
		return
	}

	h.logCatalogEvent(r, "Sweet restocked", sweet.ID, map[string]any{"quantity": quantity})
	flashSuccess(w, r, h.renderer, RouteRoot, MsgSweetRestocked)
}

// findSweet loads the item named by the {id} parameter. It writes the
// response itself when the item cannot be shown.
func (h *CatalogHandler) findSweet(w http.ResponseWriter, r *http.Request) (model.Sweet, bool) {
	id, ok := parseIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return model.Sweet{}, false
	}

	sweet, err := h.catalog.Find(r.Context(), h.scope(r), id)
	if errors.Is(err, service.ErrSweetNotFound) {
		flashError(w, r, h.renderer, RouteRoot, MsgSweetNotFound)
		return model.Sweet{}, false
	}
	if err != nil {
		handleAPIError(w, r, "load sweet", err, func(msg string) {
			flashError(w, r, h.renderer, RouteRoot, msg)
		})
		return model.Sweet{}, false
	}
	return sweet, true
}

// rejectedInFlight answers a duplicate submission. It reports whether it
// wrote the response.
func (h *CatalogHandler) rejectedInFlight(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, service.ErrSubmissionInFlight) {
		return false
	}
	flashAndRedirect(w, r, h.renderer, RouteRoot, MsgSubmissionInFlight, render.FlashInfo)
	return true
}

func (h *CatalogHandler) logCatalogEvent(r *http.Request, message string, id int64, metadata map[string]any) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["sweet_id"] = id
	metadata["user_id"] = middleware.GetUserID(r)
	_ = h.eventService.LogCatalogEvent(r.Context(), model.EventLevelInfo, message, middleware.GetClientIP(r), metadata)
}

func (h *CatalogHandler) renderSweetForm(w http.ResponseWriter, r *http.Request, status int, sweet *model.Sweet, values url.Values, errs form.Errors, flash string) {
	name, title, action := "catalog/new", "Add New Sweet", RouteSweets
	if sweet != nil {
		name, title, action = "catalog/edit", "Edit Sweet", sweetPath(sweet.ID, "")
	}
	renderPage(w, r, h.renderer, status, name, withFlash(render.TemplateData{
		Title: title,
		Data: SweetFormPage{
			Sweet:      sweet,
			Action:     action,
			Values:     values,
			Errors:     errs,
			Categories: model.Categories,
		},
	}, flash))
}

func (h *CatalogHandler) renderPurchase(w http.ResponseWriter, r *http.Request, status int, sweet model.Sweet, values url.Values, errs form.Errors, quantity int, flash string) {
	renderPage(w, r, h.renderer, status, "catalog/purchase", withFlash(render.TemplateData{
		Title: "Purchase Sweet",
		Data:  PurchasePage{Sweet: sweet, Values: values, Errors: errs, Quantity: quantity},
	}, flash))
}

func (h *CatalogHandler) renderRestock(w http.ResponseWriter, r *http.Request, status int, sweet model.Sweet, values url.Values, errs form.Errors, flash string) {
	renderPage(w, r, h.renderer, status, "catalog/restock", withFlash(render.TemplateData{
		Title: "Restock Sweet",
		Data:  RestockPage{Sweet: sweet, Values: values, Errors: errs},
	}, flash))
}

func withFlash(data render.TemplateData, flash string) render.TemplateData {
	if flash != "" {
		data.Flash = flash
		data.FlashType = render.FlashError
	}
	return data
}

func sweetPath(id int64, suffix string) string {
	return RouteSweets + "/" + strconv.FormatInt(id, 10) + suffix
}
