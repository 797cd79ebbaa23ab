// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the catalog page.
	RouteRoot = "/"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteRegister is the sign-up route.
	RouteRegister = "/register"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteHealth is the health check route.
	RouteHealth = "/health"

	// RouteSweets is the catalog collection route.
	RouteSweets = "/sweets"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteSuffixEdit is the suffix for edit forms.
	RouteSuffixEdit = "/edit"
	// RouteSuffixDelete is the suffix for delete confirmation.
	RouteSuffixDelete = "/delete"
	// RouteSuffixPurchase is the suffix for purchase forms.
	RouteSuffixPurchase = "/purchase"
	// RouteSuffixRestock is the suffix for restock forms.
	RouteSuffixRestock = "/restock"

	// RouteSweetsID is the single sweet route pattern.
	RouteSweetsID = RouteSweets + RouteParamID

	// RouteAdminEvents is the activity log route.
	RouteAdminEvents = "/admin/events"
)

const (
	redirectSweetsNew = RouteSweets + RouteSuffixNew
	redirectLogin     = RouteLogin
)

// Toast messages.
const (
	MsgLoginSuccess        = "Login successful!"
	MsgRegisterSuccess     = "Registration successful!"
	MsgLoggedOut           = "You have been logged out."
	MsgSweetCreated        = "Sweet created successfully!"
	MsgSweetUpdated        = "Sweet updated successfully!"
	MsgSweetDeleted        = "Sweet deleted successfully!"
	MsgPurchaseSuccess     = "Purchase successful!"
	MsgSweetRestocked      = "Sweet restocked successfully!"
	MsgSweetNotFound       = "Sweet not found"
	MsgInvalidForm         = "Invalid form data"
	MsgSubmissionInFlight  = "This request is already being processed."
	MsgAccountLocked       = "Account temporarily locked due to too many failed login attempts. Please try again later."
	MsgAdminEventsLoadFail = "Error loading events"
)

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"
