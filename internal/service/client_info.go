// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "github.com/mileusna/useragent"

// ClientInfo is the browser summary recorded with sign-in events.
type ClientInfo struct {
	Browser    string
	OS         string
	DeviceType string
}

// ParseUserAgent extracts browser, OS, and device type from a User-Agent header.
func ParseUserAgent(uaString string) ClientInfo {
	ua := useragent.Parse(uaString)

	info := ClientInfo{Browser: ua.Name, OS: ua.OS}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}

	switch {
	case ua.Mobile:
		info.DeviceType = "mobile"
	case ua.Tablet:
		info.DeviceType = "tablet"
	case ua.Bot:
		info.DeviceType = "bot"
	default:
		info.DeviceType = "desktop"
	}
	return info
}

// AddTo copies the summary into event metadata.
func (c ClientInfo) AddTo(metadata map[string]any) map[string]any {
	if metadata == nil {
		metadata = make(map[string]any, 3)
	}
	metadata["browser"] = c.Browser
	metadata["os"] = c.OS
	metadata["device"] = c.DeviceType
	return metadata
}
