// Package msgraph implements a client for a subset of the Microsoft
// Graph REST API: OneNote notebooks, sections and pages, directory
// service principals, and Planner plans for export.
//
// The root package holds the entity model, the handle resolver that
// turns loosely shaped targets (entity, URL, or display name) into
// request paths, and the page content builders. The pkg/api package
// carries the transport.
package msgraph

import (
	"strings"

	"github.com/jhoneill/MSGraphAPI/internal/logging"
)

// SetLogLevel changes the log level for this library.
// Accepted values are "debug", "info", "warning" and "error"; anything
// else disables logging.
func SetLogLevel(level string) {
	var lvl logging.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = logging.LevelDebug
	case "info":
		lvl = logging.LevelInfo
	case "warning":
		lvl = logging.LevelWarning
	case "error":
		lvl = logging.LevelError
	default:
		lvl = logging.LevelNone
	}
	logging.SetLevel(lvl)
}
