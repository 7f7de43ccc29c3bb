package http

import (
	"net/http"

	"github.com/samirrijal/stacmap/internal/core/usecases"
	"github.com/samirrijal/stacmap/internal/pkg/config"
)

// Dependencies holds everything the HTTP handlers need.
type Dependencies struct {
	Maps *usecases.MapService

	// Cfg supplies the defaults applied when a request omits a
	// parameter (catalog collection, asset key, search period, ...).
	Cfg *config.Config

	// Probe is used by the readiness check to reach the catalog root.
	Probe *http.Client
}
