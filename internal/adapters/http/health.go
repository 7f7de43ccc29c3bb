package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler checks that the configured STAC catalog answers.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allOK := true

		probe := deps.Probe
		if probe == nil {
			probe = http.DefaultClient
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, deps.Cfg.Catalog.URL, nil)
		if err != nil {
			checks["catalog"] = "error: " + err.Error()
			allOK = false
		} else if resp, err := probe.Do(req); err != nil {
			checks["catalog"] = "error: " + err.Error()
			allOK = false
		} else {
			resp.Body.Close()
			if resp.StatusCode >= 500 {
				checks["catalog"] = "error: status " + resp.Status
				allOK = false
			} else {
				checks["catalog"] = "ok"
			}
		}

		status := "ready"
		code := 200
		if !allOK {
			status = "not ready"
			code = 503
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
