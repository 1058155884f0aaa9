package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/srtcast/srtcast/internal/api/models"
	"github.com/srtcast/srtcast/internal/display"
	"github.com/srtcast/srtcast/internal/session"
)

// registerOptionsRoutes registers the session option schema route.
func (s *Server) registerOptionsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-options",
		Method:      http.MethodGet,
		Path:        "/api/options",
		Summary:     "Get Session Options",
		Description: "Get all session options with metadata including help text, exclusive groups, and per-screen choices reflecting the current display layout",
		Tags:        []string{"configuration"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(ctx context.Context, _ *struct{}) (*models.OptionsResponse, error) {
		// Headless hosts still get the static options, so the form
		// renders without screen choices rather than failing.
		displays, err := display.Enumerate(ctx)
		if err != nil {
			s.logger.Debug("Display enumeration failed, serving static options", "error", err)
			displays = nil
		}

		options := session.Schema(displays, s.options.Defaults())
		return &models.OptionsResponse{
			Body: models.OptionsData{
				Options: options,
				Count:   len(options),
			},
		}, nil
	})
}
