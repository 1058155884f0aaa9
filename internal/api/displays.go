package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/srtcast/srtcast/internal/api/models"
	"github.com/srtcast/srtcast/internal/display"
	"github.com/srtcast/srtcast/internal/metrics"
)

// registerDisplayRoutes registers display enumeration routes.
func (s *Server) registerDisplayRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-displays",
		Method:      http.MethodGet,
		Path:        "/api/displays",
		Summary:     "Get Displays",
		Description: "Enumerate connected displays with their geometries and the bounding box covering all of them",
		Tags:        []string{"displays"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(ctx context.Context, _ *struct{}) (*models.DisplaysResponse, error) {
		displays, err := display.Enumerate(ctx)
		if err != nil {
			metrics.RecordDisplayQuery("error")
			s.logger.Warn("Display enumeration failed", "error", err)
			return nil, huma.Error500InternalServerError("display query failed", err)
		}
		metrics.RecordDisplayQuery("ok")

		return &models.DisplaysResponse{
			Body: models.DisplaysData{
				Displays:   displays,
				Count:      len(displays),
				AllScreens: display.AllScreens(displays),
			},
		}, nil
	})
}
