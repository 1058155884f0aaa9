package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/srtcast/srtcast/internal/api/models"
	"github.com/srtcast/srtcast/internal/geometry"
	"github.com/srtcast/srtcast/internal/metrics"
)

// RectValidationInput carries the rectangle string to check.
type RectValidationInput struct {
	Value string `query:"value" example:"1920x1080+0,0" doc:"Rectangle string in WIDTHxHEIGHT+X,Y form"`
}

// registerRectangleRoutes registers the live rectangle validation route
// used by form renderers while the user types.
func (s *Server) registerRectangleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "validate-rectangle",
		Method:      http.MethodGet,
		Path:        "/api/rectangle",
		Summary:     "Validate Rectangle",
		Description: "Parse a capture rectangle string and report whether it is valid. Never executes anything.",
		Tags:        []string{"configuration"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, input *RectValidationInput) (*models.RectValidationResponse, error) {
		data := models.RectValidationData{Input: input.Value}

		rect, err := geometry.ParseRect(input.Value)
		if err != nil {
			metrics.RecordRectValidation("invalid")
			data.Error = err.Error()
			return &models.RectValidationResponse{Body: data}, nil
		}

		metrics.RecordRectValidation("valid")
		data.Valid = true
		data.Rect = rect
		return &models.RectValidationResponse{Body: data}, nil
	})
}
