package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/srtcast/srtcast/internal/api/models"
	"github.com/srtcast/srtcast/internal/session"
)

// PresetNameInput identifies a preset by path parameter.
type PresetNameInput struct {
	Name string `path:"name" maxLength:"64" example:"office" doc:"Preset name"`
}

// SavePresetInput carries the preset name and inputs to store.
type SavePresetInput struct {
	Name string `path:"name" maxLength:"64" example:"office" doc:"Preset name"`
	Body models.PipelineRequestData
}

// registerPresetRoutes registers preset CRUD routes. Presets are named
// saved session inputs, persisted in the presets TOML file.
func (s *Server) registerPresetRoutes() {
	if s.presets == nil {
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "list-presets",
		Method:      http.MethodGet,
		Path:        "/api/presets",
		Summary:     "List Presets",
		Description: "List all saved session presets",
		Tags:        []string{"presets"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.PresetsResponse, error) {
		all := s.presets.All()
		data := make([]models.PresetData, 0, len(all))
		for _, preset := range all {
			data = append(data, presetToModel(preset.Name, preset.Input, preset.CreatedAt, preset.UpdatedAt))
		}
		sort.Slice(data, func(i, j int) bool { return data[i].Name < data[j].Name })

		return &models.PresetsResponse{
			Body: models.PresetsData{Presets: data, Count: len(data)},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-preset",
		Method:      http.MethodGet,
		Path:        "/api/presets/{name}",
		Summary:     "Get Preset",
		Description: "Get a saved preset by name",
		Tags:        []string{"presets"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(_ context.Context, input *PresetNameInput) (*models.PresetResponse, error) {
		preset, ok := s.presets.Get(input.Name)
		if !ok {
			return nil, huma.Error404NotFound("preset not found")
		}
		return &models.PresetResponse{
			Body: presetToModel(preset.Name, preset.Input, preset.CreatedAt, preset.UpdatedAt),
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "save-preset",
		Method:      http.MethodPut,
		Path:        "/api/presets/{name}",
		Summary:     "Save Preset",
		Description: "Create or update a preset. The inputs are validated for exclusive group conflicts before saving.",
		Tags:        []string{"presets"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 500},
	}, func(_ context.Context, input *SavePresetInput) (*models.PresetResponse, error) {
		in := input.Body.ToInput()
		if err := session.ValidateSelection(in); err != nil {
			return nil, mapSessionError(err)
		}

		if err := s.presets.Set(input.Name, in); err != nil {
			return nil, huma.Error500InternalServerError("failed to save preset", err)
		}

		preset, _ := s.presets.Get(input.Name)
		return &models.PresetResponse{
			Body: presetToModel(preset.Name, preset.Input, preset.CreatedAt, preset.UpdatedAt),
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-preset",
		Method:      http.MethodDelete,
		Path:        "/api/presets/{name}",
		Summary:     "Delete Preset",
		Description: "Delete a saved preset by name",
		Tags:        []string{"presets"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(_ context.Context, input *PresetNameInput) (*struct{}, error) {
		if _, ok := s.presets.Get(input.Name); !ok {
			return nil, huma.Error404NotFound("preset not found")
		}
		if err := s.presets.Remove(input.Name); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete preset", err)
		}
		return nil, nil
	})
}

func presetToModel(name string, in session.Input, created, updated time.Time) models.PresetData {
	return models.PresetData{
		Name:      name,
		Input:     in,
		CreatedAt: created.Format(time.RFC3339),
		UpdatedAt: updated.Format(time.RFC3339),
	}
}
