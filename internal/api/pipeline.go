package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/srtcast/srtcast/internal/api/models"
	"github.com/srtcast/srtcast/internal/events"
	"github.com/srtcast/srtcast/internal/gst"
	"github.com/srtcast/srtcast/internal/session"
)

// registerPipelineRoutes registers the pipeline preview route. The
// endpoint resolves inputs and assembles the command line but never
// launches anything.
func (s *Server) registerPipelineRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "preview-pipeline",
		Method:      http.MethodPost,
		Path:        "/api/pipeline",
		Summary:     "Preview Pipeline",
		Description: "Resolve session inputs and return the pipeline command that would run, including the pinned nix-shell wrapper",
		Tags:        []string{"pipeline"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 502},
	}, func(ctx context.Context, input *models.PipelineRequest) (*models.PipelineResponse, error) {
		in := session.ApplyDefaults(input.Body.ToInput(), s.options.Defaults())

		cfg, err := s.options.Resolver.Resolve(ctx, in)
		if err != nil {
			return nil, mapSessionError(err)
		}

		params := gst.FromConfig(cfg)
		stages := gst.BuildPipeline(params)
		command := gst.Command(params)

		if s.eventBus != nil {
			s.eventBus.Publish(events.PipelineBuiltEvent{
				Mode:      string(cfg.Mode),
				Role:      string(cfg.Role),
				URI:       cfg.URI,
				Command:   command,
				Timestamp: time.Now().Format(time.RFC3339),
			})
		}

		return &models.PipelineResponse{
			Body: models.PipelineData{
				Role:    string(cfg.Role),
				Mode:    string(cfg.Mode),
				URI:     cfg.URI,
				Stages:  stages,
				Command: command,
				Wrapped: gst.NixShellCommand(command),
			},
		}, nil
	})
}

// mapSessionError converts session error codes to HTTP errors.
func mapSessionError(err error) error {
	var sessionErr *session.SessionError
	if !errors.As(err, &sessionErr) {
		return huma.Error500InternalServerError("session resolution failed", err)
	}

	switch sessionErr.Code {
	case session.ErrCodeInvalidParams, session.ErrCodeInvalidRectangle:
		return huma.Error400BadRequest(sessionErr.Message, err)
	case session.ErrCodeHostResolution, session.ErrCodeDisplayQuery:
		return huma.Error502BadGateway(sessionErr.Message, err)
	default:
		return huma.Error500InternalServerError(sessionErr.Message, err)
	}
}
