package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/service"
	"github.com/advisio/advisio-api/internal/utils"
)

type stubInsightsService struct {
	lastTeacherID uint
	lastReq       dto.InsightsRequest
	snapshot      dto.InsightsResponse
	err           error
}

func (s *stubInsightsService) GetSnapshot(ctx context.Context, teacherID uint, req dto.InsightsRequest) (dto.InsightsResponse, error) {
	s.lastTeacherID = teacherID
	s.lastReq = req
	if s.err != nil {
		return dto.InsightsResponse{}, s.err
	}
	return s.snapshot, nil
}

func newInsightsApp(svc service.InsightsService) *fiber.App {
	app := fiber.New()
	group := app.Group("/insights", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(42))
		return c.Next()
	})
	NewInsightsHandler(svc, zerolog.Nop()).Register(group)
	return app
}

func decodeEnvelope(t *testing.T, resp io.Reader) utils.APIResponse {
	t.Helper()
	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp).Decode(&envelope))
	return envelope
}

func TestInsightsHandlerReturnsSnapshot(t *testing.T) {
	svc := &stubInsightsService{snapshot: dto.InsightsResponse{StudentCount: 3, AvgScore: 71.5}}
	app := newInsightsApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/insights?time_range=7d&task_filter=2", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp.Body)
	require.True(t, envelope.Success)
	require.Equal(t, "insights snapshot", envelope.Message)

	require.Equal(t, uint(42), svc.lastTeacherID)
	require.Equal(t, "7d", svc.lastReq.TimeRange)
	require.Equal(t, "2", svc.lastReq.TaskFilter)
}

func TestInsightsHandlerMapsUnknownAssignment(t *testing.T) {
	svc := &stubInsightsService{err: service.ErrAssignmentNotFound}
	app := newInsightsApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/insights?assignment_id=missing", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	envelope := decodeEnvelope(t, resp.Body)
	require.False(t, envelope.Success)
	require.Equal(t, "assignment not found", envelope.Message)
}

func TestInsightsHandlerMapsValidationError(t *testing.T) {
	svc := &stubInsightsService{err: &service.ValidationError{Field: "time_range", Reason: "unsupported value"}}
	app := newInsightsApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/insights?time_range=90d", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
