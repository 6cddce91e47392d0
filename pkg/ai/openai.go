package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	gradeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "advisio",
		Subsystem: "ai",
		Name:      "grading_duration_seconds",
		Help:      "Duration of AI grading requests",
	}, []string{"model"})

	gradeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "advisio",
		Subsystem: "ai",
		Name:      "grading_failures_total",
		Help:      "Number of AI grading failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI grader.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIGrader implements Grader against the OpenAI chat completion API.
type OpenAIGrader struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIGrader builds a new grader using the provided configuration.
func NewOpenAIGrader(cfg OpenAIConfig) (*OpenAIGrader, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	tracer := otel.Tracer("github.com/advisio/advisio-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIGrader{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Grade sends the grading request to OpenAI and parses the response.
func (g *OpenAIGrader) Grade(parent context.Context, input GradeInput) (GradeResult, error) {
	ctx, span := g.tracer.Start(parent, "openai.grade", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.String("strictness", input.Strictness),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: graderSystemPrompt(input.Strictness),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildGradePrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	gradeDuration.WithLabelValues(g.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		gradeFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return GradeResult{}, fmt.Errorf("openai grade: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		gradeFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return GradeResult{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result, err := ParseGradeResult(content)
	if err != nil {
		gradeFailures.WithLabelValues(g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return GradeResult{}, err
	}

	result.Raw = map[string]interface{}{
		"usage": resp.Usage,
	}

	return result, nil
}

func graderSystemPrompt(strictness string) string {
	posture := "Grade fairly, giving credit for partially demonstrated skills."
	switch strictness {
	case "lenient":
		posture = "Grade generously, rewarding effort and partial coverage."
	case "strict":
		posture = "Grade strictly, deducting points for any missed rubric coverage."
	case "very_strict":
		posture = "Grade very strictly, awarding points only for fully demonstrated skills."
	}

	return "You are grading a financial-advisory role-play transcript against a rubric. " + posture +
		" Respond with a JSON object containing total_score, max_score, feedback, and a breakdown array" +
		" with one entry per rubric criterion, in rubric order, each with criterion_id, score and comment."
}

func buildGradePrompt(input GradeInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Scenario\n")
	builder.WriteString(input.TaskName)
	if input.Persona != "" {
		builder.WriteString("\n\n## Client Persona\n")
		builder.WriteString(input.Persona)
	}
	builder.WriteString("\n\n## Rubric\n")
	for i, criterion := range input.Rubric {
		builder.WriteString(fmt.Sprintf("%d. [%s] %s (%g points)\n", i+1, criterion.ID, criterion.Description, criterion.Points))
	}
	builder.WriteString("\n## Transcript\n")
	builder.WriteString(input.Transcript)
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}
