package quizgen

import (
	"context"
	"fmt"
	"time"

	"academy-ai/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// GoogleAIQuestionGenerator is the secondary tier of the fallback chain,
// tried when the primary model fails or returns invalid structure.
type GoogleAIQuestionGenerator struct {
	model   llms.Model
	name    string
	schema  *jsonschema.Schema
	timeout time.Duration
	logger  *zap.Logger
}

// NewGoogleAIQuestionGenerator creates the fallback question generator.
func NewGoogleAIQuestionGenerator(ctx context.Context, apiKey, modelName string, timeout time.Duration, logger *zap.Logger) (*GoogleAIQuestionGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	schema, err := compileQuestionSchema()
	if err != nil {
		return nil, err
	}

	return &GoogleAIQuestionGenerator{
		model:   llm,
		name:    "googleai/" + modelName,
		schema:  schema,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Name implements domain.QuestionGenerator.
func (g *GoogleAIQuestionGenerator) Name() string {
	return g.name
}

// GenerateQuestions implements domain.QuestionGenerator.
func (g *GoogleAIQuestionGenerator) GenerateQuestions(ctx context.Context, category domain.Category, contextChunks []domain.ContentChunk, count int) ([]domain.DiagnosticQuestion, error) {
	return generateWithModel(ctx, g.model, g.schema, g.timeout, g.logger, g.name, category, contextChunks, count)
}

var _ domain.QuestionGenerator = (*GoogleAIQuestionGenerator)(nil)
