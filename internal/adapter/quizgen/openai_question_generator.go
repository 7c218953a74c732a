package quizgen

import (
	"context"
	"fmt"
	"time"

	"academy-ai/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tmc/langchaingo/llms"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// OpenAIQuestionGenerator is the primary tier of the question generation
// fallback chain.
type OpenAIQuestionGenerator struct {
	model   llms.Model
	name    string
	schema  *jsonschema.Schema
	timeout time.Duration
	logger  *zap.Logger
}

// NewOpenAIQuestionGenerator creates the primary question generator.
func NewOpenAIQuestionGenerator(apiKey, modelName string, timeout time.Duration, logger *zap.Logger) (*OpenAIQuestionGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("openai model name cannot be empty")
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	schema, err := compileQuestionSchema()
	if err != nil {
		return nil, err
	}

	return &OpenAIQuestionGenerator{
		model:   llm,
		name:    "openai/" + modelName,
		schema:  schema,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Name implements domain.QuestionGenerator.
func (g *OpenAIQuestionGenerator) Name() string {
	return g.name
}

// GenerateQuestions implements domain.QuestionGenerator.
func (g *OpenAIQuestionGenerator) GenerateQuestions(ctx context.Context, category domain.Category, contextChunks []domain.ContentChunk, count int) ([]domain.DiagnosticQuestion, error) {
	return generateWithModel(ctx, g.model, g.schema, g.timeout, g.logger, g.name, category, contextChunks, count)
}

// generateWithModel runs one structured-output generation call. Shared by
// both fallback tiers; only the model differs.
func generateWithModel(
	ctx context.Context,
	model llms.Model,
	schema *jsonschema.Schema,
	timeout time.Duration,
	logger *zap.Logger,
	tierName string,
	category domain.Category,
	contextChunks []domain.ContentChunk,
	count int,
) ([]domain.DiagnosticQuestion, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := model.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, buildUserPrompt(category, contextChunks, count)),
		},
		llms.WithTemperature(0.7),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, domain.NewGenerationFailureError(fmt.Errorf("%s: %w", tierName, err))
	}
	if len(resp.Choices) == 0 {
		return nil, domain.NewGenerationFailureError(fmt.Errorf("%s returned no choices", tierName))
	}

	questions, err := decodeQuestions(schema, resp.Choices[0].Content, category)
	if err != nil {
		logger.Warn("Model returned malformed question output",
			zap.String("tier", tierName),
			zap.String("category", string(category)),
			zap.Error(err),
		)
		return nil, err
	}
	return questions, nil
}

var _ domain.QuestionGenerator = (*OpenAIQuestionGenerator)(nil)
