package insight

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MarketEdge-Intelligence/internal/config"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

type mockChatCompleter struct {
	reply   string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (m *mockChatCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: m.reply}},
		},
	}, nil
}

func sampleRequest() Request {
	return Request{
		AnalysisType: "comprehensive",
		Source: ProductSnapshot{
			Name:     "Widget Pro",
			Category: "widgets",
			Price:    100,
			Features: []string{"analytics", "export"},
		},
		Target: &ProductSnapshot{
			Name:     "Widget Max",
			Category: "widgets",
			Price:    120,
			Features: []string{"analytics", "automation"},
		},
		Relationship: analysis.RelationshipDirectCompetitor,
		OverallScore: 0.82,
	}
}

func TestOpenAIProvider_ParsesModelJSON(t *testing.T) {
	mock := &mockChatCompleter{
		reply: `{"summary":"Tight head-to-head race.","key_insights":["Feature overlap is high"],` +
			`"recommendations":[{"action":"Ship automation parity","priority":"high"}]}`,
	}
	provider := NewOpenAIProviderWithClient(mock, config.InsightConfig{Model: "gpt-4o-mini"}, logging.NewNopLogger())

	result, err := provider.GenerateInsights(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Tight head-to-head race.", result.Summary)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "high", result.Recommendations[0].Priority)

	assert.Equal(t, "gpt-4o-mini", mock.lastReq.Model)
	require.Len(t, mock.lastReq.Messages, 2)
	assert.Contains(t, mock.lastReq.Messages[1].Content, "Widget Pro")
}

func TestOpenAIProvider_ToleratesMarkdownFence(t *testing.T) {
	mock := &mockChatCompleter{
		reply: "```json\n{\"summary\":\"ok\",\"key_insights\":[],\"recommendations\":[]}\n```",
	}
	provider := NewOpenAIProviderWithClient(mock, config.InsightConfig{}, logging.NewNopLogger())

	result, err := provider.GenerateInsights(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Summary)
}

func TestOpenAIProvider_InvalidReply(t *testing.T) {
	mock := &mockChatCompleter{reply: "I cannot help with that."}
	provider := NewOpenAIProviderWithClient(mock, config.InsightConfig{}, logging.NewNopLogger())

	_, err := provider.GenerateInsights(context.Background(), sampleRequest())
	assert.True(t, errors.IsCode(err, errors.ErrCodeAIResponseInvalid))
}

func TestOpenAIProvider_RequestFailure(t *testing.T) {
	mock := &mockChatCompleter{err: assert.AnError}
	provider := NewOpenAIProviderWithClient(mock, config.InsightConfig{}, logging.NewNopLogger())

	_, err := provider.GenerateInsights(context.Background(), sampleRequest())
	assert.True(t, errors.IsCode(err, errors.ErrCodeAIRequestFailed))
}

func TestNewOpenAIProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(config.InsightConfig{}, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestRuleFallback_DirectCompetitor(t *testing.T) {
	fallback := NewRuleFallback()

	result, err := fallback.GenerateInsights(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Contains(t, result.Summary, "Widget Pro")
	assert.Contains(t, result.Summary, "direct_competitor")
	assert.NotEmpty(t, result.KeyInsights)
	assert.NotEmpty(t, result.Recommendations)
}

func TestRuleFallback_UnknownRelationshipUsesDefault(t *testing.T) {
	fallback := NewRuleFallback()
	req := sampleRequest()
	req.Relationship = analysis.RelationshipUnrelated

	result, err := fallback.GenerateInsights(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "low", result.Recommendations[0].Priority)
}

func TestRuleFallback_Deterministic(t *testing.T) {
	fallback := NewRuleFallback()

	first, err := fallback.GenerateInsights(context.Background(), sampleRequest())
	require.NoError(t, err)
	second, err := fallback.GenerateInsights(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChain_FallsBackOnPrimaryFailure(t *testing.T) {
	mock := &mockChatCompleter{err: assert.AnError}
	primary := NewOpenAIProviderWithClient(mock, config.InsightConfig{}, logging.NewNopLogger())
	chain := NewChain(primary, NewRuleFallback(), logging.NewNopLogger())

	result, err := chain.GenerateInsights(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Recommendations)
}

func TestChain_NilPrimaryRunsFallbackOnly(t *testing.T) {
	chain := NewChain(nil, NewRuleFallback(), logging.NewNopLogger())

	result, err := chain.GenerateInsights(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "rule_fallback", chain.Name())
	assert.NotEmpty(t, result.KeyInsights)
}

func TestImplications_SplitsThreatsAndOpportunities(t *testing.T) {
	req := sampleRequest()
	result, err := NewRuleFallback().GenerateInsights(context.Background(), req)
	require.NoError(t, err)

	impl := Implications(req, result)
	assert.NotEmpty(t, impl.Threats)
	assert.NotEmpty(t, impl.Opportunities)
	assert.NotEmpty(t, impl.Recommendations)
}
