package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/turtacn/MarketEdge-Intelligence/internal/config"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

const systemPrompt = `You are a competitive intelligence analyst. Given a JSON payload ` +
	`describing a product and its competitive context, respond with a single JSON object ` +
	`of the shape {"summary": string, "key_insights": [string], "recommendations": ` +
	`[{"action": string, "priority": "high"|"medium"|"low", "timeline": string, ` +
	`"impact": string, "effort": string}]}. Be specific and concise. Respond with JSON only.`

// chatCompleter is the slice of the openai client the provider uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider generates insights through a chat-completion model.
type OpenAIProvider struct {
	client chatCompleter
	cfg    config.InsightConfig
	logger logging.Logger
}

// NewOpenAIProvider builds the primary provider. An empty API key is a
// configuration error; callers run fallback-only in that case.
func NewOpenAIProvider(cfg config.InsightConfig, log logging.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewValidation("insight api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: log,
	}, nil
}

// NewOpenAIProviderWithClient wraps an existing client, used by tests.
func NewOpenAIProviderWithClient(client chatCompleter, cfg config.InsightConfig, log logging.Logger) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	return &OpenAIProvider{client: client, cfg: cfg, logger: log}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// GenerateInsights sends the request payload to the model and parses its JSON
// reply into the shared result contract.
func (p *OpenAIProvider) GenerateInsights(ctx context.Context, req Request) (*Result, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to serialize insight request")
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
		Temperature: float32(p.cfg.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if p.cfg.MaxTokens > 0 {
		chatReq.MaxTokens = p.cfg.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAIRequestFailed, "insight completion failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New(errors.ErrCodeAIRequestFailed, "insight completion returned no choices")
	}

	result, err := parseModelReply(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Insights generated",
		logging.String("model", p.cfg.Model),
		logging.Int("insights", len(result.KeyInsights)),
		logging.Int("recommendations", len(result.Recommendations)))
	return result, nil
}

// parseModelReply tolerates markdown fencing around the JSON body but
// rejects anything that does not decode into the contract.
func parseModelReply(content string) (*Result, error) {
	body := strings.TrimSpace(content)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		if idx := strings.LastIndex(body, "```"); idx >= 0 {
			body = body[:idx]
		}
		body = strings.TrimSpace(body)
	}

	var result Result
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAIResponseInvalid,
			fmt.Sprintf("model reply is not valid insight JSON (%d bytes)", len(body)))
	}
	if result.Summary == "" && len(result.KeyInsights) == 0 && len(result.Recommendations) == 0 {
		return nil, errors.New(errors.ErrCodeAIResponseInvalid, "model reply carries no usable content")
	}
	return &result, nil
}
