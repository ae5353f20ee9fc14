package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"voiceletter/internal/domain"
	openai "voiceletter/internal/infra/openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI генерирует секции черновика через Chat Completions, управляя
// стилем за счёт развёрнутого голосового профиля в промпте.
type OpenAI struct {
	client      chatClient
	model       string
	temperature float64
	timeout     time.Duration
}

var _ domain.VoiceGenerator = (*OpenAI)(nil)

// NewOpenAI создаёт генератор.
func NewOpenAI(client chatClient, model string, temperature float64, timeout time.Duration) *OpenAI {
	if model == "" {
		model = "gpt-4.1-mini"
	}
	if temperature <= 0 {
		temperature = 0.7
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAI{client: client, model: model, temperature: temperature, timeout: timeout}
}

// Section генерирует одну секцию. Любая проблема внешнего сервиса, включая
// пустой ответ, возвращается ошибкой: решение о подстановке заглушки
// принимает вызывающая сторона.
func (g *OpenAI) Section(ctx context.Context, in domain.GenerationInput) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   maxTokensFor(in.Kind),
		Messages: []openai.ChatMessage{
			{
				Role:    openai.RoleSystem,
				Content: "You are a newsletter ghostwriter. Reply with the requested text only, no preamble and no markdown headings.",
			},
			{
				Role:    openai.RoleUser,
				Content: BuildPrompt(in),
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: пустой ответ")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai completion: пустой текст секции")
	}
	return text, nil
}

// Match оценивает соответствие текста профилю по шкале 0-100.
func (g *OpenAI) Match(profile domain.VoiceProfile, text string) float64 {
	return MatchScore(profile, text)
}
