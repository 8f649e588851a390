// Package openai asks an OpenAI-compatible chat completion API for budgeting
// advice.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/financas-pro/internal/advisor/prompt"
	"github.com/carson-networks/financas-pro/internal/service"
)

type Advisor struct {
	client *goopenai.Client
	model  string
	logger *logrus.Logger
}

// NewAdvisor builds an advisor for apiKey. An empty baseURL keeps the
// library's default endpoint.
func NewAdvisor(apiKey, baseURL, model string, logger *logrus.Logger) *Advisor {
	clientConfig := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Advisor{
		client: goopenai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger,
	}
}

func (a *Advisor) Advise(ctx context.Context, transactions []service.Transaction) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: a.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: prompt.SystemInstruction},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt.Build(transactions)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	advice := strings.TrimSpace(resp.Choices[0].Message.Content)
	if advice == "" {
		return "", errors.New("openai returned empty response")
	}

	a.logger.WithFields(logrus.Fields{
		"model":            resp.Model,
		"promptTokens":     resp.Usage.PromptTokens,
		"completionTokens": resp.Usage.CompletionTokens,
	}).Info("OpenAIAdvisor.Advise.complete")

	return advice, nil
}
