// Package ollama asks a local Ollama server for budgeting advice.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/financas-pro/internal/advisor/prompt"
	"github.com/carson-networks/financas-pro/internal/service"
)

const DefaultTimeout = 5 * time.Minute

type Advisor struct {
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewAdvisor(baseURL, model string, logger *logrus.Logger) *Advisor {
	return &Advisor{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Advise sends a single non-streaming generate request.
func (a *Advisor) Advise(ctx context.Context, transactions []service.Transaction) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:   a.model,
		System:  prompt.SystemInstruction,
		Prompt:  prompt.Build(transactions),
		Stream:  false,
		Options: &generateOptions{Temperature: 0.7},
	})
	if err != nil {
		return "", fmt.Errorf("encode ollama request: %w", err)
	}

	// tie the Ollama timeout to the incoming ctx
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, a.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.WithError(err).WithField("baseURL", a.baseURL).Error("OllamaAdvisor.Advise.connect")
		return "", fmt.Errorf("ollama API connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var generated generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	advice := strings.TrimSpace(generated.Response)
	if advice == "" {
		return "", errors.New("ollama returned empty response")
	}

	a.logger.WithFields(logrus.Fields{
		"model":          generated.Model,
		"responseLength": len(advice),
	}).Info("OllamaAdvisor.Advise.complete")

	return advice, nil
}
