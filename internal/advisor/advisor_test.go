package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/financas-pro/internal/advisor/ollama"
	"github.com/carson-networks/financas-pro/internal/advisor/openai"
	"github.com/carson-networks/financas-pro/internal/advisor/rules"
	"github.com/carson-networks/financas-pro/internal/config"
	"github.com/carson-networks/financas-pro/internal/logging"
)

func TestNew_SelectsProvider(t *testing.T) {
	logger := logging.Discard()

	a, err := New(&config.Config{AdviceProvider: config.AdviceProviderRules}, logger)
	assert.NoError(t, err)
	assert.IsType(t, &rules.Advisor{}, a)

	a, err = New(&config.Config{AdviceProvider: config.AdviceProviderOllama, OllamaURL: "http://localhost:11434", OllamaModel: "llama3.1"}, logger)
	assert.NoError(t, err)
	assert.IsType(t, &ollama.Advisor{}, a)

	a, err = New(&config.Config{AdviceProvider: config.AdviceProviderOpenAI, OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4o-mini"}, logger)
	assert.NoError(t, err)
	assert.IsType(t, &openai.Advisor{}, a)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&config.Config{AdviceProvider: config.AdviceProviderOpenAI}, logging.Discard())
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	_, err = New(&config.Config{AdviceProvider: "gemini"}, logging.Discard())
	assert.ErrorContains(t, err, "unknown advice provider")
}
