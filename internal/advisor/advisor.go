// Package advisor selects the advice provider named in the configuration.
package advisor

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/financas-pro/internal/advisor/ollama"
	"github.com/carson-networks/financas-pro/internal/advisor/openai"
	"github.com/carson-networks/financas-pro/internal/advisor/rules"
	"github.com/carson-networks/financas-pro/internal/config"
	"github.com/carson-networks/financas-pro/internal/service"
)

func New(env *config.Config, logger *logrus.Logger) (service.Advisor, error) {
	switch env.AdviceProvider {
	case config.AdviceProviderRules, "":
		return rules.NewAdvisor(), nil
	case config.AdviceProviderOllama:
		return ollama.NewAdvisor(env.OllamaURL, env.OllamaModel, logger), nil
	case config.AdviceProviderOpenAI:
		if env.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("advice provider %q requires OPENAI_API_KEY", env.AdviceProvider)
		}
		return openai.NewAdvisor(env.OpenAIAPIKey, env.OpenAIBaseURL, env.OpenAIModel, logger), nil
	default:
		return nil, fmt.Errorf("unknown advice provider %q", env.AdviceProvider)
	}
}
