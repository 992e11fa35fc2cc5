package common

import (
	"context"
	"fmt"
	"os"

	"github.com/ternarybob/adhyayan/internal/interfaces"
)

// ResolveAPIKey resolves an API key by name with environment variable priority.
// Resolution order: environment variables -> KV store -> config fallback -> error.
// This ensures ADHYAYAN_* environment variables always take precedence.
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"groq_api_key":      {"ADHYAYAN_GROQ_API_KEY", "GROQ_API_KEY"},
		"gemini_api_key":    {"ADHYAYAN_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"anthropic_api_key": {"ADHYAYAN_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	}

	if envVarNames, hasMappedEnv := keyToEnvMapping[name]; hasMappedEnv {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	// KV store holds keys provisioned at runtime
	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}
