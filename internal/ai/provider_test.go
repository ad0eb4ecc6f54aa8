// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"
)

// liveProviders maps provider names to the env vars holding their keys.
var liveProviders = []struct {
	name, keyEnv, modelEnv string
}{
	{"openai", "OPENAI_API_KEY", "OPENAI_MODEL"},
	{"gemini", "GEMINI_API_KEY", "GEMINI_MODEL"},
	{"claude", "CLAUDE_API_KEY", "CLAUDE_MODEL"},
	{"mistral", "MISTRAL_API_KEY", "MISTRAL_MODEL"},
}

// TestProvidersLive asks each configured provider for a small JSON object.
// Providers without a key in the environment are skipped.
func TestProvidersLive(t *testing.T) {
	for _, lp := range liveProviders {
		t.Run(lp.name, func(t *testing.T) {
			key := os.Getenv(lp.keyEnv)
			if key == "" {
				t.Skipf("%s not set", lp.keyEnv)
			}

			reg := NewRegistry(lp.name, map[string]ProviderConfig{
				lp.name: {APIKey: key, Model: os.Getenv(lp.modelEnv)},
			})

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			out, err := reg.Generate(ctx, "Respond only with JSON.", `Return {"answer": 4}.`)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			var v map[string]any
			if err := json.Unmarshal([]byte(out), &v); err != nil {
				t.Logf("response was not bare JSON: %q", out)
			}
		})
	}
}
