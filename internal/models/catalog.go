package models

import "slices"

var openRouterModels = []Descriptor{
	{
		ID:             "openrouter:deepseek/deepseek-r1:free",
		Name:           "DeepSeek R1",
		Provider:       "OpenRouter",
		ProviderID:     ProviderOpenRouter,
		BaseProviderID: "deepseek",
		Description:    "Open reasoning model served through OpenRouter's free tier.",
		ContextWindow:  163840,
		Reasoning:      true,
		OpenSource:     true,
		Speed:          "Medium",
		Intelligence:   "High",
		Website:        "https://openrouter.ai",
		APIDocs:        "https://openrouter.ai/docs",
		ModelPage:      "https://openrouter.ai/deepseek/deepseek-r1:free",
		Icon:           "deepseek",
	},
	{
		ID:             "openrouter:anthropic/claude-3.7-sonnet",
		Name:           "Claude 3.7 Sonnet",
		Provider:       "OpenRouter",
		ProviderID:     ProviderOpenRouter,
		BaseProviderID: "anthropic",
		Description:    "Anthropic's hybrid reasoning model routed through OpenRouter.",
		ContextWindow:  200000,
		Vision:         true,
		Tools:          true,
		Reasoning:      true,
		Speed:          "Fast",
		Intelligence:   "High",
		Website:        "https://openrouter.ai",
		APIDocs:        "https://openrouter.ai/docs",
		ModelPage:      "https://openrouter.ai/anthropic/claude-3.7-sonnet",
		Icon:           "claude",
	},
	{
		ID:             "openrouter:google/gemini-2.5-pro-preview",
		Name:           "Gemini 2.5 Pro",
		Provider:       "OpenRouter",
		ProviderID:     ProviderOpenRouter,
		BaseProviderID: "google",
		Description:    "Google's long-context multimodal model routed through OpenRouter.",
		ContextWindow:  1048576,
		Vision:         true,
		Tools:          true,
		Reasoning:      true,
		Speed:          "Medium",
		Intelligence:   "High",
		Website:        "https://openrouter.ai",
		APIDocs:        "https://openrouter.ai/docs",
		ModelPage:      "https://openrouter.ai/google/gemini-2.5-pro-preview",
		Icon:           "gemini",
	},
	{
		ID:             "openrouter:openai/gpt-4.1",
		Name:           "GPT-4.1",
		Provider:       "OpenRouter",
		ProviderID:     ProviderOpenRouter,
		BaseProviderID: "openai",
		Description:    "OpenAI's general purpose flagship routed through OpenRouter.",
		ContextWindow:  1047576,
		Vision:         true,
		Tools:          true,
		Speed:          "Fast",
		Intelligence:   "High",
		Website:        "https://openrouter.ai",
		APIDocs:        "https://openrouter.ai/docs",
		ModelPage:      "https://openrouter.ai/openai/gpt-4.1",
		Icon:           "openai",
	},
	{
		ID:             "openrouter:meta-llama/llama-4-maverick:free",
		Name:           "Llama 4 Maverick",
		Provider:       "OpenRouter",
		ProviderID:     ProviderOpenRouter,
		BaseProviderID: "meta",
		Description:    "Meta's open mixture-of-experts model on the free tier.",
		ContextWindow:  256000,
		Vision:         true,
		OpenSource:     true,
		Speed:          "Fast",
		Intelligence:   "Medium",
		Website:        "https://openrouter.ai",
		APIDocs:        "https://openrouter.ai/docs",
		ModelPage:      "https://openrouter.ai/meta-llama/llama-4-maverick:free",
		Icon:           "meta",
	},
}

// Catalog returns a copy of the statically known model descriptors, in their
// declared order.
func Catalog() []Descriptor {
	return slices.Clone(openRouterModels)
}

// Find looks up a descriptor by id in the static catalog.
func Find(id string) (Descriptor, bool) {
	for _, m := range openRouterModels {
		if m.ID == id {
			return m, true
		}
	}
	return Descriptor{}, false
}
