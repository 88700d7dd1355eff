// Package llm provides the generation-model configuration and client
// abstraction used by the material generation chain.
package llm

// ModelTier represents the complexity/capability level of a model.
type ModelTier string

const (
	// TierLite is for simple tasks: short rewrites, summaries
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: tailoring, structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: cover letters, interview prep
	TierAdvanced ModelTier = "advanced"
)

// Config holds the per-tier model names.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini tier mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.0-flash-lite",
			TierStandard: "gemini-2.0-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a given tier, falling back to
// standard and then lite when the tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with one tier overridden.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{Models: make(map[ModelTier]string, len(c.Models))}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
