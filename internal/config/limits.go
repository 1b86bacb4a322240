package config

import "fmt"

// CoreLimits enforces system-wide resource constraints.
type CoreLimits struct {
	MaxTotalMemoryMB      int `yaml:"max_total_memory_mb" json:"max_total_memory_mb"`
	MaxConcurrentShards   int `yaml:"max_concurrent_shards" json:"max_concurrent_shards"`       // reserved: concurrent planning runs
	MaxConcurrentAPICalls int `yaml:"max_concurrent_api_calls" json:"max_concurrent_api_calls"` // max simultaneous embedding backend calls
	MaxSessionDurationMin int `yaml:"max_session_duration_min" json:"max_session_duration_min"`
	MaxFactsInKernel      int `yaml:"max_facts_in_kernel" json:"max_facts_in_kernel"`         // reasoner fact-store ceiling
	MaxDerivedFactsLimit  int `yaml:"max_derived_facts_limit" json:"max_derived_facts_limit"` // reasoner evaluation gas limit
}

// ValidateCoreLimits checks that core limits are within acceptable ranges.
func (c *Config) ValidateCoreLimits() error {
	if c.CoreLimits.MaxTotalMemoryMB < 512 {
		return fmt.Errorf("max_total_memory_mb must be >= 512 MB")
	}
	if c.CoreLimits.MaxFactsInKernel < 1000 {
		return fmt.Errorf("max_facts_in_kernel must be >= 1000")
	}
	if c.CoreLimits.MaxDerivedFactsLimit < 1000 {
		return fmt.Errorf("max_derived_facts_limit must be >= 1000")
	}
	return nil
}

// EnforceCoreLimits returns enforcement parameters for the reasoner.
func (c *Config) EnforceCoreLimits() map[string]int {
	return map[string]int{
		"max_facts":   c.CoreLimits.MaxFactsInKernel,
		"max_derived": c.CoreLimits.MaxDerivedFactsLimit,
		"max_memory_mb": c.CoreLimits.MaxTotalMemoryMB,
	}
}
