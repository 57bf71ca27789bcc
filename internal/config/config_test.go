package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %q", cfg.Server.Port)
	}
	if cfg.Thresholds.HighAcceptance != 0.7 || cfg.Thresholds.LowAcceptance != 0.3 {
		t.Errorf("default thresholds wrong: %+v", cfg.Thresholds)
	}
	if len(cfg.LLM.Models) == 0 {
		t.Error("model fallback list should have defaults")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("LLM_MODELS", "model-a, model-b,,model-c")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("HIGH_ACCEPTANCE_CUTOFF", "0.8")
	t.Setenv("CONFIDENCE_SAMPLE_CUT", "10")

	cfg := Load()

	if cfg.Server.Port != "9999" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if len(cfg.LLM.Models) != 3 || cfg.LLM.Models[2] != "model-c" {
		t.Errorf("models = %v", cfg.LLM.Models)
	}
	if cfg.LLM.Timeout != 45*time.Second {
		t.Errorf("timeout = %v", cfg.LLM.Timeout)
	}
	if cfg.Thresholds.HighAcceptance != 0.8 || cfg.Thresholds.ConfidenceSampleCut != 10 {
		t.Errorf("threshold overrides wrong: %+v", cfg.Thresholds)
	}
}
