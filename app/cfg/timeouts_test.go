package cfg

import (
	"testing"
	"time"
)

func TestGenerationTimeoutCoversEveryAttempt(t *testing.T) {
	cfg := &Cfg{OpenAITimeout: 60 * time.Second, ReferenceTimeout: 15 * time.Second}

	// 3 attempts of 60s plus 2 backoffs of 8s
	if got, want := cfg.GenerationTimeout(), 196*time.Second; got != want {
		t.Errorf("Expected generation timeout %v, got %v", want, got)
	}

	cfg.FetchReferences = true
	if got, want := cfg.GenerationTimeout(), 211*time.Second; got != want {
		t.Errorf("Expected generation timeout with references %v, got %v", want, got)
	}
}

func TestWriteTimeoutOutlastsGeneration(t *testing.T) {
	cfg, err := LoadArgs([]string{"--fetch-references"})
	if err != nil {
		t.Fatal(err)
	}

	worstCase := time.Duration(OpenAIMaxRetries+1)*cfg.OpenAITimeout +
		time.Duration(OpenAIMaxRetries)*RetryBackoff + cfg.ReferenceTimeout

	if cfg.GenerationTimeout() < worstCase {
		t.Errorf("Generation timeout %v is shorter than the worst case %v", cfg.GenerationTimeout(), worstCase)
	}
	if cfg.WriteTimeout() <= cfg.GenerationTimeout() {
		t.Errorf("Write timeout %v must exceed generation timeout %v", cfg.WriteTimeout(), cfg.GenerationTimeout())
	}
	if cfg.WriteTimeout()-cfg.GenerationTimeout() != PersistMargin {
		t.Errorf("Expected write timeout to leave %v for persistence", PersistMargin)
	}
}
