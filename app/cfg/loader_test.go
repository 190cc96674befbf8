package cfg

import (
	"strings"
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("Expected store '%s', got '%s'", StoreSQLite, cfg.Store)
	}
	if cfg.OpenAIModel != "gpt-3.5-turbo" {
		t.Errorf("Expected model 'gpt-3.5-turbo', got '%s'", cfg.OpenAIModel)
	}
	if cfg.OpenAITemperature != 0.7 {
		t.Errorf("Expected temperature 0.7, got %v", cfg.OpenAITemperature)
	}
	if cfg.OpenAIMaxTokens != 2000 {
		t.Errorf("Expected max tokens 2000, got %d", cfg.OpenAIMaxTokens)
	}
	if cfg.OpenAITimeout != 60*time.Second {
		t.Errorf("Expected timeout 60s, got %v", cfg.OpenAITimeout)
	}
	if cfg.SchedulerInterval != 60 {
		t.Errorf("Expected scheduler interval 60, got %d", cfg.SchedulerInterval)
	}
	if cfg.RestartDelay != time.Second {
		t.Errorf("Expected restart delay 1s, got %v", cfg.RestartDelay)
	}
	if cfg.AutoStart {
		t.Error("Expected auto start to be disabled by default")
	}
	if cfg.ContentLanguage != "zh-Hans" {
		t.Errorf("Expected content language 'zh-Hans', got '%s'", cfg.ContentLanguage)
	}
	if cfg.LeanCloudClass != "BlogPost" {
		t.Errorf("Expected LeanCloud class 'BlogPost', got '%s'", cfg.LeanCloudClass)
	}
}

func TestLoadArgsFromEnvironment(t *testing.T) {
	t.Setenv("AUTO_BLOG_ENABLED", "true")
	t.Setenv("AUTO_BLOG_INTERVAL", "30")
	t.Setenv("TOPIC_FEEDS", "https://a.example.com/feed.xml, ,https://b.example.com/rss")
	t.Setenv("BASE_URL", "https://blog.example.com/")

	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.AutoStart {
		t.Error("Expected auto start to be enabled")
	}
	if cfg.SchedulerInterval != 30 {
		t.Errorf("Expected scheduler interval 30, got %d", cfg.SchedulerInterval)
	}
	if len(cfg.TopicFeeds) != 2 {
		t.Fatalf("Expected 2 topic feeds, got %d: %v", len(cfg.TopicFeeds), cfg.TopicFeeds)
	}
	if cfg.TopicFeeds[1] != "https://b.example.com/rss" {
		t.Errorf("Unexpected second topic feed '%s'", cfg.TopicFeeds[1])
	}
	if cfg.BaseUrl != "https://blog.example.com" {
		t.Errorf("Expected trailing slash to be trimmed, got '%s'", cfg.BaseUrl)
	}
}

func TestLoadArgsRejectsIntervalOutOfBounds(t *testing.T) {
	for _, interval := range []string{"5", "1500"} {
		_, err := LoadArgs([]string{"--scheduler-interval", interval})
		if err == nil {
			t.Errorf("Expected error for interval %s", interval)
			continue
		}
		if !strings.Contains(err.Error(), "scheduler interval") {
			t.Errorf("Unexpected error for interval %s: %v", interval, err)
		}
	}
}

func TestLoadArgsLeanCloudRequiresCredentials(t *testing.T) {
	_, err := LoadArgs([]string{"--store", "leancloud", "--leancloud-app-id", "app"})
	if err == nil {
		t.Fatal("Expected error for incomplete LeanCloud configuration")
	}

	cfg, err := LoadArgs([]string{
		"--store", "leancloud",
		"--leancloud-app-id", "app",
		"--leancloud-app-key", "key",
		"--leancloud-server-url", "https://api.example.com/",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LeanCloudServerURL != "https://api.example.com" {
		t.Errorf("Expected trimmed server URL, got '%s'", cfg.LeanCloudServerURL)
	}
}

func TestLoadArgsRejectsInvalidLanguage(t *testing.T) {
	if _, err := LoadArgs([]string{"--content-language", "not a tag"}); err == nil {
		t.Error("Expected error for invalid content language")
	}
}

func TestLoadArgsHelp(t *testing.T) {
	cfg, err := LoadArgs([]string{"--help"})
	if err != nil {
		t.Fatalf("Expected no error for help, got %v", err)
	}
	if cfg != nil {
		t.Error("Expected nil configuration when help is requested")
	}
}
