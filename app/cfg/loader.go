package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"golang.org/x/text/language"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Bounds for the scheduler interval, in minutes.
const (
	MinIntervalMinutes = 10
	MaxIntervalMinutes = 1440
)

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://blog.example.com)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key protecting control endpoints (optional)"`

	// Storage configuration
	Store              string `long:"store" env:"STORE" default:"sqlite" choice:"sqlite" choice:"leancloud" description:"Persistence backend for generated posts"`
	DBPath             string `long:"db-path" env:"DB_PATH" default:"./data/autoblog.db" description:"SQLite database file"`
	LeanCloudAppID     string `long:"leancloud-app-id" env:"LEANCLOUD_APP_ID" description:"LeanCloud application ID"`
	LeanCloudAppKey    string `long:"leancloud-app-key" env:"LEANCLOUD_APP_KEY" description:"LeanCloud application key"`
	LeanCloudServerURL string `long:"leancloud-server-url" env:"LEANCLOUD_SERVER_URL" description:"LeanCloud REST API server URL"`
	LeanCloudClass     string `long:"leancloud-class" env:"LEANCLOUD_CLASS" default:"BlogPost" description:"LeanCloud class holding generated posts"`

	// Generation configuration
	OpenAIAPIKey      string  `long:"openai-api-key" env:"OPENAI_API_KEY" description:"API key for the text completion provider (fallback template only when empty)"`
	OpenAIBaseURL     string  `long:"openai-base-url" env:"OPENAI_BASE_URL" description:"Base URL of an OpenAI compatible API"`
	OpenAIModel       string  `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-3.5-turbo" description:"Model used for article generation"`
	OpenAITemperature float64 `long:"openai-temperature" env:"OPENAI_TEMPERATURE" default:"0.7" description:"Sampling temperature"`
	OpenAIMaxTokens   int     `long:"openai-max-tokens" env:"OPENAI_MAX_TOKENS" default:"2000" description:"Maximum output tokens per article"`
	OpenAITimeout     int     `long:"openai-timeout" env:"OPENAI_TIMEOUT" default:"60" description:"Text completion request timeout in seconds"`
	ContentLanguage   string  `long:"content-language" env:"CONTENT_LANGUAGE" default:"zh-Hans" description:"BCP 47 tag of the language articles are written in"`

	// Topic sources
	TopicsDir        string   `long:"topics-dir" env:"TOPICS_DIR" default:"./topics" description:"Directory containing additional topic files (*.yml)"`
	TopicFeeds       []string `long:"topic-feed" env:"TOPIC_FEEDS" env-delim:"," description:"RSS/Atom feed URLs to import topics from"`
	TopicFeedLimit   int      `long:"topic-feed-limit" env:"TOPIC_FEED_LIMIT" default:"10" description:"Maximum topics imported per feed"`
	FetchReferences  bool     `long:"fetch-references" env:"FETCH_REFERENCES" description:"Fetch topic reference pages and include their text in prompts"`
	ReferenceTimeout int      `long:"reference-timeout" env:"REFERENCE_TIMEOUT" default:"15" description:"Reference page and topic feed fetch timeout in seconds"`

	// Scheduler configuration
	AutoStart         bool `long:"auto-start" env:"AUTO_BLOG_ENABLED" description:"Start the scheduler when the server starts"`
	SchedulerInterval int  `long:"scheduler-interval" env:"AUTO_BLOG_INTERVAL" default:"60" description:"Scheduler interval in minutes (10-1440)"`
	RestartDelay      int  `long:"restart-delay" env:"RESTART_DELAY" default:"1000" description:"Delay between stop and start on restart, in milliseconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"AutoBlog/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Shanghai)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses the given command-line arguments together with the environment.
// It returns a nil Cfg and nil error when help was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:               raw.Port,
		BaseUrl:            strings.TrimRight(raw.BaseUrl, "/"),
		APIAccessKey:       raw.APIAccessKey,
		Store:              raw.Store,
		DBPath:             raw.DBPath,
		LeanCloudAppID:     raw.LeanCloudAppID,
		LeanCloudAppKey:    raw.LeanCloudAppKey,
		LeanCloudServerURL: strings.TrimRight(raw.LeanCloudServerURL, "/"),
		LeanCloudClass:     raw.LeanCloudClass,
		OpenAIAPIKey:       raw.OpenAIAPIKey,
		OpenAIBaseURL:      raw.OpenAIBaseURL,
		OpenAIModel:        raw.OpenAIModel,
		OpenAITemperature:  raw.OpenAITemperature,
		OpenAIMaxTokens:    raw.OpenAIMaxTokens,
		OpenAITimeout:      time.Duration(raw.OpenAITimeout) * time.Second,
		ContentLanguage:    raw.ContentLanguage,
		TopicsDir:          raw.TopicsDir,
		TopicFeeds:         compact(raw.TopicFeeds),
		TopicFeedLimit:     raw.TopicFeedLimit,
		FetchReferences:    raw.FetchReferences,
		ReferenceTimeout:   time.Duration(raw.ReferenceTimeout) * time.Second,
		AutoStart:          raw.AutoStart,
		SchedulerInterval:  raw.SchedulerInterval,
		RestartDelay:       time.Duration(raw.RestartDelay) * time.Millisecond,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.Store == StoreLeanCloud {
		requiredFields := map[string]string{
			"leancloud app id":     cfg.LeanCloudAppID,
			"leancloud app key":    cfg.LeanCloudAppKey,
			"leancloud server url": cfg.LeanCloudServerURL,
		}
		for fieldName, fieldValue := range requiredFields {
			if fieldValue == "" {
				return fmt.Errorf("%s is required when store is %s", fieldName, StoreLeanCloud)
			}
		}
	}

	if cfg.SchedulerInterval < MinIntervalMinutes || cfg.SchedulerInterval > MaxIntervalMinutes {
		return fmt.Errorf("scheduler interval must be between %d and %d minutes, got %d",
			MinIntervalMinutes, MaxIntervalMinutes, cfg.SchedulerInterval)
	}

	if _, err := language.Parse(cfg.ContentLanguage); err != nil {
		return fmt.Errorf("content language %q is not a valid language tag: %w", cfg.ContentLanguage, err)
	}

	nonNegativeFields := map[string]int{
		"openai max tokens": cfg.OpenAIMaxTokens,
		"topic feed limit":  cfg.TopicFeedLimit,
	}
	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	return nil
}

func compact(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
