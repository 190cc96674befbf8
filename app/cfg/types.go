package cfg

import "time"

const (
	StoreSQLite    = "sqlite"
	StoreLeanCloud = "leancloud"
)

type Cfg struct {
	// Server configuration
	Port         string
	BaseUrl      string
	APIAccessKey string

	// Storage configuration
	Store              string
	DBPath             string
	LeanCloudAppID     string
	LeanCloudAppKey    string
	LeanCloudServerURL string
	LeanCloudClass     string

	// Generation configuration
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAITemperature float64
	OpenAIMaxTokens   int
	OpenAITimeout     time.Duration
	ContentLanguage   string

	// Topic sources
	TopicsDir        string
	TopicFeeds       []string
	TopicFeedLimit   int
	FetchReferences  bool
	ReferenceTimeout time.Duration

	// Scheduler configuration
	AutoStart         bool
	SchedulerInterval int // minutes
	RestartDelay      time.Duration

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
