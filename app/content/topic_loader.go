package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TopicLoader reads extra catalog topics from *.yml files in a directory.
type TopicLoader struct {
	topicsDir string
}

type topicFile struct {
	Topics []Topic `yaml:"topics"`
}

func NewTopicLoader(topicsDir string) *TopicLoader {
	return &TopicLoader{topicsDir: topicsDir}
}

func (l *TopicLoader) Run() ([]Topic, error) {
	if _, err := os.Stat(l.topicsDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.topicsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}

	var topics []Topic
	for _, file := range files {
		loaded, err := l.parseFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Topics loaded", "file", filepath.Base(file), "count", len(loaded))
		topics = append(topics, loaded...)
	}

	return topics, nil
}

func (l *TopicLoader) parseFile(file string) ([]Topic, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var parsed topicFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Category defaults to the file name without extension
	defaultCategory := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	for i := range parsed.Topics {
		topic := &parsed.Topics[i]
		topic.Title = strings.TrimSpace(topic.Title)
		if topic.Category == "" {
			topic.Category = defaultCategory
		}
		if topic.Title == "" {
			return nil, fmt.Errorf("topic at index %d: title is required", i)
		}
		if len(topic.Keywords) == 0 {
			return nil, fmt.Errorf("topic at index %d: at least one keyword is required", i)
		}
	}

	return parsed.Topics, nil
}
