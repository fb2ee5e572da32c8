package feed

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGrabAmount = 15
	MaxGrabAmount     = 100 // reddit listing limit
	DefaultTimeout    = 30
)

// ConfigCache holds the source and keyword configuration loaded once at
// startup. Nothing mutates it afterwards.
type ConfigCache struct {
	sourcesFile  string
	keywordsFile string
	sources      []Source
	keywords     []string
}

func NewConfigCache(sourcesFile, keywordsFile string) *ConfigCache {
	return &ConfigCache{
		sourcesFile:  sourcesFile,
		keywordsFile: keywordsFile,
	}
}

func (cc *ConfigCache) Run() error {
	sources, err := cc.parseSources(cc.sourcesFile)
	if err != nil {
		return fmt.Errorf("error loading %s: %w", cc.sourcesFile, err)
	}

	keywords, err := cc.parseKeywords(cc.keywordsFile)
	if err != nil {
		return fmt.Errorf("error loading %s: %w", cc.keywordsFile, err)
	}

	cc.sources = sources
	cc.keywords = keywords

	for _, source := range sources {
		slog.Debug("Source loaded", "source", source.ID, "kind", source.Kind, "enabled", source.Enabled, "grab_amount", source.GrabAmount, "save_to_db", source.SaveToDB)
	}
	slog.Debug("Keywords loaded", "count", len(keywords))

	return nil
}

func (cc *ConfigCache) GetEnabledSources() []Source {
	enabled := make([]Source, 0, len(cc.sources))
	for _, source := range cc.sources {
		if source.Enabled {
			enabled = append(enabled, source)
		}
	}
	return enabled
}

func (cc *ConfigCache) GetKeywords() []string {
	keywordsCopy := make([]string, len(cc.keywords))
	copy(keywordsCopy, cc.keywords)
	return keywordsCopy
}

func (cc *ConfigCache) GetSourceCount() int {
	return len(cc.sources)
}

// NeedsKind reports whether any enabled source is of the given kind.
func (cc *ConfigCache) NeedsKind(kind SourceKind) bool {
	for _, source := range cc.GetEnabledSources() {
		if source.Kind == kind {
			return true
		}
	}
	return false
}

func (cc *ConfigCache) parseSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file SourceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	seen := make(map[string]bool, len(file.Sources))
	for i := range file.Sources {
		source := &file.Sources[i]

		if source.Kind == "" {
			source.Kind = SourceKindReddit
		}
		if source.GrabAmount == 0 {
			source.GrabAmount = DefaultGrabAmount
		}
		if source.Timeout == 0 {
			source.Timeout = DefaultTimeout
		}

		if err := cc.validateSource(source); err != nil {
			return nil, fmt.Errorf("invalid source at index %d: %w", i, err)
		}
		if seen[source.ID] {
			return nil, fmt.Errorf("duplicate source id: %s", source.ID)
		}
		seen[source.ID] = true
	}

	return file.Sources, nil
}

func (cc *ConfigCache) validateSource(source *Source) error {
	if source.ID == "" {
		return fmt.Errorf("source id is required")
	}

	switch source.Kind {
	case SourceKindReddit:
	case SourceKindRSS:
		if source.URL == "" {
			return fmt.Errorf("source %s: url is required for rss sources", source.ID)
		}
	default:
		return fmt.Errorf("source %s: unknown kind %q", source.ID, source.Kind)
	}

	if len(source.AcceptedTags) == 0 {
		return fmt.Errorf("source %s: at least one accepted flair is required", source.ID)
	}

	if source.GrabAmount < 0 || source.GrabAmount > MaxGrabAmount {
		return fmt.Errorf("source %s: grab amount must be between 1 and %d", source.ID, MaxGrabAmount)
	}

	if source.Timeout < 0 {
		return fmt.Errorf("source %s: timeout must be non-negative", source.ID)
	}

	if source.NotifyStoredOnly && !source.SaveToDB {
		return fmt.Errorf("source %s: notify_stored_only requires save_to_db", source.ID)
	}

	return nil
}

func (cc *ConfigCache) parseKeywords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file KeywordFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	keywords := make([]string, 0, len(file.Keywords))
	for i, keyword := range file.Keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			return nil, fmt.Errorf("keyword at index %d is empty", i)
		}
		keywords = append(keywords, keyword)
	}

	return keywords, nil
}
