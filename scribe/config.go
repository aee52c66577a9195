package scribe

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/scribe/chunk"
	"github.com/hazyhaar/scribe/embed"
	"github.com/hazyhaar/scribe/summarize"
	"github.com/hazyhaar/scribe/transcript"
)

// Config configures the scribe service.
type Config struct {
	// DBPath is the SQLite file holding the knowledge base.
	DBPath string `json:"db_path" yaml:"db_path"`

	// Chunk bounds the transcript windowing strategy.
	Chunk chunk.Options `json:"chunk" yaml:"chunk"`

	// Transcript configures the caption resolver. An empty endpoint
	// disables ingestion; queries still work.
	Transcript transcript.Config `json:"transcript" yaml:"transcript"`

	// Embed configures the embedding server. An empty endpoint falls back
	// to zero vectors (lexical search only, in effect).
	Embed embed.Config `json:"embed" yaml:"embed"`

	// Summarize configures the summarization model. An empty endpoint
	// falls back to a truncated-transcript summary.
	Summarize summarize.Config `json:"summarize" yaml:"summarize"`
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "scribe.db"
	}
	if c.Transcript.Timeout <= 0 {
		c.Transcript.Timeout = 60 * time.Second
	}
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

// LoadConfig reads a YAML config file. Missing keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scribe: read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("scribe: parse config %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, nil
}
