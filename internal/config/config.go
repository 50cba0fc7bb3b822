// Package config loads the generator's configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "pagegen.yaml"

// EnvPrefix prefixes every environment variable that overrides a
// configuration value.
const EnvPrefix = "PAGEGEN_"

// ErrNoBaseURL is returned by Validate when no base URL is set.
var ErrNoBaseURL = errors.New("base_url is required")

// Config is the generator configuration.
type Config struct {
	// Data is the record source: a .json, .yaml/.yml or SQLite file.
	Data string `yaml:"data"`
	// Table is the table read from SQLite record sources.
	Table string `yaml:"table"`
	// Template is the page template file. An empty value selects the
	// built-in template.
	Template string `yaml:"template"`

	// Root is the site root. Pages are written to Root/Prefix/<slug>/.
	Root    string `yaml:"root"`
	Prefix  string `yaml:"prefix"`
	Sitemap string `yaml:"sitemap"`
	BaseURL string `yaml:"base_url"`

	Workers        int      `yaml:"workers"`
	KeywordsField  string   `yaml:"keywords_field"`
	MarkdownFields []string `yaml:"markdown_fields,omitempty"`

	// Inspect logs a warning for every page left with unrendered
	// template tags.
	Inspect bool `yaml:"inspect"`

	MetricsFile string `yaml:"metrics_file,omitempty"`
	Addr        string `yaml:"addr"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the configuration used for anything a file doesn't
// set.
func Default() *Config {
	c := new(Config)
	c.setDefaults()
	c.Template = "templates/page.html"
	return c
}

func (c *Config) setDefaults() {
	if c.Data == "" {
		c.Data = "data/pages.json"
	}
	if c.Table == "" {
		c.Table = "pages"
	}
	if c.Root == "" {
		c.Root = "."
	}
	if c.Prefix == "" {
		c.Prefix = "programmatic"
	}
	if c.Sitemap == "" {
		c.Sitemap = "sitemap.xml"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.KeywordsField == "" {
		c.KeywordsField = "secondaryKeywords"
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load reads the configuration at path. A missing file yields the
// defaults. Variables from a .env file in the working directory are
// added to the environment without replacing existing ones, and
// PAGEGEN_* variables then override values from the file.
func Load(path string) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %q: %w", path, err)
	default:
		err = yaml.Unmarshal(data, c)
		if err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	err = c.applyEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	c.setDefaults()
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"DATA":           &c.Data,
		"TABLE":          &c.Table,
		"TEMPLATE":       &c.Template,
		"ROOT":           &c.Root,
		"PREFIX":         &c.Prefix,
		"SITEMAP":        &c.Sitemap,
		"BASE_URL":       &c.BaseURL,
		"KEYWORDS_FIELD": &c.KeywordsField,
		"METRICS_FILE":   &c.MetricsFile,
		"ADDR":           &c.Addr,
		"LOG_LEVEL":      &c.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvPrefix + "MARKDOWN_FIELDS"); ok {
		c.MarkdownFields = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var fields []string
	for _, f := range strings.Split(v, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Validate reports configuration that can't produce a build.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}
	if c.Data == "" {
		return errors.New("data is required")
	}
	_, err := c.Level()
	return err
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
