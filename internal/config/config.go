// Package config provides configuration types and defaults for intradiff.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/intradiff/internal/intraline"
	"github.com/zjrosen/intradiff/internal/log"
)

// Config holds all configuration options for intradiff.
type Config struct {
	Intraline IntralineConfig `mapstructure:"intraline"`
	Render    RenderConfig    `mapstructure:"render"`
	Highlight HighlightConfig `mapstructure:"highlight"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Marks     []MarkConfig    `mapstructure:"marks"`
}

// IntralineConfig controls token alignment.
type IntralineConfig struct {
	// Aligner selects the alignment algorithm: "difflib" (default) or "myers".
	Aligner string `mapstructure:"aligner"`

	// MaxGroupChars is the group size above which alignment is skipped and
	// the whole group is marked as replaced. Zero disables the limit.
	// Default: 10240
	MaxGroupChars int `mapstructure:"max_group_chars"`

	// LineSlack is how far past a line's end a changed range may extend.
	// Default: 1
	LineSlack int `mapstructure:"line_slack"`

	// MyersTimeout bounds the myers aligner per group. Zero means no limit.
	MyersTimeout time.Duration `mapstructure:"myers_timeout"`
}

// MarkupConfig is the markup used for one side's changed spans.
type MarkupConfig struct {
	StartTag       string `mapstructure:"start_tag"`
	EndTag         string `mapstructure:"end_tag"`
	WholeLineClass string `mapstructure:"whole_line_class"`
}

// RenderConfig holds output options.
type RenderConfig struct {
	Mode     string       `mapstructure:"mode"` // "unified" (default) or "side-by-side"
	Fragment bool         `mapstructure:"fragment"`
	Style    string       `mapstructure:"style"` // chroma style for page CSS
	Title    string       `mapstructure:"title"`
	Remove   MarkupConfig `mapstructure:"remove"`
	Add      MarkupConfig `mapstructure:"add"`
}

// HighlightConfig holds syntax highlighting options.
type HighlightConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// WatchConfig holds --watch options.
type WatchConfig struct {
	// Debounce is how long the watcher waits after the last write before
	// re-rendering. Default: 100ms
	Debounce time.Duration `mapstructure:"debounce"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `mapstructure:"level"` // "debug", "info" (default), "warn", "error"
}

// MarkConfig highlights every occurrence of Text with Color.
type MarkConfig struct {
	Text  string `mapstructure:"text" yaml:"text"`
	Color string `mapstructure:"color" yaml:"color"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/intradiff/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// 1.0 = all traces, 0.1 = 10% of traces
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "intradiff"
	ServiceName string `mapstructure:"service_name"`
}

// DefaultWatchDebounce is the default quiet period before a reload.
const DefaultWatchDebounce = 100 * time.Millisecond

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/intradiff/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "intradiff", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Intraline: IntralineConfig{
			Aligner:       intraline.AlignerDifflib,
			MaxGroupChars: intraline.DefaultMaxGroupChars,
			LineSlack:     intraline.DefaultLineSlack,
		},
		Render: RenderConfig{
			Mode:  "unified",
			Style: "github",
			Title: "intradiff",
			Remove: MarkupConfig{
				StartTag:       intraline.DefaultRemoveStartTag,
				EndTag:         intraline.DefaultRemoveEndTag,
				WholeLineClass: "del-whole",
			},
			Add: MarkupConfig{
				StartTag:       intraline.DefaultAddStartTag,
				EndTag:         intraline.DefaultAddEndTag,
				WholeLineClass: "ins-whole",
			},
		},
		Highlight: HighlightConfig{
			Enabled:  true,
			CacheTTL: 10 * time.Minute,
		},
		Watch: WatchConfig{
			Debounce: DefaultWatchDebounce,
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "intradiff",
		},
	}
}

// Validate checks every section of c.
func Validate(c Config) error {
	validators := []func(Config) error{
		func(c Config) error { return ValidateIntraline(c.Intraline) },
		func(c Config) error { return ValidateRender(c.Render) },
		func(c Config) error { return ValidateHighlight(c.Highlight) },
		func(c Config) error { return ValidateWatch(c.Watch) },
		func(c Config) error { return ValidateMarks(c.Marks) },
		func(c Config) error { return ValidateTracing(c.Tracing) },
	}
	for _, v := range validators {
		if err := v(c); err != nil {
			return err
		}
	}
	return nil
}

// ValidateIntraline checks alignment settings.
func ValidateIntraline(cfg IntralineConfig) error {
	switch cfg.Aligner {
	case "", intraline.AlignerDifflib, intraline.AlignerMyers:
	default:
		return fmt.Errorf("intraline.aligner must be %q or %q, got %q",
			intraline.AlignerDifflib, intraline.AlignerMyers, cfg.Aligner)
	}
	if cfg.MaxGroupChars < 0 {
		return fmt.Errorf("intraline.max_group_chars must not be negative, got %d", cfg.MaxGroupChars)
	}
	if cfg.LineSlack < 0 {
		return fmt.Errorf("intraline.line_slack must not be negative, got %d", cfg.LineSlack)
	}
	if cfg.MyersTimeout < 0 {
		return fmt.Errorf("intraline.myers_timeout must not be negative, got %s", cfg.MyersTimeout)
	}
	return nil
}

// ValidateRender checks output settings. A side's start and end tags must be
// set together.
func ValidateRender(cfg RenderConfig) error {
	switch cfg.Mode {
	case "", "unified", "side-by-side":
	default:
		return fmt.Errorf("render.mode must be \"unified\" or \"side-by-side\", got %q", cfg.Mode)
	}
	for name, m := range map[string]MarkupConfig{"remove": cfg.Remove, "add": cfg.Add} {
		if (m.StartTag == "") != (m.EndTag == "") {
			return fmt.Errorf("render.%s: start_tag and end_tag must be set together", name)
		}
	}
	return nil
}

// ValidateHighlight checks syntax highlighting settings.
func ValidateHighlight(cfg HighlightConfig) error {
	if cfg.CacheTTL < 0 {
		return fmt.Errorf("highlight.cache_ttl must not be negative, got %s", cfg.CacheTTL)
	}
	return nil
}

// ValidateWatch checks watch settings.
func ValidateWatch(cfg WatchConfig) error {
	if cfg.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Debounce)
	}
	return nil
}

// ValidateMarks checks that every mark has both text and color.
func ValidateMarks(marks []MarkConfig) error {
	for i, m := range marks {
		if m.Text == "" {
			return fmt.Errorf("mark %d: text is required", i)
		}
		if m.Color == "" {
			return fmt.Errorf("mark %d (%q): color is required", i, m.Text)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	// Validate SampleRate is in range [0.0, 1.0]
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# intradiff configuration

intraline:
  # Alignment algorithm: difflib (longest matching blocks) or myers
  aligner: difflib
  # Groups with more characters than this are marked as wholly replaced
  # without alignment. 0 disables the limit.
  max_group_chars: 10240
  # How far past the end of a line a changed span may extend
  line_slack: 1
  # Time limit for the myers aligner (0 = none)
  myers_timeout: 0s

render:
  # unified or side-by-side
  mode: unified
  # Emit only the diff tables, without <html>/<head>/<style>
  fragment: false
  # Chroma style used for syntax highlighting CSS
  style: github
  title: intradiff
  remove:
    start_tag: "<del>"
    end_tag: "</del>"
    whole_line_class: del-whole
  add:
    start_tag: "<ins>"
    end_tag: "</ins>"
    whole_line_class: ins-whole

highlight:
  enabled: true
  cache_ttl: 10m

watch:
  # Quiet period after the last write before re-rendering
  debounce: 100ms

log:
  # debug, info, warn or error (logging is only on with --debug)
  level: info

# Text to highlight wherever it appears
# marks:
#   - text: TODO
#     color: "#ffff00"

# Distributed tracing (OpenTelemetry)
tracing:
  enabled: false
  # none, file, stdout or otlp
  exporter: file
  # file_path: ~/.config/intradiff/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: intradiff

# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
