package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/intradiff/internal/config"
	"github.com/zjrosen/intradiff/internal/log"
	"github.com/zjrosen/intradiff/internal/tracing"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply cannot race with the pager's input loop.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is the project-level config and the default target of
// `config init`.
const localConfigPath = ".intradiff/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	logFile   string
	cfg       config.Config

	closeLog      = func() {}
	traceProvider *tracing.Provider
)

var rootCmd = &cobra.Command{
	Use:   "intradiff",
	Short: "Render unified diffs with intraline highlighting",
	Long: `intradiff renders unified diffs as HTML or styled terminal text, marking
the words that changed inside each modified line on top of syntax
highlighting.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/intradiff/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write debug logs (also enabled by INTRADIFF_DEBUG)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"debug log path (default: debug.log, or INTRADIFF_LOG)")
}

func initConfig() {
	setDefaults(viper.GetViper(), config.Defaults())
	viper.SetEnvPrefix("INTRADIFF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .intradiff/config.yaml (current directory)
		// 2. ~/.config/intradiff/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "intradiff"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// Unlike an explicit --config, a missing default config is fine.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "intradiff: reading config: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// setDefaults registers every config key with viper so environment
// overrides and Unmarshal see the full tree.
func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("intraline.aligner", d.Intraline.Aligner)
	v.SetDefault("intraline.max_group_chars", d.Intraline.MaxGroupChars)
	v.SetDefault("intraline.line_slack", d.Intraline.LineSlack)
	v.SetDefault("intraline.myers_timeout", d.Intraline.MyersTimeout)
	v.SetDefault("render.mode", d.Render.Mode)
	v.SetDefault("render.fragment", d.Render.Fragment)
	v.SetDefault("render.style", d.Render.Style)
	v.SetDefault("render.title", d.Render.Title)
	v.SetDefault("render.remove.start_tag", d.Render.Remove.StartTag)
	v.SetDefault("render.remove.end_tag", d.Render.Remove.EndTag)
	v.SetDefault("render.remove.whole_line_class", d.Render.Remove.WholeLineClass)
	v.SetDefault("render.add.start_tag", d.Render.Add.StartTag)
	v.SetDefault("render.add.end_tag", d.Render.Add.EndTag)
	v.SetDefault("render.add.whole_line_class", d.Render.Add.WholeLineClass)
	v.SetDefault("highlight.enabled", d.Highlight.Enabled)
	v.SetDefault("highlight.cache_ttl", d.Highlight.CacheTTL)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// setup validates the loaded config and starts logging and tracing.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if debugFlag || os.Getenv("INTRADIFF_DEBUG") != "" {
		path := logFile
		if path == "" {
			path = os.Getenv("INTRADIFF_LOG")
		}
		if path == "" {
			path = "debug.log"
		}
		cleanup, err := log.Init(path, log.ParseLevel(cfg.Log.Level))
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		closeLog = cleanup
		log.Info(log.CatConfig, "intradiff starting",
			"command", cmd.Name(), "config", viper.ConfigFileUsed(), "logPath", path)
	}

	provider, err := tracing.NewProvider(tracingConfig(cfg.Tracing))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	traceProvider = provider
	return nil
}

func teardown() {
	if traceProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := traceProvider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "shutting down tracing", err)
		}
		cancel()
		traceProvider = nil
	}
	closeLog()
	closeLog = func() {}
}

func tracingConfig(t config.TracingConfig) tracing.Config {
	return tracing.Config{
		Enabled:      t.Enabled,
		Exporter:     t.Exporter,
		FilePath:     t.FilePath,
		OTLPEndpoint: t.OTLPEndpoint,
		SampleRate:   t.SampleRate,
		ServiceName:  t.ServiceName,
	}
}

// configPath is the file `config` subcommands edit: the loaded config, or
// the project-level default.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if cfgFile != "" {
		return cfgFile
	}
	return localConfigPath
}

// Execute runs the root command
func Execute() error {
	defer teardown()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
