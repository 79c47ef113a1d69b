package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 8080
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 25 * 1024 * 1024 // 25MB upload cap

	DefaultTemplatePath = "modelo_hemo.pdf"
	DefaultOCRLanguages = "por+eng"

	// Heuristic defaults. These are empirical tuning constants; the source
	// variants of this tool disagreed on them, so they are flags.
	DefaultLineWindow    = 4
	DefaultLineTolerance = 3.5
	DefaultBandTolerance = 3.0
)

// Config holds all configuration for the ficha generator.
type Config struct {
	// Server configuration
	Host string
	Port int

	// Template and upload configuration
	TemplatePath string
	MaxFileSize  int64

	// OCR configuration
	OCRLanguages string

	// Extraction heuristics
	LineWindow    int
	LineTolerance float64
	BandTolerance float64

	// Application configuration
	Version  string
	LogLevel string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		TemplatePath:  DefaultTemplatePath,
		MaxFileSize:   DefaultMaxFileSize,
		OCRLanguages:  DefaultOCRLanguages,
		LineWindow:    DefaultLineWindow,
		LineTolerance: DefaultLineTolerance,
		BandTolerance: DefaultBandTolerance,
		Version:       "1.0.0",
		LogLevel:      DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.TemplatePath != "" {
		if expandedPath, err := filepath.Abs(cfg.TemplatePath); err == nil {
			cfg.TemplatePath = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("FICHAGEN")
	viper.AutomaticEnv()

	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("template", cfg.TemplatePath)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("ocrlangs", cfg.OCRLanguages)
	viper.SetDefault("linewindow", cfg.LineWindow)
	viper.SetDefault("linetolerance", cfg.LineTolerance)
	viper.SetDefault("bandtolerance", cfg.BandTolerance)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("host", cfg.Host, "Server host address")
	pflag.Int("port", cfg.Port, "Server port")
	pflag.String("template", cfg.TemplatePath, "Path to the HEMOBA AcroForm template PDF")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum upload size in bytes")
	pflag.String("ocrlangs", cfg.OCRLanguages, "Tesseract languages for photo uploads (e.g. 'por+eng')")
	pflag.Int("linewindow", cfg.LineWindow, "Lines scanned below a bare label for its value")
	pflag.Float64("linetolerance", cfg.LineTolerance, "Vertical tolerance when clustering tokens into lines")
	pflag.Float64("bandtolerance", cfg.BandTolerance, "Vertical tolerance of the value band right of a label")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("template", pflag.Lookup("template"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("ocrlangs", pflag.Lookup("ocrlangs"))
	_ = viper.BindPFlag("linewindow", pflag.Lookup("linewindow"))
	_ = viper.BindPFlag("linetolerance", pflag.Lookup("linetolerance"))
	_ = viper.BindPFlag("bandtolerance", pflag.Lookup("bandtolerance"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFicha HEMOBA generator - extract AIH intake data and fill the request form\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                      # serve on 127.0.0.1:8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --template=/srv/modelo_hemo.pdf      # custom output template\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --host=0.0.0.0 --port=8081           # serve on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FICHAGEN_HOST           Server host\n")
		fmt.Fprintf(os.Stderr, "  FICHAGEN_PORT           Server port\n")
		fmt.Fprintf(os.Stderr, "  FICHAGEN_TEMPLATE       Template PDF path\n")
		fmt.Fprintf(os.Stderr, "  FICHAGEN_MAXFILESIZE    Maximum upload size\n")
		fmt.Fprintf(os.Stderr, "  FICHAGEN_OCRLANGS       Tesseract languages\n")
		fmt.Fprintf(os.Stderr, "  FICHAGEN_LOGLEVEL       Log level\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.TemplatePath = viper.GetString("template")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.OCRLanguages = viper.GetString("ocrlangs")
	cfg.LineWindow = viper.GetInt("linewindow")
	cfg.LineTolerance = viper.GetFloat64("linetolerance")
	cfg.BandTolerance = viper.GetFloat64("bandtolerance")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if c.TemplatePath == "" {
		return errors.New("template path cannot be empty")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum upload size must be positive")
	}

	if c.LineWindow < 1 {
		return errors.New("line window must be at least 1")
	}
	if c.LineTolerance <= 0 {
		return errors.New("line tolerance must be positive")
	}
	if c.BandTolerance <= 0 {
		return errors.New("band tolerance must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Host: %s, Port: %d, TemplatePath: %s, MaxFileSize: %d, LogLevel: %s}",
		c.Host, c.Port, c.TemplatePath, c.MaxFileSize, c.LogLevel)
}
