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
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultLanguage    = "en"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the form autofill MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Form document configuration
	FormDirectory string
	RulesFile     string // optional YAML file with custom field kind rules

	// Collaborator configuration
	DefaultLanguage   string
	OpenAIAPIKey      string
	OpenAIEndpoint    string
	OpenAIModel       string
	LibreTranslateURL string
	MyMemoryURL       string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum form file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio, // Default to stdio mode for MCP compatibility
		Host:            DefaultHost,
		Port:            DefaultPort,
		FormDirectory:   currentDir,
		DefaultLanguage: DefaultLanguage,
		Version:         "1.0.0",
		ServerName:      "medpull",
		LogLevel:        DefaultLogLevel,
		MaxFileSize:     DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.FormDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.FormDirectory); err == nil {
			cfg.FormDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("MEDPULL")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.FormDirectory)
	viper.SetDefault("rules", cfg.RulesFile)
	viper.SetDefault("language", cfg.DefaultLanguage)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)

	// Credentials and endpoints come from the environment only
	viper.SetDefault("openai_api_key", "")
	viper.SetDefault("openai_endpoint", "")
	viper.SetDefault("openai_model", "")
	viper.SetDefault("libretranslate_url", "")
	viper.SetDefault("mymemory_url", "")
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.FormDirectory, "Directory containing form documents")
	pflag.String("rules", cfg.RulesFile, "Optional YAML file with custom field kind rules")
	pflag.String("language", cfg.DefaultLanguage, "Default interface language code (en, es, fr, ...)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum form file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("rules", pflag.Lookup("rules"))
	_ = viper.BindPFlag("language", pflag.Lookup("language"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMedPull - A Model Context Protocol server for understanding and filling out forms\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/forms                    "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/forms      # server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --language=es --rules=rules.yaml        # Spanish defaults, custom rules\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_MODE               Server mode\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_HOST               Server host\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_PORT               Server port\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_DIR                Form directory\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_RULES              Custom kind rules file\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_LANGUAGE           Default language code\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_LOGLEVEL           Log level\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_MAXFILESIZE        Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_OPENAI_API_KEY     API key for the chat collaborator (optional)\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_OPENAI_ENDPOINT    Chat completions endpoint override\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_OPENAI_MODEL       Chat model override\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_LIBRETRANSLATE_URL LibreTranslate endpoint override\n")
		fmt.Fprintf(os.Stderr, "  MEDPULL_MYMEMORY_URL       MyMemory endpoint override\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.FormDirectory = viper.GetString("dir")
	cfg.RulesFile = viper.GetString("rules")
	cfg.DefaultLanguage = viper.GetString("language")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.OpenAIAPIKey = viper.GetString("openai_api_key")
	cfg.OpenAIEndpoint = viper.GetString("openai_endpoint")
	cfg.OpenAIModel = viper.GetString("openai_model")
	cfg.LibreTranslateURL = viper.GetString("libretranslate_url")
	cfg.MyMemoryURL = viper.GetString("mymemory_url")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate form directory
	if c.FormDirectory == "" {
		return errors.New("form directory cannot be empty")
	}

	// Check if form directory exists, create if it doesn't
	if _, err := os.Stat(c.FormDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.FormDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create form directory %s: %w", c.FormDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access form directory %s: %w", c.FormDirectory, err)
	}

	// A rules file is optional but must exist when named
	if c.RulesFile != "" {
		if _, err := os.Stat(c.RulesFile); err != nil {
			return fmt.Errorf("cannot access rules file %s: %w", c.RulesFile, err)
		}
	}

	if c.DefaultLanguage == "" {
		return errors.New("default language cannot be empty")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
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

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, FormDirectory: %s, Language: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.FormDirectory, c.DefaultLanguage, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
