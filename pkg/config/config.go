package config

import "os"

// FlagPrefix keeps the toolkit's environment variables from clashing with
// other tools.
const FlagPrefix = "INC_"

// Config holds toolkit configuration.
type Config struct {
	EnvironmentConfigPath string
	FrameworkConfigPath   string
	EnvironmentName       string
	LogLevel              string
	OTLPEndpoint          string
}

// Load loads configuration from environment variables.
func Load() *Config {
	envConfigPath := os.Getenv(FlagPrefix + "ENVIRONMENT_CONFIG_PATH")
	if envConfigPath == "" {
		envConfigPath = "config/environment_config.json"
	}

	frameworkConfigPath := os.Getenv(FlagPrefix + "FRAMEWORK_CONFIG_PATH")
	if frameworkConfigPath == "" {
		frameworkConfigPath = "config/framework_config.json"
	}

	logLevel := os.Getenv("LOGLEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	return &Config{
		EnvironmentConfigPath: envConfigPath,
		FrameworkConfigPath:   frameworkConfigPath,
		EnvironmentName:       os.Getenv(FlagPrefix + "ENVIRONMENT_NAME"),
		LogLevel:              logLevel,
		// Telemetry is off unless an endpoint is given.
		OTLPEndpoint: os.Getenv("VAULT_OTLP_ENDPOINT"),
	}
}
