// Package config loads the application configuration from defaults,
// command-line flags, an optional .env file and environment variables,
// in increasing order of priority, and validates the result.
package config

import (
	"flag"
	"log"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config describes the whole configuration surface of the service.
// SessionSigningSecretKey has no default on purpose: the session signing
// secret must always be supplied externally.
type Config struct {
	RunAddr                 string `env:"SERVER_ADDRESS" validate:"hostname_port"`
	ShortURLBase            string `env:"BASE_URL" validate:"url"`
	LogLevel                string `env:"LOG_LEVEL" validate:"loglevel"`
	SessionCookieName       string `env:"SESSION_COOKIE_NAME" validate:"required"`
	SessionSigningSecretKey string `env:"SESSION_SIGNING_KEY" validate:"required,base64url"`
}

var defaultConfig = Config{
	RunAddr:           ":8080",
	ShortURLBase:      "http://localhost:8080",
	LogLevel:          "info",
	SessionCookieName: "tinyapp_session",
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

// InitOption customizes the behavior of New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing disables command-line flag parsing,
// which is required when New is called from tests.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds a validated Config from defaults, flags, .env and environment.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := defaultConfig

	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.ShortURLBase, "b", values.ShortURLBase, "base address of the resulting shortened URL")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.StringVar(&values.SessionCookieName, "c", values.SessionCookieName, "name of the session cookie")
		flag.StringVar(&values.SessionSigningSecretKey, "s", values.SessionSigningSecretKey, "base64url-encoded session signing key")
		flag.Parse()
	}

	var valuesFromEnv Config
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}

	if valuesFromEnv.RunAddr != "" {
		values.RunAddr = valuesFromEnv.RunAddr
	}

	if valuesFromEnv.ShortURLBase != "" {
		values.ShortURLBase = valuesFromEnv.ShortURLBase
	}

	if valuesFromEnv.LogLevel != "" {
		values.LogLevel = valuesFromEnv.LogLevel
	}

	if valuesFromEnv.SessionCookieName != "" {
		values.SessionCookieName = valuesFromEnv.SessionCookieName
	}

	if valuesFromEnv.SessionSigningSecretKey != "" {
		values.SessionSigningSecretKey = valuesFromEnv.SessionSigningSecretKey
	}

	if err := values.validate(); err != nil {
		return nil, err
	}

	return &values, nil
}
