package app

import (
	"io"
	"os"

	"nsquery/internal/config"
	"nsquery/internal/errors"
	"nsquery/internal/logging"
	"nsquery/internal/ui"
)

// Context carries what every command needs: settings from the environment,
// the logger and the process streams.
type Context struct {
	BinaryName string
	Settings   config.Settings
	Logger     *logging.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Swapped out in tests.
	LoadCredentials func() (config.Credentials, error)
	Interactive     func() bool
}

// NewContext creates a context bound to the process streams
func NewContext(binaryName string) *Context {
	return &Context{
		BinaryName:      binaryName,
		Settings:        config.Settings{Timeout: config.DefaultTimeout, LogLevel: "info"},
		Logger:          logging.NewLogger(logging.LevelInfo, os.Stderr, binaryName),
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		LoadCredentials: config.LoadCredentials,
		Interactive:     ui.IsInteractive,
	}
}

// Load reads the .env file and run settings, then applies the log level.
func (c *Context) Load(envFile string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfiguration, "invalid NSQUERY_LOG_LEVEL")
	}
	logging.SetLevel(level)

	c.Settings = settings
	c.Logger = logging.NewLogger(level, c.Stderr, c.BinaryName)
	return nil
}

// Credentials loads and validates the NetSuite credentials
func (c *Context) Credentials() (config.Credentials, error) {
	creds, err := c.LoadCredentials()
	if err != nil {
		return config.Credentials{}, err
	}
	c.Logger.Debug("Loaded credentials %s", creds)
	return creds, nil
}
