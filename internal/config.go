package internal

import (
	"fmt"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/savscan/internal/report"
	"github.com/starford/savscan/internal/savefile"
	"github.com/starford/savscan/internal/search"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var extensionRe = regexp.MustCompile(`^\.[A-Za-z0-9_-]+$`)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Save   SaveConfig        `yaml:"save"`
	Search SearchConfig      `yaml:"search"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Save.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	Color    string     `yaml:"color"`
	Format   string     `yaml:"format"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	formats := make([]interface{}, len(report.Formats))
	for i, f := range report.Formats {
		formats[i] = f
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Color, validation.Required, validation.In(ColorAuto, ColorAlways, ColorNever)),
		validation.Field(&c.Format, validation.Required, validation.In(formats...)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
// RateLimit is requests per second across all API clients; 0 disables it.
type HTTPConfig struct {
	Port      int     `yaml:"port"`
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.RateLimit, validation.Min(0.0)),
		validation.Field(&c.Burst, validation.Min(0)),
	)
}

// SaveConfig describes where saves live and how their container is framed.
// Dir and Extension are used by the serve and mcp surfaces only.
type SaveConfig struct {
	Dir        string `yaml:"dir"`
	Extension  string `yaml:"extension"`
	HeaderSize int    `yaml:"header_size"`
}

// Validate validates the save configuration.
func (c *SaveConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Extension, validation.Required, validation.Match(extensionRe)),
		validation.Field(&c.HeaderSize, validation.Min(0), validation.Max(1<<20)),
	)
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	CaseSensitive bool `yaml:"case_sensitive"`
	PreviewLimit  int  `yaml:"preview_limit"`
	SummaryLimit  int  `yaml:"summary_limit"`
}

// Validate validates the search configuration.
func (c *SearchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PreviewLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.SummaryLimit, validation.Required, validation.Min(1)),
	)
}

// Options converts the configuration into search options.
func (c *SearchConfig) Options() search.Options {
	return search.Options{CaseSensitive: c.CaseSensitive, PreviewLimit: c.PreviewLimit}
}

// AuthConfig holds authentication configuration for the HTTP API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			Color:    ColorAuto,
			Format:   report.FormatText,
			HTTP: HTTPConfig{
				Port:  8080,
				Burst: 4,
			},
		},
		Save: SaveConfig{
			Dir:        ".",
			Extension:  ".sav",
			HeaderSize: savefile.DefaultHeaderSize,
		},
		Search: SearchConfig{
			PreviewLimit: search.DefaultPreviewLimit,
			SummaryLimit: report.DefaultSummaryLimit,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
