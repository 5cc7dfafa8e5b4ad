// Package config loads site configuration from an optional folio.yaml,
// FOLIO_-prefixed environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level application configuration.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Content ContentConfig `mapstructure:"content"`
	Server  ServerConfig  `mapstructure:"server"`
	Contact ContactConfig `mapstructure:"contact"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// SiteConfig describes the site in the feed channel and emails.
type SiteConfig struct {
	Title       string `mapstructure:"title"`
	BaseURL     string `mapstructure:"baseURL"`
	Description string `mapstructure:"description"`
	Language    string `mapstructure:"language"`
}

// ContentConfig locates the content store.
type ContentConfig struct {
	Dir         string   `mapstructure:"dir"`
	PostsDir    string   `mapstructure:"postsDir"`
	ProjectsDir string   `mapstructure:"projectsDir"`
	Include     []string `mapstructure:"include"`
	Strict      bool     `mapstructure:"strict"`
	CacheSize   int      `mapstructure:"cacheSize"`
	Watch       bool     `mapstructure:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// ContactConfig configures the email relay. An empty APIKey disables it.
type ContactConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"apiKey"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// EnvPrefix prefixes environment overrides, e.g. FOLIO_CONTACT_APIKEY.
const EnvPrefix = "FOLIO"

// ErrFileNotFound is returned when an explicitly named config file is missing.
var ErrFileNotFound = errors.New("config file not found")

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.title", "My Site")
	v.SetDefault("site.baseURL", "http://localhost:8080")
	v.SetDefault("site.description", "")
	v.SetDefault("site.language", "en-us")

	v.SetDefault("content.dir", "content")
	v.SetDefault("content.postsDir", "posts")
	v.SetDefault("content.projectsDir", "projects")
	v.SetDefault("content.include", []string{})
	v.SetDefault("content.strict", false)
	v.SetDefault("content.cacheSize", 512)
	v.SetDefault("content.watch", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.readTimeout", 10*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.shutdownTimeout", 15*time.Second)

	v.SetDefault("contact.endpoint", "https://api.resend.com/emails")
	v.SetDefault("contact.apiKey", "")
	v.SetDefault("contact.from", "")
	v.SetDefault("contact.to", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads configuration. An empty path searches the working directory
// for folio.yaml and falls back to defaults when there is none; a non-empty
// path must exist. The returned string is the file used, if any. A relative
// content.dir is resolved against the directory of that file.
func Load(path string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
			return nil, "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		default:
			return nil, "", fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config into struct: %w", err)
	}
	used := v.ConfigFileUsed()
	if used != "" && cfg.Content.Dir != "" && !filepath.IsAbs(cfg.Content.Dir) {
		cfg.Content.Dir = filepath.Join(filepath.Dir(used), cfg.Content.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, used, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Content.Dir == "" {
		return errors.New("config: content.dir is required")
	}
	if c.Site.BaseURL == "" {
		return errors.New("config: site.baseURL is required")
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: site.baseURL %q must be an absolute URL", c.Site.BaseURL)
	}
	return nil
}

// PostsPrefix is the content store prefix of posts, e.g. "posts/".
func (c ContentConfig) PostsPrefix() string {
	return strings.Trim(c.PostsDir, "/") + "/"
}

// ProjectsPrefix is the content store prefix of projects.
func (c ContentConfig) ProjectsPrefix() string {
	return strings.Trim(c.ProjectsDir, "/") + "/"
}
