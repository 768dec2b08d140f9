// Package config parses storefront.toml and STOREFRONT_* environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "storefront.toml"

// DefaultAccentColor is the default TUI accent color (amber).
const DefaultAccentColor = "#FF9900"

// DefaultCatalogURL is the product listing the original storefront read.
const DefaultCatalogURL = "https://amazonebackend-b1ma.onrender.com/api/products"

// Catalog sources.
const (
	SourceHTTP   = "http"
	SourceSample = "sample"
)

// Cart modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// hexColorRe matches a 6-digit hex color string like "#FF9900".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level storefront.toml configuration.
type Config struct {
	Storage       StorageConfig       `toml:"storage" envPrefix:"STORAGE_"`
	Catalog       CatalogConfig       `toml:"catalog" envPrefix:"CATALOG_"`
	Cart          CartConfig          `toml:"cart" envPrefix:"CART_"`
	TUI           TUIConfig           `toml:"tui" envPrefix:"TUI_"`
	Journal       JournalConfig       `toml:"journal" envPrefix:"JOURNAL_"`
	Notifications NotificationsConfig `toml:"notifications" envPrefix:"NOTIFICATIONS_"`
	Log           LogConfig           `toml:"log" envPrefix:"LOG_"`
	Server        ServerConfig        `toml:"server" envPrefix:"SERVER_"`

	// Root is the directory relative paths resolve against: the directory
	// holding storefront.toml, or the working directory when there is none.
	Root string `toml:"-"`
}

// StorageConfig controls where the session is persisted.
type StorageConfig struct {
	Dir string `toml:"dir" env:"DIR"`
}

// CatalogConfig controls where products come from.
type CatalogConfig struct {
	Source         string `toml:"source" env:"SOURCE"` // "http" or "sample"
	URL            string `toml:"url" env:"URL"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
}

// CartConfig selects the cart implementation.
type CartConfig struct {
	Mode           string `toml:"mode" env:"MODE"` // "local" or "remote"
	RemoteURL      string `toml:"remote_url" env:"REMOTE_URL"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color" env:"ACCENT_COLOR"`
}

// JournalConfig controls the action journal.
type JournalConfig struct {
	Enabled   bool `toml:"enabled" env:"ENABLED"`
	Retention int  `toml:"retention" env:"RETENTION"` // journal files to keep; 0 = unlimited
}

// NotificationsConfig controls webhook/ntfy.sh notifications.
type NotificationsConfig struct {
	URL          string `toml:"url" env:"URL"`
	OnLogin      bool   `toml:"on_login" env:"ON_LOGIN"`
	OnCartChange bool   `toml:"on_cart_change" env:"ON_CART_CHANGE"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `toml:"level" env:"LEVEL"`
	File  string `toml:"file" env:"FILE"` // used while the TUI owns the terminal
}

// ServerConfig controls `storefront serve-cart`.
type ServerConfig struct {
	Addr string `toml:"addr" env:"ADDR"`
	DSN  string `toml:"dsn" env:"DSN"` // empty keeps lines in memory
}

// CatalogTimeout returns the catalog request timeout.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

// CartTimeout returns the remote cart request timeout.
func (c *Config) CartTimeout() time.Duration {
	return time.Duration(c.Cart.TimeoutSeconds) * time.Second
}

// Resolve returns p joined to Root unless p is already absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}

// StorageDir returns the resolved session storage directory.
func (c *Config) StorageDir() string { return c.Resolve(c.Storage.Dir) }

// JournalDir returns the directory journal files are written to.
func (c *Config) JournalDir() string { return filepath.Join(c.StorageDir(), "journal") }

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Storage.Dir) == "" {
		errs = append(errs, fmt.Errorf("storage.dir must not be empty"))
	}

	switch c.Catalog.Source {
	case SourceSample:
	case SourceHTTP:
		if !isHTTPURL(c.Catalog.URL) {
			errs = append(errs, fmt.Errorf("catalog.url must be a valid http or https URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("catalog.source must be %q or %q", SourceHTTP, SourceSample))
	}
	if c.Catalog.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("catalog.timeout_seconds must be >= 0"))
	}

	switch c.Cart.Mode {
	case ModeLocal:
	case ModeRemote:
		if !isHTTPURL(c.Cart.RemoteURL) {
			errs = append(errs, fmt.Errorf("cart.remote_url must be a valid http or https URL when cart.mode is %q", ModeRemote))
		}
	default:
		errs = append(errs, fmt.Errorf("cart.mode must be %q or %q", ModeLocal, ModeRemote))
	}
	if c.Cart.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("cart.timeout_seconds must be >= 0"))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#FF9900\")"))
	}

	if c.Journal.Retention < 0 {
		errs = append(errs, fmt.Errorf("journal.retention must be >= 0 (0 = unlimited)"))
	}

	if c.Notifications.URL != "" && !isHTTPURL(c.Notifications.URL) {
		errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level %q is not a known level", c.Log.Level))
	}

	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr must not be empty"))
	}

	return errors.Join(errs...)
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Defaults returns a Config with the out-of-the-box settings.
func Defaults() Config {
	return Config{
		Storage: StorageConfig{Dir: ".storefront"},
		Catalog: CatalogConfig{
			Source:         SourceHTTP,
			URL:            DefaultCatalogURL,
			TimeoutSeconds: 15,
		},
		Cart: CartConfig{
			Mode:           ModeLocal,
			TimeoutSeconds: 10,
		},
		TUI: TUIConfig{AccentColor: DefaultAccentColor},
		Journal: JournalConfig{
			Enabled:   true,
			Retention: 20,
		},
		Notifications: NotificationsConfig{
			OnLogin:      true,
			OnCartChange: false,
		},
		Log: LogConfig{
			Level: "info",
			File:  ".storefront/storefront.log",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads storefront.toml from the given path. If path is empty, it walks
// up from the current working directory looking for storefront.toml and
// uses the defaults when there is none. A .env file next to the config is
// loaded, then STOREFRONT_* variables override file values. Returns an error
// if the file contains unknown keys (likely typos).
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
		}
		abs, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("config: resolve %s: %w", path, err)
		}
		cfg.Root = abs
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("config: get working directory: %w", err)
		}
		cfg.Root = wd
	}

	if err := loadDotEnv(cfg.Root); err != nil {
		return nil, err
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// findConfig walks up from the current directory looking for
// storefront.toml. It returns "" when none exists.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
