package velovis

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/viant/afs"
	"github.com/velovis/velovis/auth/store"
	"github.com/velovis/velovis/auth/transport"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRefreshPath is the backend token refresh endpoint
	DefaultRefreshPath = "/auth/refresh"
	// DefaultTimeout bounds a single HTTP exchange
	DefaultTimeout = 30 * time.Second
	envPrefix      = "VELOVIS"
)

// ClientOptions defines options for configuring a storefront client.
type ClientOptions struct {
	BaseURL     string         `yaml:"baseURL" json:"baseURL" mapstructure:"baseURL" short:"u" long:"url" description:"storefront API base URL"`
	RefreshPath string         `yaml:"refreshPath,omitempty" json:"refreshPath,omitempty" mapstructure:"refreshPath" long:"refresh-path" description:"token refresh endpoint path"`
	SignInPath  string         `yaml:"signInPath,omitempty" json:"signInPath,omitempty" mapstructure:"signInPath" long:"sign-in-path" description:"sign in location reported on session expiry"`
	Coalesce    *bool          `yaml:"coalesce,omitempty" json:"coalesce,omitempty" mapstructure:"coalesce"`
	Timeout     time.Duration  `yaml:"timeout,omitempty" json:"timeout,omitempty" mapstructure:"timeout" long:"timeout" description:"HTTP timeout"`
	Session     SessionOptions `yaml:"session,omitempty" json:"session,omitempty" mapstructure:"session"`

	// Store, if set, overrides the store described by Session.
	Store store.Store `yaml:"-" json:"-" mapstructure:"-"`
	// SignOut is invoked when the session expires and cannot be renewed.
	SignOut transport.SignOutFunc `yaml:"-" json:"-" mapstructure:"-"`
}

// SessionOptions defines where the credential store persists the session.
type SessionOptions struct {
	StoreURL      string `yaml:"storeURL,omitempty" json:"storeURL,omitempty" mapstructure:"storeURL" short:"s" long:"store" description:"session storage URL, memory only when empty"`
	Secure        bool   `yaml:"secure,omitempty" json:"secure,omitempty" mapstructure:"secure" long:"secure" description:"encrypt stored session"`
	EncryptionKey string `yaml:"encryptionKey,omitempty" json:"encryptionKey,omitempty" mapstructure:"encryptionKey" short:"k" long:"key" description:"session encryption key"`
}

// Init sets defaults
func (c *ClientOptions) Init() {
	if c.RefreshPath == "" {
		c.RefreshPath = DefaultRefreshPath
	}
	if c.SignInPath == "" {
		c.SignInPath = transport.DefaultSignInPath
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Session.Secure && c.Session.EncryptionKey == "" {
		c.Session.EncryptionKey = store.DefaultEncryptionKey
	}
}

// Validate checks required options
func (c *ClientOptions) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("baseURL was empty")
	}
	return nil
}

// Coalescing reports whether concurrent refreshes share one backend call
func (c *ClientOptions) Coalescing() bool {
	return c.Coalesce == nil || *c.Coalesce
}

// SessionStore returns the configured credential store
func (c *ClientOptions) SessionStore() store.Store {
	switch {
	case c.Store != nil:
		return c.Store
	case c.Session.StoreURL == "":
		return store.NewMemoryStore()
	case c.Session.Secure:
		return store.NewSecureStore(c.Session.StoreURL, c.Session.EncryptionKey)
	}
	return store.NewFileStore(c.Session.StoreURL)
}

// LoadOptions loads options from the YAML resource at URL, VELOVIS_* environment variables
// override file values. An empty URL loads environment variables only.
func LoadOptions(ctx context.Context, URL string) (*ClientOptions, error) {
	config := viper.New()
	config.SetConfigType("yaml")
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()
	for _, key := range []string{"baseURL", "refreshPath", "signInPath", "coalesce", "timeout", "session.storeURL", "session.secure", "session.encryptionKey"} {
		if err := config.BindEnv(key); err != nil {
			return nil, err
		}
	}
	if URL != "" {
		data, err := afs.New().DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to download options %v: %w", URL, err)
		}
		if err = config.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse options %v: %w", URL, err)
		}
	}
	ret := &ClientOptions{}
	if err := config.Unmarshal(ret); err != nil {
		return nil, fmt.Errorf("failed to decode options %v: %w", URL, err)
	}
	ret.Init()
	return ret, nil
}

// Save writes options as YAML to URL
func (c *ClientOptions) Save(ctx context.Context, URL string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}
	if err = afs.New().Upload(ctx, URL, 0o644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload options %v: %w", URL, err)
	}
	return nil
}
