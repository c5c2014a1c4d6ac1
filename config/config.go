package config

import (
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kochabonline/tgkit/core/reflect"
	"github.com/kochabonline/tgkit/log"
	"github.com/kochabonline/tgkit/validator"
)

type Provider int

const (
	ProviderFile Provider = iota
)

var envKeyReplacer = strings.NewReplacer(".", "_")

type Config struct {
	viper     *viper.Viper
	Provider  Provider // Provider is the provider of the configuration, e.g., file, etc.
	Path      []string // Path is the path to the configuration file, can be multiple paths.
	Name      string   // Name is the name of the configuration file, the extension selects the format.
	File      string   // File is an explicit configuration file, it takes precedence over Path and Name.
	EnvPrefix string   // EnvPrefix is prepended to environment keys, e.g. TGCTL_TELEGRAM_TOKEN.
	EnvKeys   []string // EnvKeys are dotted keys bound to environment variables even without a file.
	Optional  bool     // Optional tolerates a missing configuration file.
	Dest      any      // Dest is the destination where the configuration will be unmarshalled.
}

type Option func(*Config)

func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		c.viper = v
	}
}

func WithProvider(provider Provider) Option {
	return func(c *Config) {
		c.Provider = provider
	}
}

func WithPath(path ...string) Option {
	return func(c *Config) {
		c.Path = path
	}
}

func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

func WithFile(file string) Option {
	return func(c *Config) {
		c.File = file
	}
}

func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.EnvPrefix = prefix
	}
}

func WithEnvKeys(keys ...string) Option {
	return func(c *Config) {
		c.EnvKeys = append(c.EnvKeys, keys...)
	}
}

func WithOptional() Option {
	return func(c *Config) {
		c.Optional = true
	}
}

func WithDest(dest any) Option {
	return func(c *Config) {
		c.Dest = dest
	}
}

func New(opts ...Option) (*Config, error) {
	c := &Config{
		Provider: ProviderFile,
		Path:     []string{"."},
		viper:    viper.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.init(); err != nil {
		return nil, err
	}

	c.configureViper()

	return c, nil
}

func (c *Config) init() error {
	if c.Dest == nil {
		return errors.New("config destination is required")
	}
	return reflect.SetDefaultTag(c.Dest)
}

func (c *Config) configureViper() {
	if c.File != "" {
		c.viper.SetConfigFile(c.File)
	} else {
		extension := path.Ext(c.Name)
		for _, configPath := range c.Path {
			c.viper.AddConfigPath(configPath)
		}
		c.viper.SetConfigName(strings.TrimSuffix(c.Name, extension))
		if extension != "" {
			c.viper.SetConfigType(strings.TrimPrefix(extension, "."))
		}
	}

	c.viper.SetEnvPrefix(c.EnvPrefix)
	c.viper.SetEnvKeyReplacer(envKeyReplacer)
	c.viper.AutomaticEnv()
	for _, key := range c.EnvKeys {
		// BindEnv only fails without a key.
		_ = c.viper.BindEnv(key)
	}
}

func (c *Config) GetViper() *viper.Viper {
	return c.viper
}

// ReadInConfig reads the configuration source, unmarshals it into Dest and
// validates the result.
func (c *Config) ReadInConfig() error {
	if err := c.viper.ReadInConfig(); err != nil && !(c.Optional && isMissing(err)) {
		return err
	}

	if err := c.viper.Unmarshal(c.Dest); err != nil {
		return err
	}

	return validator.Struct(c.Dest)
}

func isMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func (c *Config) WatchConfig() error {
	c.viper.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Msgf("config file changed: %s", e.Name)
		if err := c.ReadInConfig(); err != nil {
			log.Error().Err(err).Msg("failed to reload config")
		}
	})
	c.viper.WatchConfig()
	return nil
}
