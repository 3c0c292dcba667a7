package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		// Path is absolute after Load.
		Path string
	}
	Seed struct {
		Password     string
		Baseline     string
		PasswordCost int
	}
	Uploads struct {
		Dir          string
		PublicPrefix string
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	Auth struct {
		JWTSecret       string
		TokenTTLMinutes int
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("UNINTEND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("database.path", "unintend.db")
	// Empty keeps the default credential of the baseline file.
	v.SetDefault("seed.password", "")
	v.SetDefault("seed.baseline", "")
	v.SetDefault("seed.passwordcost", bcrypt.DefaultCost)
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.publicprefix", "/uploads")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("auth.jwtsecret", "change-me-for-production")
	v.SetDefault("auth.tokenttlminutes", 24*60)
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return Config{}, err
	}
	if cfg.Seed.PasswordCost < bcrypt.MinCost || cfg.Seed.PasswordCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("seed.passwordcost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return cfg, nil
}

// SetDatabasePath overrides the configured store location, e.g. from a flag.
func (c *Config) SetDatabasePath(path string) error {
	c.Database.Path = path
	return c.resolvePaths()
}

// resolvePaths pins relative paths to the working directory at startup so
// later consumers never depend on the process cwd.
func (c *Config) resolvePaths() error {
	for _, p := range []*string{&c.Database.Path, &c.Uploads.Dir, &c.Seed.Baseline} {
		if strings.TrimSpace(*p) == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("resolve path %q: %w", *p, err)
		}
		*p = abs
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
