package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// GetEnv returns the ENV variable, "local" when unset.
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// Load reads config/<env>.yaml.
func Load(env string) (Config, error) {
	return LoadFile(locate(env + ".yaml"))
}

// MustLoad is Load that panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse expands ${VAR} and ${VAR:-default} references, decodes the YAML,
// applies defaults and validates.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(expandEnv(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// locate prefers ./config, then the repository's config directory.
func locate(name string) string {
	local := filepath.Join("config", name)
	candidates := []string{local}
	if _, file, _, ok := runtime.Caller(0); ok {
		root := filepath.Join(filepath.Dir(file), "..", "..")
		candidates = append(candidates, filepath.Join(root, "config", name))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return local
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		name, fallback, hasFallback := strings.Cut(string(ref[2:len(ref)-1]), ":-")
		if v := os.Getenv(name); v != "" || !hasFallback {
			return []byte(v)
		}
		return []byte(fallback)
	})
}
