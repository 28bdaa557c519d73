package config

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultSecretsDir = "/run/secrets"

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return defaultSecretsDir
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// applySecrets overrides sensitive values with Docker secrets when present.
func applySecrets(cfg *Config, dir string) {
	targets := map[string]*string{
		"db_user":        &cfg.Database.User,
		"db_password":    &cfg.Database.Password,
		"jwt_secret":     &cfg.JWT.Secret,
		"redis_password": &cfg.Redis.Password,
		"redis_url":      &cfg.Redis.URL,
		"database_url":   &cfg.Database.URL,
	}
	for name, dst := range targets {
		if v := readSecret(dir, name); v != "" {
			*dst = v
		}
	}
}
