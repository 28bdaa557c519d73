package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, ValidationError{"server.port", "is required"})
	}
	if c.Database.URL == "" {
		if c.Database.Host == "" {
			errs = append(errs, ValidationError{"db.host", "is required when db.url is not set"})
		}
		if c.Database.Name == "" {
			errs = append(errs, ValidationError{"db.name", "is required when db.url is not set"})
		}
	}
	if c.Database.MaxConns < 1 {
		errs = append(errs, ValidationError{"db.max_conns", "must be at least 1"})
	}
	if c.JWT.Secret == "" {
		errs = append(errs, ValidationError{"jwt.secret", "is required"})
	} else if c.Env.IsProduction() && c.JWT.Secret == DefaultJWTSecret {
		errs = append(errs, ValidationError{"jwt.secret", "must be changed in production"})
	}
	if c.JWT.Expiry <= 0 {
		errs = append(errs, ValidationError{"jwt.expiry", "must be positive"})
	}
	if c.RateLimit.ShoppingListRequests < 1 || c.RateLimit.ShoppingListWindow <= 0 {
		errs = append(errs, ValidationError{"rate_limit.shopping_list", "requests and window must be positive"})
	}
	if c.RateLimit.ReviewRequests < 1 || c.RateLimit.ReviewWindow <= 0 {
		errs = append(errs, ValidationError{"rate_limit.review", "requests and window must be positive"})
	}

	return errors.Join(errs...)
}
