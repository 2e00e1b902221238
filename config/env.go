package config

import (
	"fmt"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// ParseEnvironment maps the ENV setting onto an Environment. Empty means development.
func ParseEnvironment(s string) (Environment, error) {
	switch env := Environment(strings.ToLower(strings.TrimSpace(s))); env {
	case "":
		return Development, nil
	case Development, Test, CI, Production:
		return env, nil
	default:
		return "", fmt.Errorf("unknown environment: %s", s)
	}
}

// IsProduction returns true if the environment is production
func (e Environment) IsProduction() bool {
	return e == Production
}

// IsDevelopment returns true if the environment is development
func (e Environment) IsDevelopment() bool {
	return e == Development
}
