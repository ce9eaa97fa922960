package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianshen/meteofetch/internal/request"
)

// ErrMissingEnv is returned when a required environment variable is unset or empty.
var ErrMissingEnv = errors.New("environment variable not set")

// ResolveCredential reads a single credential from envVar.
func ResolveCredential(envVar string) (string, error) {
	if envVar == "" {
		return "", fmt.Errorf("no environment variable name specified")
	}
	val := os.Getenv(envVar)
	if val == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, envVar)
	}
	return val, nil
}

// ResolveCredentials reads the username and password named by api.
func ResolveCredentials(api APIConfig) (request.Credentials, error) {
	user, err := ResolveCredential(api.UsernameEnv)
	if err != nil {
		return request.Credentials{}, fmt.Errorf("resolving username: %w", err)
	}
	pass, err := ResolveCredential(api.PasswordEnv)
	if err != nil {
		return request.Credentials{}, fmt.Errorf("resolving password: %w", err)
	}
	return request.Credentials{Username: user, Password: pass}, nil
}
