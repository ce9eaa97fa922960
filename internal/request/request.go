// Package request describes the single weather query meteofetch issues and
// turns it into a request URL.
package request

import (
	"errors"
	"fmt"
	"strings"
)

// Defaults for a query when neither the config file nor flags override them.
const (
	DefaultBaseURL      = "https://api.meteomatics.com"
	DefaultDatetime     = "2024-10-23T00:00:00Z"
	DefaultParameters   = "t_2m:C,precip_1h:mm,wind_speed_10m:ms"
	DefaultLocation     = "37.7749,-122.4194" // San Francisco
	DefaultFormat       = "json"
	DefaultMaxURLLength = 512
)

var (
	// ErrMissingCredentials is returned when the username or password is empty.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrURLTooLong is returned when the formatted URL does not fit the length limit.
	ErrURLTooLong = errors.New("request URL too long")
)

// Credentials are sent with the request through HTTP Basic authentication,
// never as part of the URL.
type Credentials struct {
	Username string
	Password string
}

// String masks the password so credentials can appear in logs safely.
func (c Credentials) String() string {
	if c.Password == "" {
		return c.Username + ":"
	}
	return c.Username + ":****"
}

// RequestConfig is everything needed to issue one query. It is passed by
// value and never mutated after construction.
type RequestConfig struct {
	BaseURL    string
	Username   string
	Password   string
	Datetime   string
	Parameters string
	Location   string
	Format     string
}

// Default returns a RequestConfig holding the stock query without credentials.
func Default() RequestConfig {
	return RequestConfig{
		BaseURL:    DefaultBaseURL,
		Datetime:   DefaultDatetime,
		Parameters: DefaultParameters,
		Location:   DefaultLocation,
		Format:     DefaultFormat,
	}
}

// WithDefaults returns a copy of c with an empty base URL or format replaced
// by its default.
func (c RequestConfig) WithDefaults() RequestConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	return c
}

// Credentials returns the username/password pair.
func (c RequestConfig) Credentials() Credentials {
	return Credentials{Username: c.Username, Password: c.Password}
}

// Validate checks that both credentials are present. Other fields are not
// inspected; BuildURL enforces the length limit.
func Validate(c RequestConfig) error {
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("%w: username and password must both be set", ErrMissingCredentials)
	}
	return nil
}

// BuildURL formats <base>/<datetime>/<parameters>/<location>/<format>.
//
// Segments are inserted verbatim; nothing is percent-encoded. maxLength
// counts a terminating byte, so the URL itself must be shorter than
// maxLength. An oversized URL is an error, never truncated.
func BuildURL(c RequestConfig, maxLength int) (string, error) {
	if maxLength <= 0 {
		return "", fmt.Errorf("%w: limit %d", ErrURLTooLong, maxLength)
	}

	base := strings.TrimRight(c.BaseURL, "/")
	url := strings.Join([]string{base, c.Datetime, c.Parameters, c.Location, c.Format}, "/")

	if len(url)+1 > maxLength {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrURLTooLong, len(url)+1, maxLength)
	}
	return url, nil
}
