package fenixv24

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig) error

// clientConfig holds the configuration for a Client.
type clientConfig struct {
	baseURL    string
	tokenURL   string
	language   string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// defaultConfig returns the default client configuration.
func defaultConfig() *clientConfig {
	return &clientConfig{
		baseURL:  defaultBaseURL,
		tokenURL: defaultTokenURL,
		language: defaultLanguage,
		timeout:  10 * time.Second,
		logger:   nil,
	}
}

// WithBaseURL overrides the vendor API base URL.
// Default is the production Fenix V24 endpoint.
func WithBaseURL(u string) ClientOption {
	return func(c *clientConfig) error {
		if u == "" {
			return errors.New("base URL must not be empty")
		}
		c.baseURL = u
		return nil
	}
}

// WithTokenURL overrides the OAuth2 token endpoint.
// Default is the production Keycloak realm for Fenix.
func WithTokenURL(u string) ClientOption {
	return func(c *clientConfig) error {
		if u == "" {
			return errors.New("token URL must not be empty")
		}
		c.tokenURL = u
		return nil
	}
}

// WithLanguage sets the lang field sent on read requests. It controls the
// language of zone labels and vendor error messages.
// Default is "en_GB".
func WithLanguage(lang string) ClientOption {
	return func(c *clientConfig) error {
		if lang == "" {
			return errors.New("language must not be empty")
		}
		c.language = lang
		return nil
	}
}

// WithTimeout sets the per-request HTTP timeout.
// Default is 10 seconds. Ignored when WithHTTPClient is also given.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		c.timeout = d
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client, replacing the default one and
// its timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithLogger sets a structured logger for debug and warning logging.
// By default, no logging is performed.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) error {
		c.logger = logger
		return nil
	}
}
