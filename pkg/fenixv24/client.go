package fenixv24

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Constants for the Fenix V24 cloud API. The vendor authenticates through
// a Keycloak realm; everything else is form-encoded POSTs against the
// "human" API.
const (
	defaultBaseURL  = "https://v24.fenixgroup.eu/api/v0.1/human"
	defaultTokenURL = "https://auth.aks.mutualized.wattselectronics.com/realms/fenix/protocol/openid-connect/token"
	defaultLanguage = "en_GB"

	// oauthClientID is the Fenix V24 web application client.
	oauthClientID = "app-front"
	oauthScope    = "openid email profile"

	readEndpoint = "/smarthome/read/"
	pushEndpoint = "/query/push/"

	// refreshMargin is how long before the reported expiry a token is
	// already treated as invalid.
	refreshMargin = 30 * time.Second
)

// session is the OAuth2 credential pair for one account. It lives only in
// memory and is replaced wholesale by each successful authentication.
type session struct {
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func (s *session) valid(now time.Time) bool {
	return s != nil && now.Add(refreshMargin).Before(s.expiresAt)
}

// Client talks to the Fenix V24 cloud API for a single account.
// It owns the account's session and refreshes it transparently; concurrent
// calls from overlapping poll cycles collapse into a single authentication
// attempt. A Client must not be shared across accounts.
type Client struct {
	email       string
	password    string
	smarthomeID string

	baseURL  string
	language string
	oauth    *oauth2.Config

	httpClient *http.Client
	logger     *slog.Logger

	mu       sync.Mutex
	session  *session
	snapshot []Zone

	authGroup singleflight.Group
}

// NewClient creates a client for one Fenix V24 account. No network traffic
// is issued until the first call; credentials are only checked then.
// Options can be provided to configure the client behavior.
func NewClient(email, password, smarthomeID string, opts ...ClientOption) (*Client, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if smarthomeID == "" {
		return nil, fmt.Errorf("smarthome id is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		email:       email,
		password:    password,
		smarthomeID: smarthomeID,
		baseURL:     cfg.baseURL,
		language:    cfg.language,
		oauth: &oauth2.Config{
			ClientID: oauthClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: strings.Fields(oauthScope),
		},
		httpClient: httpClient,
		logger:     cfg.logger,
	}, nil
}

// SmarthomeID returns the smarthome this client is bound to.
func (c *Client) SmarthomeID() string {
	return c.smarthomeID
}
