// Package fenixv24 provides a client for the Fenix V24 home-heating
// cloud API (Wattselectronics / Fenix Group).
//
// # Basic Usage
//
//	ctx := context.Background()
//	client, err := fenixv24.NewClient("me@example.com", "secret", "A1B2C3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	zones, err := client.Zones(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = client.Boost(ctx, zones[0].Devices[0].ID, 30)
//
// # Configuration
//
// The client can be configured using functional options:
//
//	client, err := fenixv24.NewClient(email, password, smarthomeID,
//	    fenixv24.WithTimeout(15*time.Second),
//	    fenixv24.WithLanguage("fr_FR"),
//	    fenixv24.WithLogger(slog.Default()),
//	)
//
// # Sessions
//
// Authentication is an OAuth2 password grant against the vendor's
// Keycloak realm. Tokens are short-lived and cached in memory only; the
// client re-authenticates transparently 30 seconds before expiry, and
// concurrent calls share a single authentication attempt. One Client
// serves one account; create one per account, there is no shared state
// between instances.
//
// # Failure model
//
// Calls are single attempts with no built-in retry or backoff: each one
// either succeeds or fails with one of AuthError, APIError, NetworkError,
// ValidationError or ErrEmptyResponse. Retry policy and timeouts belong
// to the caller, via its own loop and the context passed to each call.
package fenixv24
