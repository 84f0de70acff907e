package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8090"

	// DefaultAPIURL is the base URL of the subscription backend API.
	DefaultAPIURL = "http://127.0.0.1:8080/bison/api"

	// DefaultTargetName is the sentinel target used to resolve a platform-level
	// display name for platforms that do not take a target account.
	DefaultTargetName = "default"

	// DefaultRateLimit is the default requests per minute per IP address on
	// endpoints that call the backend.
	DefaultRateLimit = 120

	// DefaultSessionTTL is how long an idle operator session is kept.
	DefaultSessionTTL = 12 * time.Hour

	// DefaultAPITimeout bounds every call to the backend API.
	DefaultAPITimeout = 10 * time.Second

	// SessionCookie is the name of the session cookie.
	SessionCookie = "bison_session"

	// MaxTagLength is the longest tag accepted by the tag input.
	MaxTagLength = 64

	// MaxTargetLength is the longest target value sent for validation.
	MaxTargetLength = 128
)
