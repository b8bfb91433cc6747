package sdb

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/jacentio/simpledb/internal/sigv2"
)

// DefaultEndpoint is the service host requests go to unless overridden.
const DefaultEndpoint = "sdb.amazonaws.com"

// Config holds configuration for a Client.
type Config struct {
	// Credentials supplies the access key pair that signs requests.
	// Required for any call that reaches the service; a Client without
	// credentials can still build and compile queries.
	Credentials aws.CredentialsProvider

	// Endpoint is the service host, with optional port and path.
	// Default: DefaultEndpoint
	Endpoint string

	// Insecure sends requests over HTTP instead of HTTPS. Intended for
	// local emulators.
	Insecure bool

	// SignatureMethod selects the signing algorithm, "HmacSHA256" or
	// "HmacSHA1" for endpoints without SHA-256 support.
	// Default: "HmacSHA256"
	SignatureMethod string

	// HTTPClient issues the underlying requests.
	// Default: a client with a 30 second timeout.
	HTTPClient *http.Client

	// Encoder translates attribute values to and from their stored string
	// form. The same Encoder must be configured when writing and when
	// reading back, or stored values stop comparing correctly.
	// Default: values pass through as plain strings.
	Encoder Encoder

	// Logger receives request-level debug logging.
	// Default: slog.Default()
	Logger *slog.Logger
}

// validate ensures config values are usable, filling in defaults.
func (c *Config) validate() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.SignatureMethod != sigv2.HMACSHA1.Name {
		c.SignatureMethod = sigv2.HMACSHA256.Name
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.Encoder == nil {
		c.Encoder = identityEncoder{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
