package sellsy

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Credentials holds the four OAuth secrets used to sign calls. The zero value
// is valid but incomplete. Values are immutable; the With* methods return
// modified copies.
type Credentials struct {
	consumerKey       string
	consumerSecret    string
	accessToken       string
	accessTokenSecret string
}

// NewCredentials creates a Credentials value
func NewCredentials(consumerKey, consumerSecret, accessToken, accessTokenSecret string) Credentials {
	return Credentials{
		consumerKey:       consumerKey,
		consumerSecret:    consumerSecret,
		accessToken:       accessToken,
		accessTokenSecret: accessTokenSecret,
	}
}

func (c Credentials) ConsumerKey() string       { return c.consumerKey }
func (c Credentials) ConsumerSecret() string    { return c.consumerSecret }
func (c Credentials) AccessToken() string       { return c.accessToken }
func (c Credentials) AccessTokenSecret() string { return c.accessTokenSecret }

// WithConsumerKey returns a copy with the consumer key replaced
func (c Credentials) WithConsumerKey(v string) Credentials {
	c.consumerKey = v
	return c
}

// WithConsumerSecret returns a copy with the consumer secret replaced
func (c Credentials) WithConsumerSecret(v string) Credentials {
	c.consumerSecret = v
	return c
}

// WithAccessToken returns a copy with the access token replaced
func (c Credentials) WithAccessToken(v string) Credentials {
	c.accessToken = v
	return c
}

// WithAccessTokenSecret returns a copy with the access token secret replaced
func (c Credentials) WithAccessTokenSecret(v string) Credentials {
	c.accessTokenSecret = v
	return c
}

// Complete reports whether all four values are set
func (c Credentials) Complete() bool {
	return c.consumerKey != "" && c.consumerSecret != "" && c.accessToken != "" && c.accessTokenSecret != ""
}

// String never prints secrets
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{consumer_key:%s consumer_secret:%s access_token:%s access_token_secret:%s}",
		redact(c.consumerKey), redact(c.consumerSecret), redact(c.accessToken), redact(c.accessTokenSecret))
}

// GoString covers %#v
func (c Credentials) GoString() string {
	return "sellsy." + c.String()
}

// MarshalZerologObject logs which values are set, not the values
func (c Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("consumer_key", c.consumerKey != "").
		Bool("consumer_secret", c.consumerSecret != "").
		Bool("access_token", c.accessToken != "").
		Bool("access_token_secret", c.accessTokenSecret != "")
}

func redact(v string) string {
	if v == "" {
		return "<unset>"
	}
	return "<redacted>"
}
