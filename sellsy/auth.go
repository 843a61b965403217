package sellsy

import (
	"crypto/md5" //nolint:gosec // nonce only needs to be unique, not secret
	"encoding/hex"
	"math/rand"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	signatureMethod = "PLAINTEXT"
	oauthVersion    = "1.0"
	nonceJitter     = 1000
)

// AuthParam is one OAuth header field
type AuthParam struct {
	Key   string
	Value string
}

// AuthParams is the ordered list of OAuth header fields
type AuthParams []AuthParam

// Get returns the value for key, or "" when absent
func (p AuthParams) Get(key string) string {
	for _, param := range p {
		if param.Key == key {
			return param.Value
		}
	}
	return ""
}

// Authorization renders the params as an Authorization header line
func (p AuthParams) Authorization() string {
	values := make([]string, 0, len(p))
	for _, param := range p {
		values = append(values, param.Key+`="`+URLEncode(param.Value)+`"`)
	}
	return "Authorization: OAuth " + strings.Join(values, ", ")
}

// Authenticator computes the OAuth PLAINTEXT headers for a call
type Authenticator struct {
	nowFunc  func() time.Time
	intnFunc func(n int) int
}

// NewAuthenticator creates an Authenticator. A nil clock or random source
// falls back to the real time and math/rand.
func NewAuthenticator(now func() time.Time, intn func(n int) int) *Authenticator {
	if now == nil {
		now = time.Now
	}
	if intn == nil {
		intn = rand.Intn
	}
	return &Authenticator{
		nowFunc:  now,
		intnFunc: intn,
	}
}

// Params computes a fresh set of OAuth fields for creds
func (a *Authenticator) Params(creds Credentials) AuthParams {
	timestamp := a.nowFunc().Unix()

	return AuthParams{
		{Key: "oauth_consumer_key", Value: creds.ConsumerKey()},
		{Key: "oauth_token", Value: creds.AccessToken()},
		{Key: "oauth_nonce", Value: Nonce(timestamp, a.intnFunc(nonceJitter))},
		{Key: "oauth_timestamp", Value: strconv.FormatInt(timestamp, 10)},
		{Key: "oauth_signature_method", Value: signatureMethod},
		{Key: "oauth_version", Value: oauthVersion},
		{Key: "oauth_signature", Value: Signature(creds)},
	}
}

// Headers returns the Authorization header and an empty Expect header, which
// stops HTTP/1.1 clients from waiting on a 100-continue some servers never send.
func (a *Authenticator) Headers(creds Credentials) []string {
	return []string{a.Params(creds).Authorization(), "Expect:"}
}

// Signature is the PLAINTEXT signature: both secrets encoded and joined with &
func Signature(creds Credentials) string {
	return URLEncode(creds.ConsumerSecret()) + "&" + URLEncode(creds.AccessTokenSecret())
}

// Nonce hashes the timestamp shifted by jitter
func Nonce(timestamp int64, jitter int) string {
	sum := md5.Sum([]byte(strconv.FormatInt(timestamp+int64(jitter), 10))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// URLEncode percent-encodes s following RFC 3986: only A-Z a-z 0-9 - _ . ~ are
// left as is, and spaces become %20.
func URLEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
