package sellsy

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1700000000, 0)

func fixedClock() time.Time { return fixedNow }

func seeded(seed int64) func(int) int {
	return rand.New(rand.NewSource(seed)).Intn
}

func TestURLEncode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a&b", "a%26b"},
		{`say "hi"`, "say%20%22hi%22"},
		{"é", "%C3%A9"},
		{"日本", "%E6%97%A5%E6%9C%AC"},
		{"a+b", "a%2Bb"},
		{"a/b=c?d", "a%2Fb%3Dc%3Fd"},
		{"-_.~", "-_.~"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, URLEncode(tt.in))
		})
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{"simple", NewCredentials("ck", "cs", "at", "ats"), "cs&ats"},
		{"reserved characters", NewCredentials("ck", "c&s", "at", `a"t`), "c%26s&a%22t"},
		{"empty secrets", NewCredentials("ck", "", "at", ""), "&"},
		{"keys do not matter", NewCredentials("other", "cs", "other", "ats"), "cs&ats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Signature(tt.creds))
		})
	}
}

func TestAuthenticator_Params(t *testing.T) {
	creds := NewCredentials("ck", "cs", "at", "ats")
	auth := NewAuthenticator(fixedClock, seeded(42))

	params := auth.Params(creds)

	keys := make([]string, 0, len(params))
	for _, p := range params {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{
		"oauth_consumer_key",
		"oauth_token",
		"oauth_nonce",
		"oauth_timestamp",
		"oauth_signature_method",
		"oauth_version",
		"oauth_signature",
	}, keys)

	jitter := seeded(42)(1000)
	assert.Equal(t, "ck", params.Get("oauth_consumer_key"))
	assert.Equal(t, "at", params.Get("oauth_token"))
	assert.Equal(t, Nonce(1700000000, jitter), params.Get("oauth_nonce"))
	assert.Equal(t, "1700000000", params.Get("oauth_timestamp"))
	assert.Equal(t, "PLAINTEXT", params.Get("oauth_signature_method"))
	assert.Equal(t, "1.0", params.Get("oauth_version"))
	assert.Equal(t, "cs&ats", params.Get("oauth_signature"))
	assert.Equal(t, "", params.Get("missing"))
}

func TestAuthenticator_Deterministic(t *testing.T) {
	creds := NewCredentials("ck", "cs", "at", "ats")

	first := NewAuthenticator(fixedClock, seeded(7)).Headers(creds)
	second := NewAuthenticator(fixedClock, seeded(7)).Headers(creds)

	assert.Equal(t, first, second)
}

func TestAuthenticator_Headers(t *testing.T) {
	creds := NewCredentials("ck", "cs&1", "tok", `ts"2`)
	auth := NewAuthenticator(fixedClock, func(int) int { return 5 })

	headers := auth.Headers(creds)
	require.Len(t, headers, 2)

	nonce := Nonce(1700000000, 5)
	want := `Authorization: OAuth oauth_consumer_key="ck", oauth_token="tok", oauth_nonce="` + nonce +
		`", oauth_timestamp="1700000000", oauth_signature_method="PLAINTEXT", oauth_version="1.0", ` +
		`oauth_signature="cs%25261%26ts%25222"`
	assert.Equal(t, want, headers[0])
	assert.Equal(t, "Expect:", headers[1])
}

func TestAuthenticator_EncodesNonASCII(t *testing.T) {
	creds := NewCredentials("clé", "s", "jeton àé", "t")
	header := NewAuthenticator(fixedClock, seeded(1)).Headers(creds)[0]

	assert.Contains(t, header, `oauth_consumer_key="cl%C3%A9"`)
	assert.Contains(t, header, `oauth_token="jeton%20%C3%A0%C3%A9"`)
	assert.Equal(t, 7, strings.Count(header, `="`))
}

func TestNonce(t *testing.T) {
	// md5("1700000005")
	assert.Equal(t, Nonce(1700000000, 5), Nonce(1700000005, 0))
	assert.Len(t, Nonce(1700000000, 0), 32)
	assert.NotEqual(t, Nonce(1700000000, 1), Nonce(1700000000, 2))
}

func TestAuthenticator_FreshPerCall(t *testing.T) {
	now := fixedNow
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	auth := NewAuthenticator(clock, func(int) int { return 0 })
	creds := NewCredentials("ck", "cs", "at", "ats")

	a := auth.Params(creds)
	b := auth.Params(creds)

	assert.NotEqual(t, a.Get("oauth_timestamp"), b.Get("oauth_timestamp"))
	assert.NotEqual(t, a.Get("oauth_nonce"), b.Get("oauth_nonce"))
}
