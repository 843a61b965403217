package sellsy

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFailure_OAuthProblem(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"oauth_problem=token_rejected", "token_rejected"},
		{"oauth_problem=signature_invalid&oauth_problem_advice=check", "signature_invalid"},
		{"Error: oauth_problem=nonce_used\n", "nonce_used"},
		{"all good", ""},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rf := &RequestFailure{Body: tt.body}
			assert.Equal(t, tt.want, rf.OAuthProblem())
		})
	}
}

func TestErrorClassification(t *testing.T) {
	rf := &RequestFailure{Method: "Infos.getInfos", Err: errors.New("timeout")}
	apiErr := &APIError{Method: "Infos.getInfos", Code: "E", Message: "bad"}

	wrappedRF := fmt.Errorf("calling: %w", rf)
	wrappedAPI := fmt.Errorf("calling: %w", apiErr)

	assert.True(t, IsRequestFailure(wrappedRF))
	assert.False(t, IsAPIError(wrappedRF))
	assert.True(t, IsAPIError(wrappedAPI))
	assert.False(t, IsRequestFailure(wrappedAPI))

	assert.Equal(t, "sellsy request Infos.getInfos failed: timeout", rf.Error())
	assert.Equal(t, "sellsy API error on Infos.getInfos: E: bad", apiErr.Error())
}

func TestErrorPayload_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ErrorPayload
	}{
		{"object", `{"code":"E_X","message":"bad"}`, ErrorPayload{Code: "E_X", Message: "bad"}},
		{"string", `"just text"`, ErrorPayload{Message: "just text"}},
		{"empty string", `""`, ErrorPayload{}},
		{"false", `false`, ErrorPayload{}},
		{"array message", `{"code":"E_X","message":["a","b"]}`, ErrorPayload{Code: "E_X", Message: `["a","b"]`}},
		{"null message", `{"code":"E_X","message":null}`, ErrorPayload{Code: "E_X"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ErrorPayload
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestBody_Settings(t *testing.T) {
	body := &RequestBody{Request: 1, IOMode: "json", DoIn: `{"method":"Stock.getList","params":{"x":1}}`}

	settings, err := body.Settings()
	require.NoError(t, err)
	assert.Equal(t, "Stock.getList", settings.Method)
	assert.Equal(t, map[string]any{"x": float64(1)}, settings.Params)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "abc", n: 5, want: "abc"},
		{name: "ascii", in: "abcdef", n: 3, want: "abc..."},
		// "é" is two bytes; cutting at 5 would split it
		{name: "multibyte boundary", in: "abcdé fin", n: 5, want: "abcd..."},
		{name: "after multibyte", in: "abcdé fin", n: 6, want: "abcdé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
