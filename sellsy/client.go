package sellsy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client represents a Sellsy API client.
//
// A Client keeps the last request and answer for diagnostics, so it must not
// be shared between goroutines without external locking. Use one Client per
// goroutine instead.
type Client struct {
	apiURL      string
	creds       Credentials
	auth        *Authenticator
	executor    Executor
	tlsPolicy   TLSPolicy
	limiter     *rate.Limiter
	observer    Observer
	collections CollectionFactory
	logger      zerolog.Logger

	lastRequest *RequestBody
	lastAnswer  *Response
}

// NewClient creates a new Sellsy client
func NewClient(apiURL string, creds Credentials, logger zerolog.Logger, opts ...Option) *Client {
	options := clientOptions{
		timeout:     defaultTimeout,
		tlsPolicy:   TLSPolicyScheme,
		collections: NewCollection,
	}
	for _, opt := range opts {
		opt(&options)
	}

	executor := options.executor
	if executor == nil {
		executor = NewHTTPExecutor(options.timeout, options.userAgent)
	}
	collections := options.collections
	if collections == nil {
		collections = NewCollection
	}

	return &Client{
		apiURL:      apiURL,
		creds:       creds,
		auth:        NewAuthenticator(options.nowFunc, options.intnFunc),
		executor:    executor,
		tlsPolicy:   options.tlsPolicy,
		limiter:     options.limiter,
		observer:    options.observer,
		collections: collections,
		logger:      logger,
	}
}

// APIURL returns the endpoint URL
func (c *Client) APIURL() string { return c.apiURL }

// SetAPIURL updates the endpoint URL
func (c *Client) SetAPIURL(apiURL string) { c.apiURL = apiURL }

// Credentials returns the current credentials
func (c *Client) Credentials() Credentials { return c.creds }

// SetCredentials replaces all four credentials at once
func (c *Client) SetCredentials(creds Credentials) { c.creds = creds }

func (c *Client) OAuthConsumerKey() string       { return c.creds.ConsumerKey() }
func (c *Client) OAuthConsumerSecret() string    { return c.creds.ConsumerSecret() }
func (c *Client) OAuthAccessToken() string       { return c.creds.AccessToken() }
func (c *Client) OAuthAccessTokenSecret() string { return c.creds.AccessTokenSecret() }

func (c *Client) SetOAuthConsumerKey(v string) { c.creds = c.creds.WithConsumerKey(v) }
func (c *Client) SetOAuthConsumerSecret(v string) {
	c.creds = c.creds.WithConsumerSecret(v)
}
func (c *Client) SetOAuthAccessToken(v string) { c.creds = c.creds.WithAccessToken(v) }
func (c *Client) SetOAuthAccessTokenSecret(v string) {
	c.creds = c.creds.WithAccessTokenSecret(v)
}

// TLSPolicy returns the active certificate verification policy
func (c *Client) TLSPolicy() TLSPolicy { return c.tlsPolicy }

// VerifyPeer reports whether the next call verifies the server certificate
func (c *Client) VerifyPeer() bool {
	return c.tlsPolicy.VerifyPeer(c.apiURL)
}

// LastRequest returns the body of the most recent call, or nil
func (c *Client) LastRequest() *RequestBody { return c.lastRequest }

// LastAnswer returns the most recently parsed answer, or nil
func (c *Client) LastAnswer() *Response { return c.lastAnswer }

// Collection returns an accessor bound to module
func (c *Client) Collection(module Module) *Collection {
	return c.collections(c, module)
}

// Infos returns account information for the current credentials
func (c *Client) Infos(ctx context.Context) (*Response, error) {
	return c.RequestAPI(ctx, RequestSettings{Method: "Infos.getInfos"})
}

// RequestAPI performs one signed call.
//
// It returns *RequestFailure when the exchange itself failed (transport
// errors, OAuth rejections, unparseable bodies) and *APIError when the API
// answered with status "error".
func (c *Client) RequestAPI(ctx context.Context, settings RequestSettings) (*Response, error) {
	start := time.Now()
	requestID := uuid.NewString()
	logger := c.logger.With().
		Str("request_id", requestID).
		Str("method", settings.Method).
		Logger()

	resp, outcome, err := c.requestAPI(ctx, settings, logger)

	elapsed := time.Since(start)
	if c.observer != nil {
		c.observer.ObserveCall(settings.Method, outcome, elapsed)
	}

	event := logger.Debug()
	if err != nil {
		event = event.Err(err)
	}
	event.Str("outcome", string(outcome)).Dur("elapsed", elapsed).Msg("Sellsy API call finished")

	return resp, err
}

func (c *Client) requestAPI(ctx context.Context, settings RequestSettings, logger zerolog.Logger) (*Response, Outcome, error) {
	doIn, err := json.Marshal(settings)
	if err != nil {
		return nil, OutcomeRequestFailure, &RequestFailure{
			Method: settings.Method,
			Err:    fmt.Errorf("failed to encode request: %w", err),
		}
	}

	body := &RequestBody{
		Request: 1,
		IOMode:  "json",
		DoIn:    string(doIn),
	}
	c.lastRequest = body

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, OutcomeRequestFailure, &RequestFailure{
				Method: settings.Method,
				Err:    fmt.Errorf("rate limiter wait: %w", err),
			}
		}
	}

	req := &HTTPRequest{
		Method:     http.MethodPost,
		URL:        c.apiURL,
		Headers:    c.auth.Headers(c.creds),
		Fields:     body.Fields(),
		VerifyPeer: c.VerifyPeer(),
	}

	logger.Debug().
		Str("url", c.apiURL).
		Bool("verify_peer", req.VerifyPeer).
		Object("credentials", c.creds).
		Msg("Making Sellsy API request")

	raw, err := c.executor.Execute(ctx, req)
	if err != nil {
		return nil, OutcomeRequestFailure, &RequestFailure{
			Method: settings.Method,
			Err:    err,
		}
	}

	// OAuth rejections come back as plain text, not JSON
	if strings.Contains(raw, "oauth_problem") {
		return nil, OutcomeRequestFailure, &RequestFailure{
			Method: settings.Method,
			Body:   raw,
			Err:    ErrOAuthProblem,
		}
	}

	answer, err := parseResponse(raw)
	if err != nil {
		c.lastAnswer = nil
		return nil, OutcomeRequestFailure, &RequestFailure{
			Method: settings.Method,
			Body:   raw,
			Err:    fmt.Errorf("%w: %v", ErrInvalidResponse, err),
		}
	}
	c.lastAnswer = answer

	if answer.IsError() {
		apiErr := &APIError{Method: settings.Method}
		if answer.Error != nil {
			apiErr.Code = answer.Error.Code
			apiErr.Message = answer.Error.Message
			apiErr.More = answer.Error.More
		}
		return nil, OutcomeAPIError, apiErr
	}

	return answer, OutcomeSuccess, nil
}
