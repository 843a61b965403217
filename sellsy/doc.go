// Package sellsy provides a client for the Sellsy API.
//
// Every call is a single POST to one endpoint. The call itself travels as JSON
// in the do_in form field, and requests are signed with OAuth1 PLAINTEXT
// signatures, so the transport must be trusted.
//
// # Usage
//
//	creds := sellsy.NewCredentials(consumerKey, consumerSecret, token, tokenSecret)
//	client := sellsy.NewClient(sellsy.DefaultAPIURL, creds, logger,
//		sellsy.WithTimeout(30*time.Second),
//	)
//
//	// Call a method directly
//	resp, err := client.RequestAPI(ctx, sellsy.RequestSettings{
//		Method: "Document.getList",
//		Params: map[string]any{"doctype": "invoice"},
//	})
//
//	// Or through a module accessor
//	docs := client.Collection(sellsy.ModuleDocument)
//	resp, err = docs.Call(ctx, "getList", map[string]any{"doctype": "invoice"})
//
// # Error Handling
//
//   - RequestFailure: the exchange failed (transport, OAuth rejection, bad JSON)
//   - APIError: the API answered with status "error"
//
//	var apiErr *sellsy.APIError
//	if errors.As(err, &apiErr) {
//		log.Printf("%s: %s", apiErr.Code, apiErr.Message)
//	}
//
// # TLS
//
// By default certificates are verified only for https endpoints
// (TLSPolicyScheme). WithTLSPolicy makes this explicit.
//
// # Concurrency
//
// A Client records the last request and answer and is not safe for
// concurrent use. Create one Client per goroutine.
package sellsy
