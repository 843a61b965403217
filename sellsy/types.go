package sellsy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Response statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RequestSettings is one logical API call
type RequestSettings struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

// MarshalJSON encodes nil params as an empty list, the form the API expects for
// calls without arguments.
func (r RequestSettings) MarshalJSON() ([]byte, error) {
	params := r.Params
	if params == nil {
		params = []any{}
	}
	return json.Marshal(struct {
		Method string `json:"method"`
		Params any    `json:"params"`
	}{r.Method, params})
}

// FormField is a single POST field
type FormField struct {
	Name  string
	Value string
}

// RequestBody holds the POST fields sent for a call
type RequestBody struct {
	Request int    `json:"request"`
	IOMode  string `json:"io_mode"`
	DoIn    string `json:"do_in"`
}

// Fields returns the body as ordered form fields
func (b *RequestBody) Fields() []FormField {
	return []FormField{
		{Name: "request", Value: strconv.Itoa(b.Request)},
		{Name: "io_mode", Value: b.IOMode},
		{Name: "do_in", Value: b.DoIn},
	}
}

// Settings decodes do_in back into the call it describes
func (b *RequestBody) Settings() (RequestSettings, error) {
	var settings RequestSettings
	if err := json.Unmarshal([]byte(b.DoIn), &settings); err != nil {
		return RequestSettings{}, fmt.Errorf("failed to decode do_in: %w", err)
	}
	return settings, nil
}

// Response is the parsed JSON envelope of an answer
type Response struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Body   json.RawMessage `json:"response,omitempty"`
	Error  *ErrorPayload   `json:"error,omitempty"`

	// Raw is the full answer as received
	Raw json.RawMessage `json:"-"`
}

// parseResponse decodes a raw answer into a Response
func parseResponse(raw string) (*Response, error) {
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, err
	}
	resp.Raw = json.RawMessage(raw)
	return &resp, nil
}

// IsError reports whether the envelope carries status "error"
func (r *Response) IsError() bool {
	return r.Status == StatusError
}

// Payload returns the success payload. The live API names it "response";
// "result" takes precedence when present.
func (r *Response) Payload() json.RawMessage {
	if len(r.Result) > 0 && !isJSONNull(r.Result) {
		return r.Result
	}
	return r.Body
}

// Decode unmarshals the payload into v
func (r *Response) Decode(v any) error {
	payload := r.Payload()
	if len(payload) == 0 {
		return fmt.Errorf("response has no payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// Map decodes the whole envelope into a generic map
func (r *Response) Map() (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(r.Raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return m, nil
}

// ErrorPayload is the error part of an envelope
type ErrorPayload struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	More    json.RawMessage `json:"more,omitempty"`
}

// UnmarshalJSON accepts the object form, a bare string message or any other
// JSON value, so a status "error" envelope always decodes
func (e *ErrorPayload) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var msg string
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}
		*e = ErrorPayload{Message: msg}
		return nil
	}
	if len(data) == 0 || data[0] != '{' {
		// Numbers and booleans show up on some success answers
		if string(data) == "false" {
			*e = ErrorPayload{}
			return nil
		}
		*e = ErrorPayload{Message: scalarString(data)}
		return nil
	}

	// Non-string code or message values are kept as their JSON text
	var obj struct {
		Code    json.RawMessage `json:"code"`
		Message json.RawMessage `json:"message"`
		More    json.RawMessage `json:"more"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		*e = ErrorPayload{Message: string(data)}
		return nil
	}
	*e = ErrorPayload{
		Code:    scalarString(obj.Code),
		Message: scalarString(obj.Message),
		More:    obj.More,
	}
	return nil
}

// scalarString renders a JSON string or number as a plain string
func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 || isJSONNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
