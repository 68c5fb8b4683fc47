package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the normalized result of every call made through Client.Request.
// Success=false is authoritative even when Error is empty.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Failed builds an unsuccessful envelope.
func Failed[T any](message string) Envelope[T] {
	return Envelope[T]{Success: false, Error: message}
}

// Err returns the envelope failure as an error, or nil on success.
func (e Envelope[T]) Err() error {
	if e.Success {
		return nil
	}
	if e.Error == "" {
		return fmt.Errorf("request failed")
	}
	return fmt.Errorf("%s", e.Error)
}

// normalizeBody turns a 2xx body into an envelope. Bodies that already carry a
// "success" key pass through; anything else is wrapped as successful data.
func normalizeBody(body []byte) (Envelope[json.RawMessage], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Envelope[json.RawMessage]{Success: true}, nil
	}

	if !json.Valid(trimmed) {
		var probe any
		return Envelope[json.RawMessage]{}, json.Unmarshal(trimmed, &probe)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err == nil && fields != nil {
		if rawSuccess, ok := fields["success"]; ok {
			env := Envelope[json.RawMessage]{Data: fields["data"]}
			var success bool
			if json.Unmarshal(rawSuccess, &success) == nil {
				env.Success = success
			}
			env.Error = stringField(fields, "error")
			env.Message = stringField(fields, "message")
			if !env.Success && env.Error == "" {
				env.Error = env.Message
			}
			return env, nil
		}
	}

	return Envelope[json.RawMessage]{Success: true, Data: json.RawMessage(trimmed)}, nil
}

// unwrapData strips up to depth extra {"data": ...} levels. It stops early when a
// level has no data key, so endpoints that only sometimes double-wrap still decode.
func unwrapData(data json.RawMessage, depth int) json.RawMessage {
	for i := 0; i < depth; i++ {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
			return data
		}
		inner, ok := fields["data"]
		if !ok {
			return data
		}
		data = inner
	}
	return data
}

// decodeEnvelope converts a raw envelope into a typed one after unwrapping depth levels.
func decodeEnvelope[T any](raw Envelope[json.RawMessage], depth int) Envelope[T] {
	out := Envelope[T]{Success: raw.Success, Error: raw.Error, Message: raw.Message}

	data := unwrapData(raw.Data, depth)
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return out
	}

	if err := json.Unmarshal(data, &out.Data); err != nil {
		if !raw.Success {
			return out
		}
		return Failed[T](fmt.Sprintf("failed to decode response: %v", err))
	}
	return out
}

// errorMessage extracts the human readable message of a structured error body.
func errorMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	if msg := stringField(fields, "error"); msg != "" {
		return msg
	}
	return stringField(fields, "message")
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// {"error": {"message": "..."}}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested.Message
	}
	return ""
}
