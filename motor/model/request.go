package model

import "encoding/json"

// Request is one GraphQL operation ready to be executed.
type Request struct {
	// Endpoint is the GraphQL URL the request targets.
	Endpoint string `json:"endpoint"`

	// OperationName selects an operation when Query holds several.
	OperationName string `json:"operationName,omitempty"`

	// Query is the GraphQL document text.
	Query string `json:"query"`

	// Variables is the variables field text, normally a JSON object.
	Variables string `json:"variables,omitempty"`

	// Headers is the headers field text, a JSON object of header names to values.
	Headers string `json:"headers,omitempty"`
}

// Payload is the conventional GraphQL POST body for the request. Variables that are
// not valid JSON are sent as a string so the server reports the problem.
func (r Request) Payload() ([]byte, error) {
	body := struct {
		Query         string          `json:"query"`
		OperationName string          `json:"operationName,omitempty"`
		Variables     json.RawMessage `json:"variables,omitempty"`
	}{
		Query:         r.Query,
		OperationName: r.OperationName,
	}

	if r.Variables != "" {
		if json.Valid([]byte(r.Variables)) {
			body.Variables = json.RawMessage(r.Variables)
		} else {
			quoted, err := json.Marshal(r.Variables)
			if err != nil {
				return nil, err
			}
			body.Variables = quoted
		}
	}

	return json.Marshal(body)
}
