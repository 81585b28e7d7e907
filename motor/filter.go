package motor

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// FilterResponse narrows a response with a JMESPath expression before projection,
// e.g. `{data: {users: data.users[?status=='ACTIVE']}}`. The result is re-encoded
// with encoding/json, so object members come back in sorted order.
func FilterResponse(response []byte, expression string) ([]byte, error) {
	if expression == "" {
		return response, nil
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	var data interface{}
	if err := json.Unmarshal(response, &data); err != nil {
		return nil, checkSyntax(response)
	}

	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return []byte("null"), nil
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal filtered response: %w", err)
	}
	return out, nil
}
