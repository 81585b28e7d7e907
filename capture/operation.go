package capture

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/cespare/xxhash/v2"
	"github.com/pb33f/gqlific/motor"
	"github.com/pb33f/gqlific/motor/model"
	"github.com/pb33f/harhar"
)

const (
	fieldQuery         = "query"
	fieldOperationName = "operationName"
	fieldVariables     = "variables"

	mimeGraphQL = "application/graphql"
)

// Operation is one GraphQL request found in a capture, with the response it got.
type Operation struct {
	ID string

	// Entry is the index of the HAR entry, Batch the position inside a batched body.
	Entry int
	Batch int

	Method        string
	Endpoint      string
	OperationName string
	Query         string

	// Variables is compact JSON text, empty when the request sent none.
	Variables string

	// Headers is the captured request headers as a JSON object.
	Headers string

	Status   int
	Started  time.Time
	Response *model.Response
}

// Name returns the operation name, or "anonymous".
func (o Operation) Name() string {
	if o.OperationName == "" {
		return "anonymous"
	}
	return o.OperationName
}

// Request rebuilds the request that was sent.
func (o Operation) Request() *model.Request {
	return &model.Request{
		Endpoint:      o.Endpoint,
		OperationName: o.OperationName,
		Query:         o.Query,
		Variables:     o.Variables,
		Headers:       o.Headers,
	}
}

// Item converts the operation to a collection item.
func (o Operation) Item() model.CollectionItem {
	return model.CollectionItem{
		ID:        o.ID,
		Name:      o.Name(),
		Query:     o.Query,
		Variables: o.Variables,
		Headers:   o.Headers,
	}
}

// Find looks an operation up by id, id prefix, operation name or position.
func (c *Capture) Find(ref string) (Operation, bool) {
	for _, op := range c.Operations {
		if op.ID == ref {
			return op, true
		}
	}
	for _, op := range c.Operations {
		if op.OperationName == ref {
			return op, true
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 0 && n < len(c.Operations) {
		return c.Operations[n], true
	}
	if len(ref) >= 4 {
		for _, op := range c.Operations {
			if strings.HasPrefix(op.ID, ref) {
				return op, true
			}
		}
	}
	return Operation{}, false
}

type payload struct {
	query         string
	operationName string
	variables     string
}

func operationsFromEntry(index int, entry *harhar.Entry) []Operation {
	var payloads []payload
	switch entry.Request.Method {
	case http.MethodPost:
		payloads = payloadsFromBody(entry.Request.Body)
	case http.MethodGet:
		if p, ok := payloadFromParams(entry.Request.QueryParams); ok {
			payloads = []payload{p}
		}
	}
	if len(payloads) == 0 {
		return nil
	}

	endpoint := entry.Request.URL
	if entry.Request.Method == http.MethodGet {
		endpoint = stripQuery(endpoint)
	}

	headers := encodeHeaders(entry.Request.Headers)
	response := &model.Response{
		StatusCode: entry.Response.StatusCode,
		StatusText: entry.Response.StatusText,
		Duration:   time.Duration(entry.Time * float64(time.Millisecond)),
		Body:       []byte(entry.Response.Body.Content),
	}

	var started time.Time
	if entry.Start != "" {
		if t, err := time.Parse(time.RFC3339, entry.Start); err == nil {
			started = t
		}
	}

	ops := make([]Operation, 0, len(payloads))
	for i, p := range payloads {
		ops = append(ops, Operation{
			ID:            operationID(index, i, endpoint, p),
			Entry:         index,
			Batch:         i,
			Method:        entry.Request.Method,
			Endpoint:      endpoint,
			OperationName: p.operationName,
			Query:         p.query,
			Variables:     p.variables,
			Headers:       headers,
			Status:        entry.Response.StatusCode,
			Started:       started,
			Response:      response,
		})
	}
	return ops
}

func payloadsFromBody(body harhar.BodyType) []payload {
	content := bytes.TrimSpace([]byte(body.Content))
	if len(content) == 0 {
		return nil
	}

	if strings.HasPrefix(body.MIMEType, mimeGraphQL) {
		return []payload{{query: string(content)}}
	}

	switch content[0] {
	case '{':
		if p, ok := payloadFromObject(content); ok {
			return []payload{p}
		}
	case '[':
		var batch []payload
		_, _ = jsonparser.ArrayEach(content, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
			if err != nil || dataType != jsonparser.Object {
				return
			}
			if p, ok := payloadFromObject(value); ok {
				batch = append(batch, p)
			}
		})
		return batch
	}
	return nil
}

func payloadFromObject(data []byte) (payload, bool) {
	query, err := jsonparser.GetString(data, fieldQuery)
	if err != nil || strings.TrimSpace(query) == "" {
		return payload{}, false
	}

	p := payload{query: query}
	if name, err := jsonparser.GetString(data, fieldOperationName); err == nil {
		p.operationName = name
	}

	value, dataType, _, err := jsonparser.Get(data, fieldVariables)
	if err == nil {
		switch dataType {
		case jsonparser.Object, jsonparser.Array:
			p.variables = compact(value)
		case jsonparser.String:
			// some clients send the variables object as an encoded string
			if s, err := jsonparser.ParseString(value); err == nil {
				p.variables = compact([]byte(s))
			}
		}
	}
	return p, true
}

func payloadFromParams(params []harhar.NameValuePair) (payload, bool) {
	var p payload
	for _, param := range params {
		value := param.Value
		switch param.Name {
		case fieldQuery:
			p.query = value
		case fieldOperationName:
			p.operationName = value
		case fieldVariables:
			p.variables = compact([]byte(value))
		}
	}
	return p, strings.TrimSpace(p.query) != ""
}

func compact(data []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return string(data)
	}
	return buf.String()
}

func stripQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// encodeHeaders keeps the headers a user would resend: pseudo headers and cookies are
// dropped, and a repeated name keeps its last value.
func encodeHeaders(headers []harhar.NameValuePair) string {
	pairs := make([]motor.KeyValuePair, 0, len(headers))
	for i, h := range headers {
		if h.Name == "" || strings.HasPrefix(h.Name, ":") || strings.EqualFold(h.Name, "cookie") {
			continue
		}
		pairs = append(pairs, motor.KeyValuePair{ID: strconv.Itoa(i), Key: h.Name, Value: h.Value})
	}
	return motor.Encode(pairs)
}

func operationID(entry, batch int, endpoint string, p payload) string {
	h := xxhash.New()
	_, _ = h.WriteString(strconv.Itoa(entry))
	_, _ = h.WriteString("/")
	_, _ = h.WriteString(strconv.Itoa(batch))
	_, _ = h.WriteString(endpoint)
	_, _ = h.WriteString(p.query)
	_, _ = h.WriteString(p.variables)
	return strconv.FormatUint(h.Sum64(), 16)
}
