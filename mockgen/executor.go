package mockgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pb33f/gqlific/config"
	"github.com/pb33f/gqlific/gql"
	"github.com/pb33f/gqlific/motor/model"
)

// SampleResponse answers config.SampleQuery.
const SampleResponse = `{
  "data": {
    "users": [
      {
        "id": "1",
        "name": "Alice Johnson",
        "email": "alice@example.com",
        "posts": [
          { "id": "101", "title": "First Post about GraphQL" },
          { "id": "102", "title": "GraphQL is Fun and Powerful" }
        ]
      },
      {
        "id": "2",
        "name": "Bob Williams",
        "email": "bob@example.com",
        "posts": [
          { "id": "103", "title": "Hello World in APIs" }
        ]
      },
      {
        "id": "3",
        "name": "Charlie Brown",
        "email": "charlie@example.com",
        "posts": []
      }
    ]
  }
}`

// Options configure an Executor.
type Options struct {
	// Seed makes responses reproducible. The same query and seed always produce the
	// same response.
	Seed int64

	// MaxItems bounds the length of generated lists (default: 5).
	MaxItems int

	// Latency is waited before answering.
	Latency time.Duration

	// Dictionary supplies words for values (default: built-in words).
	Dictionary *Dictionary
}

// Executor answers GraphQL requests with generated data instead of calling a server.
type Executor struct {
	opts Options
	dict *Dictionary
}

func NewExecutor(opts Options) *Executor {
	dict := opts.Dictionary
	if dict == nil {
		dict = NewDictionary(nil)
	}
	return &Executor{opts: opts, dict: dict}
}

// Execute parses the query and builds a response shaped by its selection. The sample
// query gets the fixed sample response. Syntax errors and unknown operations are
// answered the way a server would, with a 400 and an errors list.
func (e *Executor) Execute(ctx context.Context, req *model.Request) (*model.Response, error) {
	start := time.Now()
	if req == nil {
		return nil, errors.New("nil request")
	}

	if e.opts.Latency > 0 {
		timer := time.NewTimer(e.opts.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, status := e.answer(req)
	return &model.Response{
		StatusCode: status,
		StatusText: http.StatusText(status),
		Duration:   time.Since(start),
		Body:       body,
	}, nil
}

func (e *Executor) answer(req *model.Request) ([]byte, int) {
	if SameQuery(req.Query, config.SampleQuery) {
		return []byte(SampleResponse), http.StatusOK
	}

	doc, err := gql.Parse(req.Query)
	if err != nil {
		var se *gql.SyntaxError
		if errors.As(err, &se) {
			return errorBody("Syntax Error: "+se.Message, se.Line, se.Column), http.StatusBadRequest
		}
		return errorBody(err.Error(), 0, 0), http.StatusBadRequest
	}

	op, err := doc.Operation(req.OperationName)
	if err != nil {
		return errorBody(err.Error(), 0, 0), http.StatusBadRequest
	}

	rng := rand.New(rand.NewSource(e.opts.Seed ^ int64(xxhash.Sum64String(req.Query))))
	gen := newDataGenerator(e.dict, rng, e.opts.MaxItems)

	body, err := json.MarshalIndent(object{{"data", gen.data(op)}}, "", "  ")
	if err != nil {
		return errorBody(fmt.Sprintf("failed to encode response: %v", err), 0, 0), http.StatusInternalServerError
	}
	return body, http.StatusOK
}

// SameQuery compares two documents ignoring whitespace layout.
func SameQuery(a, b string) bool {
	return strings.Join(strings.Fields(a), " ") == strings.Join(strings.Fields(b), " ")
}
