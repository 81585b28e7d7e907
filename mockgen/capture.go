package mockgen

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pb33f/gqlific/capture"
	"github.com/pb33f/gqlific/config"
	"github.com/pb33f/gqlific/motor/model"
	"github.com/pb33f/harhar"
)

// CaptureOptions configure a generated capture.
type CaptureOptions struct {
	Count    int    // number of exchanges (default: 10)
	Endpoint string // GraphQL URL recorded in every entry
	Seed     int64  // random seed for reproducibility (0 = use time)
	MaxItems int    // longest generated list

	Dictionary *Dictionary
}

// DefaultCaptureOptions provides sensible defaults.
var DefaultCaptureOptions = CaptureOptions{
	Count:    10,
	Endpoint: "https://api.example.com/graphql",
}

// GenerateCapture builds a HAR document of GraphQL exchanges answered by an Executor.
// The first exchange is always the sample query.
func GenerateCapture(ctx context.Context, opts CaptureOptions) (*capture.Document, error) {
	if opts.Count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", opts.Count)
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultCaptureOptions.Endpoint
	}
	if opts.Dictionary == nil {
		opts.Dictionary = NewDictionary(nil)
	}

	seed := opts.Seed
	start := epoch
	if seed == 0 {
		seed = time.Now().UnixNano()
		start = time.Now().Add(-time.Duration(opts.Count) * time.Second)
	}
	rng := rand.New(rand.NewSource(seed))

	exec := NewExecutor(Options{Seed: seed, MaxItems: opts.MaxItems, Dictionary: opts.Dictionary})

	entries := make([]harhar.Entry, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		req := randomRequest(i, opts.Endpoint, opts.Dictionary, rng)

		resp, err := exec.Execute(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to answer exchange %d: %w", i, err)
		}

		entry, err := exchangeEntry(req, resp, start.Add(time.Duration(i)*time.Second), rng)
		if err != nil {
			return nil, fmt.Errorf("failed to record exchange %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	return &capture.Document{
		Log: capture.Log{
			Version: "1.2",
			Creator: harhar.Creator{Name: "gqlific", Version: "1.0.0"},
			Entries: entries,
		},
	}, nil
}

// WriteCapture generates a capture and writes it to w.
func WriteCapture(ctx context.Context, w io.Writer, opts CaptureOptions) (int, error) {
	doc, err := GenerateCapture(ctx, opts)
	if err != nil {
		return 0, err
	}
	if err := capture.Write(w, doc); err != nil {
		return 0, err
	}
	return len(doc.Log.Entries), nil
}

// WriteCaptureFile generates a capture and writes it to path, creating directories.
func WriteCaptureFile(ctx context.Context, path string, opts CaptureOptions) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), config.DirPermissions); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return WriteCapture(ctx, file, opts)
}

func randomRequest(index int, endpoint string, dict *Dictionary, rng *rand.Rand) *model.Request {
	if index == 0 {
		return &model.Request{Endpoint: endpoint, OperationName: "GetUsersWithPosts", Query: config.SampleQuery}
	}

	noun := dict.Word(rng)
	name := "List" + capitalize(noun) + "s"
	fields := dict.Words(rng.Intn(3)+1, rng)

	query := fmt.Sprintf("query %s($first: Int) {\n  %ss(first: $first) {\n    id\n    name\n", name, noun)
	seen := map[string]bool{"id": true, "name": true}
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		query += "    " + f + "\n"
	}
	query += "  }\n}"

	return &model.Request{
		Endpoint:      endpoint,
		OperationName: name,
		Query:         query,
		Variables:     fmt.Sprintf(`{"first":%d}`, rng.Intn(20)+1),
	}
}

func exchangeEntry(req *model.Request, resp *model.Response, started time.Time, rng *rand.Rand) (harhar.Entry, error) {
	payload, err := req.Payload()
	if err != nil {
		return harhar.Entry{}, err
	}

	wait := float64(rng.Intn(300)) + rng.Float64()
	send := rng.Float64()
	receive := rng.Float64() * 5

	return harhar.Entry{
		Start: started.Format(time.RFC3339),
		Time:  send + wait + receive,
		Request: harhar.Request{
			Method:      "POST",
			URL:         req.Endpoint,
			HTTPVersion: "HTTP/2",
			Headers: []harhar.NameValuePair{
				{Name: "content-type", Value: "application/json"},
				{Name: "accept", Value: "application/graphql-response+json, application/json"},
				{Name: "user-agent", Value: "gqlific/1.0"},
			},
			Body:        harhar.BodyType{MIMEType: "application/json", Content: string(payload)},
			HeadersSize: -1,
			BodySize:    len(payload),
		},
		Response: harhar.Response{
			StatusCode:  resp.StatusCode,
			StatusText:  resp.StatusText,
			HTTPVersion: "HTTP/2",
			Headers: []harhar.NameValuePair{
				{Name: "content-type", Value: "application/graphql-response+json"},
			},
			Body: harhar.BodyResponseType{
				Size:     len(resp.Body),
				MIMEType: "application/graphql-response+json",
				Content:  string(resp.Body),
			},
			HeadersSize: -1,
			BodySize:    len(resp.Body),
		},
		Timings: harhar.Timings{Send: send, Wait: wait, Receive: receive},
	}, nil
}
