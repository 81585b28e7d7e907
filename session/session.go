package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pb33f/gqlific/motor"
	"github.com/pb33f/gqlific/motor/model"
)

const (
	// DefaultHistoryLimit caps the history when Options.HistoryLimit is unset
	DefaultHistoryLimit = 50

	AuthorizationHeader = "Authorization"
)

// ErrEmptyQuery is returned by Run when there is no query text to send.
var ErrEmptyQuery = errors.New("query is empty")

// ErrNoResponse is returned when an executor reports neither a response nor an error.
var ErrNoResponse = errors.New("executor returned no response")

// Executor sends a request somewhere and returns what came back.
type Executor interface {
	Execute(ctx context.Context, req *model.Request) (*model.Response, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, req *model.Request) (*model.Response, error)

func (f ExecutorFunc) Execute(ctx context.Context, req *model.Request) (*model.Response, error) {
	return f(ctx, req)
}

// Options configure a new Session.
type Options struct {
	Query         string
	OperationName string
	Variables     string
	Headers       string
	Environment   model.Environment
	HistoryLimit  int
	Executor      Executor
	Logger        *slog.Logger

	// Clock is used for history timestamps, time.Now when nil.
	Clock func() time.Time
}

// Session is one workbench: the query, its two editable fields, the environment it
// targets and what the last run produced.
//
// The mutex guards everything except the two fields, which belong to whoever edits
// them. Build the request with Request on that goroutine; Execute may then run
// anywhere since it never reads the fields.
type Session struct {
	mu sync.RWMutex

	query         string
	operationName string
	variables     *motor.Field
	headers       *motor.Field
	env           model.Environment

	history      []model.HistoryItem
	historyLimit int

	response   *model.Response
	projection *motor.Table
	projectErr error

	executor Executor
	logger   *slog.Logger
	clock    func() time.Time
}

// New creates a session. An executor is required to Run.
func New(opts Options) *Session {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Session{
		query:         opts.Query,
		operationName: opts.OperationName,
		variables:     motor.NewField("variables", opts.Variables, nil),
		headers:       motor.NewField("headers", opts.Headers, nil),
		env:           opts.Environment,
		historyLimit:  opts.HistoryLimit,
		executor:      opts.Executor,
		logger:        opts.Logger,
		clock:         opts.Clock,
	}
}

func (s *Session) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

func (s *Session) OperationName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.operationName
}

func (s *Session) SetOperationName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operationName = name
}

// Variables returns the variables field. Callers edit it directly; the session reads
// its text at Run time.
func (s *Session) Variables() *motor.Field {
	return s.variables
}

// Headers returns the headers field.
func (s *Session) Headers() *motor.Field {
	return s.headers
}

func (s *Session) Environment() model.Environment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.env
}

// SetEnvironment switches the target environment without touching the headers.
func (s *Session) SetEnvironment(env model.Environment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.env = env
}

// ApplyEnvironment switches to env and keeps a single Authorization header in step
// with it: the existing header is updated to env's token, or removed when env has
// none, and added only when missing. Raw headers are not rewritten; a raw text that
// would need changing is reported with ErrModeMismatch so the caller can prompt.
func (s *Session) ApplyEnvironment(env model.Environment) error {
	s.SetEnvironment(env)

	if s.headers.Mode() == motor.ModeRawJSON {
		if env.Token != "" || s.rawHasAuthorization() {
			return fmt.Errorf("failed to update %s header for %s: %w", AuthorizationHeader, env.Name, motor.ErrModeMismatch)
		}
		return nil
	}

	var ids []string
	for _, p := range s.headers.Pairs() {
		if strings.EqualFold(p.Key, AuthorizationHeader) {
			ids = append(ids, p.ID)
		}
	}

	remove := ids
	if env.Token != "" {
		value := "Bearer " + env.Token
		var err error
		if len(ids) == 0 {
			_, err = s.headers.QuickInsert(AuthorizationHeader, value)
		} else {
			_, err = s.headers.Update(ids[0], motor.FieldValue, value)
			remove = ids[1:]
		}
		if err != nil {
			return fmt.Errorf("failed to set %s header for %s: %w", AuthorizationHeader, env.Name, err)
		}
	}

	for _, id := range remove {
		if _, err := s.headers.Remove(id); err != nil {
			return fmt.Errorf("failed to remove %s header: %w", AuthorizationHeader, err)
		}
	}

	s.logger.Debug("applied environment", "environment", env.Name, "token", env.Token != "", "removed", len(remove))
	return nil
}

func (s *Session) rawHasAuthorization() bool {
	pairs, err := motor.Decode(s.headers.Text(), nil)
	if err != nil {
		return false
	}
	for _, p := range pairs {
		if strings.EqualFold(p.Key, AuthorizationHeader) {
			return true
		}
	}
	return false
}

// LoadItem replaces the query and re-seeds both fields from a saved item.
func (s *Session) LoadItem(item model.CollectionItem) {
	s.mu.Lock()
	s.query = item.Query
	s.operationName = ""
	s.mu.Unlock()

	s.variables.Reset(item.Variables)
	s.headers.Reset(item.Headers)
	s.logger.Debug("loaded collection item", "id", item.ID, "name", item.Name)
}

// Request builds the request Run would send. A headers field whose text does not
// decode to an object is an error since it cannot be turned into request headers.
func (s *Session) Request() (*model.Request, error) {
	s.mu.RLock()
	query := s.query
	op := s.operationName
	endpoint := s.env.URL
	s.mu.RUnlock()

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	headers := s.headers.Text()
	if _, err := motor.Decode(headers, nil); err != nil {
		return nil, fmt.Errorf("headers: %w", err)
	}

	return &model.Request{
		Endpoint:      endpoint,
		OperationName: op,
		Query:         query,
		Variables:     s.variables.Text(),
		Headers:       headers,
	}, nil
}

// Run builds the request and executes it. Call it from the goroutine that edits the
// fields; use Request and Execute to run elsewhere.
func (s *Session) Run(ctx context.Context) (*model.Response, error) {
	req, err := s.Request()
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, req)
}

// Execute records req in history, executes it and projects the response. A failed
// execution keeps the previous response. A response that is not valid JSON is kept
// but has no projection; ProjectionError reports why.
func (s *Session) Execute(ctx context.Context, req *model.Request) (*model.Response, error) {
	if s.executor == nil {
		return nil, errors.New("no executor configured")
	}
	if req == nil {
		return nil, errors.New("nil request")
	}
	s.record(req)

	start := s.clock()
	resp, err := s.executor.Execute(ctx, req)
	if err != nil {
		s.logger.Error("query failed", "endpoint", req.Endpoint, "error", err)
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	if resp == nil {
		return nil, ErrNoResponse
	}
	if resp.Duration == 0 {
		resp.Duration = s.clock().Sub(start)
	}

	table, projectErr := motor.Project(resp.Body)

	s.mu.Lock()
	s.response = resp
	s.projection = table
	s.projectErr = projectErr
	s.mu.Unlock()

	s.logger.Debug("query complete", "endpoint", req.Endpoint, "status", resp.StatusCode,
		"bytes", resp.Size(), "projected", table != nil)
	if projectErr != nil {
		s.logger.Warn("response is not valid JSON", "error", projectErr)
	}
	return resp, nil
}

// SetResponse installs a response obtained elsewhere, such as a captured exchange.
func (s *Session) SetResponse(resp *model.Response) {
	var table *motor.Table
	var projectErr error
	if resp != nil {
		table, projectErr = motor.Project(resp.Body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = resp
	s.projection = table
	s.projectErr = projectErr
}

func (s *Session) Response() *model.Response {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.response
}

// Projection returns the table projected from the last response, nil if there is none.
func (s *Session) Projection() *motor.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projection
}

func (s *Session) ProjectionError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectErr
}

// History returns executed queries, most recent first.
func (s *Session) History() []model.HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.HistoryItem, len(s.history))
	copy(out, s.history)
	return out
}

// HistoryItem looks up a history entry by id.
func (s *Session) HistoryItem(id string) (model.HistoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.history {
		if item.ID == id {
			return item, true
		}
	}
	return model.HistoryItem{}, false
}

// Recall restores the query and variables of a history entry.
func (s *Session) Recall(id string) error {
	item, ok := s.HistoryItem(id)
	if !ok {
		return &motor.NotFoundError{ID: id}
	}

	s.SetQuery(item.Query)
	s.variables.Reset(item.Variables)
	return nil
}

func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func (s *Session) record(req *model.Request) {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) > 0 && s.history[0].Query == req.Query && s.history[0].Variables == req.Variables {
		s.history[0].Timestamp = now
		return
	}

	item := model.HistoryItem{
		ID:        historyID(req.Query, now),
		Query:     req.Query,
		Variables: req.Variables,
		Timestamp: now,
	}

	s.history = append([]model.HistoryItem{item}, s.history...)
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
}

func historyID(query string, at time.Time) string {
	h := xxhash.New()
	_, _ = h.WriteString(query)
	_, _ = h.WriteString(strconv.FormatInt(at.UnixNano(), 10))
	return strconv.FormatUint(h.Sum64(), 16)
}
