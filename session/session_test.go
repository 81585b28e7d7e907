package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pb33f/gqlific/motor"
	"github.com/pb33f/gqlific/motor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersBody = `{"data":{"users":[{"id":"1","name":"Alice"},{"id":"2","name":"Bob"}]}}`

type recorder struct {
	requests []*model.Request
	body     string
	err      error
}

func (r *recorder) Execute(_ context.Context, req *model.Request) (*model.Response, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	return &model.Response{StatusCode: 200, StatusText: "OK", Body: []byte(r.body)}, nil
}

func ticking() func() time.Time {
	t := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newSession(exec Executor) *Session {
	return New(Options{
		Query:       "{ users { id name } }",
		Variables:   `{"first": 2}`,
		Headers:     `{"Accept": "application/json"}`,
		Environment: model.Environment{Name: "local", URL: "http://localhost:4000/graphql"},
		Executor:    exec,
		Clock:       ticking(),
	})
}

func TestRun_ExecutesAndProjects(t *testing.T) {
	rec := &recorder{body: usersBody}
	s := newSession(rec)

	resp, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	require.Len(t, rec.requests, 1)
	req := rec.requests[0]
	assert.Equal(t, "http://localhost:4000/graphql", req.Endpoint)
	assert.Equal(t, "{ users { id name } }", req.Query)
	assert.Equal(t, "{\n  \"first\": 2\n}", req.Variables)
	assert.Equal(t, "{\n  \"Accept\": \"application/json\"\n}", req.Headers)

	table := s.Projection()
	require.NotNil(t, table)
	assert.Equal(t, "users", table.Source)
	assert.Equal(t, []string{"id", "name"}, table.Columns)
	assert.NoError(t, s.ProjectionError())
	assert.Positive(t, s.Response().Duration)
}

func TestRun_RawVariablesAreSentVerbatim(t *testing.T) {
	rec := &recorder{body: `{"data":{}}`}
	s := newSession(rec)

	_, err := s.Variables().Toggle()
	require.NoError(t, err)
	require.NoError(t, s.Variables().SetText(`{"first": `))

	_, err = s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"first": `, rec.requests[0].Variables)
	assert.Nil(t, s.Projection())
}

func TestRun_MalformedHeadersBlock(t *testing.T) {
	rec := &recorder{body: usersBody}
	s := newSession(rec)

	_, err := s.Headers().Toggle()
	require.NoError(t, err)
	require.NoError(t, s.Headers().SetText(`["Accept"]`))

	_, err = s.Run(context.Background())
	require.Error(t, err)

	var noe *motor.NotObjectError
	assert.True(t, errors.As(err, &noe))
	assert.Empty(t, rec.requests)
	assert.Empty(t, s.History())
}

func TestRun_EmptyQuery(t *testing.T) {
	s := newSession(&recorder{})
	s.SetQuery("  \n")

	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestRun_NoExecutor(t *testing.T) {
	s := newSession(nil)
	_, err := s.Run(context.Background())
	assert.Error(t, err)
}

func TestRun_FailureKeepsPreviousResponse(t *testing.T) {
	rec := &recorder{body: usersBody}
	s := newSession(rec)

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	before := s.Response()

	rec.err = errors.New("connection refused")
	_, err = s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Same(t, before, s.Response())
	assert.NotNil(t, s.Projection())
}

func TestRun_InvalidResponseBody(t *testing.T) {
	s := newSession(&recorder{body: "<html>502</html>"})

	resp, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<html>502</html>", string(resp.Body))
	assert.Nil(t, s.Projection())

	var pe *motor.ParseError
	assert.True(t, errors.As(s.ProjectionError(), &pe))
}

func TestHistory_MostRecentFirstAndCollapsed(t *testing.T) {
	s := newSession(&recorder{body: usersBody})
	ctx := context.Background()

	_, err := s.Run(ctx)
	require.NoError(t, err)
	_, err = s.Run(ctx)
	require.NoError(t, err)
	require.Len(t, s.History(), 1)

	s.SetQuery("{ viewer { id } }")
	_, err = s.Run(ctx)
	require.NoError(t, err)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, "{ viewer { id } }", history[0].Query)
	assert.Equal(t, "{ users { id name } }", history[1].Query)
	assert.NotEqual(t, history[0].ID, history[1].ID)
	assert.True(t, history[0].Timestamp.After(history[1].Timestamp))
}

func TestHistory_Capped(t *testing.T) {
	s := New(Options{HistoryLimit: 3, Executor: &recorder{body: "{}"}, Clock: ticking()})
	for _, q := range []string{"{ a }", "{ b }", "{ c }", "{ d }"} {
		s.SetQuery(q)
		_, err := s.Run(context.Background())
		require.NoError(t, err)
	}

	history := s.History()
	require.Len(t, history, 3)
	assert.Equal(t, "{ d }", history[0].Query)
	assert.Equal(t, "{ b }", history[2].Query)

	s.ClearHistory()
	assert.Empty(t, s.History())
}

func TestRecall(t *testing.T) {
	s := newSession(&recorder{body: usersBody})
	_, err := s.Run(context.Background())
	require.NoError(t, err)
	id := s.History()[0].ID

	s.SetQuery("{ other }")
	s.Variables().Reset(`{"x": true}`)

	require.NoError(t, s.Recall(id))
	assert.Equal(t, "{ users { id name } }", s.Query())
	assert.Equal(t, "first", s.Variables().Pairs()[0].Key)

	var nfe *motor.NotFoundError
	assert.True(t, errors.As(s.Recall("missing"), &nfe))
}

func TestLoadItem(t *testing.T) {
	s := newSession(&recorder{})
	s.SetOperationName("Old")

	s.LoadItem(model.CollectionItem{
		ID:        "q1",
		Name:      "One user",
		Query:     "query One($id: ID!) { user(id: $id) { name } }",
		Variables: `{"id": "1"}`,
	})

	assert.Equal(t, "query One($id: ID!) { user(id: $id) { name } }", s.Query())
	assert.Empty(t, s.OperationName())
	assert.Equal(t, motor.ModeKeyValue, s.Variables().Mode())
	assert.Equal(t, "{\n  \"id\": 1\n}", s.Variables().Text())
	assert.Equal(t, "{}", s.Headers().Text())
}

func authorizationPairs(s *Session) []motor.KeyValuePair {
	var out []motor.KeyValuePair
	for _, p := range s.Headers().Pairs() {
		if p.Key == AuthorizationHeader {
			out = append(out, p)
		}
	}
	return out
}

func TestApplyEnvironment(t *testing.T) {
	s := New(Options{Headers: `{"Accept": "application/json"}`})

	require.NoError(t, s.ApplyEnvironment(model.Environment{Name: "prod", URL: "https://api", Token: "t0k"}))
	assert.Equal(t, "prod", s.Environment().Name)

	auth := authorizationPairs(s)
	require.Len(t, auth, 1)
	assert.Equal(t, "Bearer t0k", auth[0].Value)

	require.NoError(t, s.ApplyEnvironment(model.Environment{Name: "local", URL: "http://localhost"}))
	assert.Equal(t, "local", s.Environment().Name)
	assert.Empty(t, authorizationPairs(s), "a token-less environment must not inherit the previous token")
	assert.NotContains(t, s.Headers().Text(), "t0k")
	assert.Equal(t, "Accept", s.Headers().Pairs()[0].Key)
}

func TestApplyEnvironment_CyclingKeepsOneHeader(t *testing.T) {
	s := New(Options{Headers: `{"Accept": "application/json"}`})

	prod := model.Environment{Name: "prod", Token: "p"}
	staging := model.Environment{Name: "staging", Token: "s"}

	require.NoError(t, s.ApplyEnvironment(prod))
	require.NoError(t, s.ApplyEnvironment(staging))
	require.NoError(t, s.ApplyEnvironment(prod))

	auth := authorizationPairs(s)
	require.Len(t, auth, 1)
	assert.Equal(t, "Bearer p", auth[0].Value)
	assert.Len(t, s.Headers().Pairs(), 2)
}

func TestApplyEnvironment_CollapsesDuplicates(t *testing.T) {
	s := New(Options{Headers: `{"Accept": "json"}`})
	_, err := s.Headers().Add(AuthorizationHeader, "Bearer a")
	require.NoError(t, err)
	_, err = s.Headers().Add("authorization", "Bearer b")
	require.NoError(t, err)

	require.NoError(t, s.ApplyEnvironment(model.Environment{Name: "prod", Token: "c"}))
	assert.JSONEq(t, `{"Accept": "json", "Authorization": "Bearer c"}`, s.Headers().Text())

	require.NoError(t, s.ApplyEnvironment(model.Environment{Name: "local"}))
	assert.JSONEq(t, `{"Accept": "json"}`, s.Headers().Text())
}

func TestApplyEnvironment_RawHeaders(t *testing.T) {
	s := New(Options{Headers: "not json"})
	require.Equal(t, motor.ModeRawJSON, s.Headers().Mode())

	err := s.ApplyEnvironment(model.Environment{Name: "prod", URL: "https://api", Token: "t"})
	assert.ErrorIs(t, err, motor.ErrModeMismatch)
	assert.Equal(t, "prod", s.Environment().Name)

	assert.NoError(t, s.ApplyEnvironment(model.Environment{Name: "local"}))
	assert.Equal(t, "not json", s.Headers().Text())
}

func TestApplyEnvironment_RawHeadersWithToken(t *testing.T) {
	s := New(Options{Headers: `{"Authorization": "Bearer old"}`})
	_, err := s.Headers().Toggle()
	require.NoError(t, err)

	err = s.ApplyEnvironment(model.Environment{Name: "local"})
	assert.ErrorIs(t, err, motor.ErrModeMismatch)
	assert.Contains(t, s.Headers().Text(), "Bearer old", "raw text is never rewritten")
}

func TestSetResponse(t *testing.T) {
	s := New(Options{})
	s.SetResponse(&model.Response{StatusCode: 200, Body: []byte(usersBody)})
	require.NotNil(t, s.Projection())

	s.SetResponse(nil)
	assert.Nil(t, s.Projection())
	assert.Nil(t, s.Response())
}

func TestExecutorFunc(t *testing.T) {
	var got string
	s := New(Options{
		Query: "{ ping }",
		Executor: ExecutorFunc(func(_ context.Context, req *model.Request) (*model.Response, error) {
			got = req.Query
			return &model.Response{Body: []byte(`{"data":{"ping":"pong"}}`)}, nil
		}),
	})

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "{ ping }", got)
}

func TestExecute_NilResponse(t *testing.T) {
	s := New(Options{
		Query: "{ ping }",
		Executor: ExecutorFunc(func(context.Context, *model.Request) (*model.Response, error) {
			return nil, nil
		}),
	})

	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoResponse)
	assert.Nil(t, s.Response())
	assert.Len(t, s.History(), 1)
}

func TestExecute_NilRequest(t *testing.T) {
	s := newSession(&recorder{})
	_, err := s.Execute(context.Background(), nil)
	assert.Error(t, err)
}

// Execute runs on its own goroutine while the fields keep being edited; run with
// -race to check that it never reads them.
func TestExecute_ConcurrentWithFieldEdits(t *testing.T) {
	s := New(Options{
		Query:     "{ users { id } }",
		Variables: `{"first": 1}`,
		Executor: ExecutorFunc(func(context.Context, *model.Request) (*model.Response, error) {
			return &model.Response{StatusCode: 200, Body: []byte(usersBody)}, nil
		}),
	})

	req, err := s.Request()
	require.NoError(t, err)

	done := make(chan error)
	go func() {
		for i := 0; i < 200; i++ {
			if _, err := s.Execute(context.Background(), req); err != nil {
				done <- err
				return
			}
			_ = s.Projection()
			_ = s.History()
		}
		done <- nil
	}()

	for i := 0; i < 200; i++ {
		_, err := s.Variables().Add("k", "v")
		require.NoError(t, err)
		_, err = s.Headers().QuickInsert("X-Trace", "1")
		require.NoError(t, err)
	}

	require.NoError(t, <-done)
	assert.Equal(t, "{\n  \"first\": 1\n}", req.Variables, "the snapshot is unaffected by later edits")
	assert.NotNil(t, s.Projection())
}
