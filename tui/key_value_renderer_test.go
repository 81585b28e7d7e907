package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/pb33f/gqlific/motor"
	"github.com/pb33f/gqlific/motor/model"
	"github.com/pb33f/gqlific/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResponseSections(t *testing.T) {
	assert.Nil(t, buildResponseSections(nil, nil, nil))

	resp := &model.Response{StatusCode: 200, StatusText: "OK", Duration: 12 * time.Millisecond, Body: []byte(`{"data":{}}`)}

	sections := buildResponseSections(resp, nil, nil)
	require.Len(t, sections, 2)
	assert.Equal(t, Line{"Status", "200 OK"}, sections[0].Lines[0])
	assert.Equal(t, Line{"Duration", "12ms"}, sections[0].Lines[1])
	assert.Equal(t, Line{"Source", "no array under data"}, sections[1].Lines[0])

	_, projectErr := motor.Project([]byte("{nope"))
	sections = buildResponseSections(resp, nil, projectErr)
	assert.Equal(t, "Error", sections[1].Lines[0].Key)

	table, err := motor.Project([]byte(`{"data":{"users":[{"id":"1","name":"A"}]}}`))
	require.NoError(t, err)
	sections = buildResponseSections(resp, table, nil)
	assert.Equal(t, []Line{{"Source", "users"}, {"Columns", "id, name"}, {"Rows", "1"}}, sections[1].Lines)
}

func TestBuildRowSections(t *testing.T) {
	table, err := motor.Project([]byte(`{"data":{"users":[{"id":"7","name":"A"}]}}`))
	require.NoError(t, err)

	sections := buildRowSections(table, 0)
	require.Len(t, sections, 1)
	assert.Equal(t, []Line{{"id", "7"}, {"name", "A"}}, sections[0].Lines)

	assert.Nil(t, buildRowSections(table, 3))
	assert.Nil(t, buildRowSections(nil, 0))
}

func TestBuildPairSections_SkipsPlaceholder(t *testing.T) {
	field := motor.NewField("headers", "", nil)
	sections := buildPairSections("Headers", field.Pairs())
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Lines)
}

func TestBuildTypeSections(t *testing.T) {
	s, err := schema.Parse([]byte(schema.SampleIntrospection))
	require.NoError(t, err)

	user, ok := s.Type("User")
	require.True(t, ok)

	sections := buildTypeSections(user)
	require.True(t, len(sections) >= 2)
	assert.Equal(t, "User", sections[0].Title)
	assert.Equal(t, "Fields", sections[1].Title)

	out := ansi.Strip(renderSections(sections, RenderOptions{Width: 80}))
	assert.Contains(t, out, "email")
}

func TestRenderSections_Truncates(t *testing.T) {
	out := ansi.Strip(renderSections([]Section{{Title: "T", Lines: []Line{
		{"key", "abcdefghijklmnopqrstuvwxyz"},
		{"empty", ""},
	}}}, RenderOptions{Width: 30, Truncate: true, KeyWidth: 10}))

	assert.Contains(t, out, "abcdefghijklmn...")
	assert.Contains(t, out, "(empty)")
}
