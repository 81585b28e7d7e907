package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/pb33f/gqlific/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSampleExplorer(t *testing.T) *schemaExplorer {
	t.Helper()
	s, err := schema.Parse([]byte(schema.SampleIntrospection))
	require.NoError(t, err)
	return newSchemaExplorer(s)
}

func TestSchemaExplorer_Navigate(t *testing.T) {
	e := newSampleExplorer(t)
	require.Len(t, e.matches, 7)

	selected, ok := e.selected()
	require.True(t, ok)
	assert.Equal(t, "Query", selected.Name)

	handled, _ := e.handleKey(press('j'))
	assert.True(t, handled)
	selected, _ = e.selected()
	assert.Equal(t, "User", selected.Name)

	e.handleKey(pressCode(tea.KeyUp))
	e.handleKey(pressCode(tea.KeyUp))
	assert.Equal(t, 0, e.cursor)

	handled, _ = e.handleKey(press('q'))
	assert.False(t, handled, "unbound keys fall through to the workbench")
}

func TestSchemaExplorer_Filter(t *testing.T) {
	e := newSampleExplorer(t)

	e.handleKey(press('/'))
	assert.True(t, e.typing)

	for _, r := range "usts" {
		e.handleKey(press(r))
	}
	require.Len(t, e.matches, 1)
	assert.Equal(t, "UserStatus", e.matches[0].Type.Name)

	e.handleKey(pressCode(tea.KeyEnter))
	assert.False(t, e.typing)
	assert.Equal(t, "usts", e.input.Value())

	out := ansi.Strip(e.render(100, 20))
	assert.Contains(t, out, "UserStatus")
	assert.Contains(t, out, "ACTIVE")

	handled, _ := e.handleKey(pressCode(tea.KeyEscape))
	assert.True(t, handled)
	assert.Len(t, e.matches, 7)
}

func TestSchemaExplorer_NoSchema(t *testing.T) {
	e := newSchemaExplorer(nil)
	_, ok := e.selected()
	assert.False(t, ok)
	assert.Contains(t, e.render(80, 10), "No schema loaded")
}

func TestVisibleWindow(t *testing.T) {
	start, end := visibleWindow(0, 5, 10)
	assert.Equal(t, [2]int{0, 5}, [2]int{start, end})

	start, end = visibleWindow(10, 20, 6)
	assert.Equal(t, [2]int{7, 13}, [2]int{start, end})

	start, end = visibleWindow(19, 20, 6)
	assert.Equal(t, [2]int{14, 20}, [2]int{start, end})
}

func TestHighlightMatched(t *testing.T) {
	assert.Equal(t, "User", highlightMatched("User", nil))
	assert.Equal(t, "User", ansi.Strip(highlightMatched("User", []int{0, 2})))
}
