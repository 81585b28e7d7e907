package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/pb33f/gqlific/motor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func pressCode(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func pressCtrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func typeText(e *fieldEditor, s string) {
	for _, r := range s {
		e.handleKey(press(r))
	}
}

func TestFieldEditor_AddPair(t *testing.T) {
	e := newFieldEditor(motor.NewField("headers", "", nil), nil)

	handled, _ := e.handleKey(press('a'))
	require.True(t, handled)
	assert.Equal(t, editKey, e.stage)

	typeText(e, "Accept")
	e.handleKey(pressCode(tea.KeyEnter))
	assert.Equal(t, editValue, e.stage)

	typeText(e, "text/plain")
	e.handleKey(pressCode(tea.KeyEnter))
	assert.False(t, e.editing())
	require.NoError(t, e.err)

	pairs := e.field.Pairs()
	require.Len(t, pairs, 2)
	assert.True(t, pairs[0].IsPlaceholder())
	assert.Equal(t, "Accept", pairs[1].Key)
	assert.Equal(t, "text/plain", pairs[1].Value)
	assert.Equal(t, 1, e.cursor)
}

func TestFieldEditor_EditExistingPair(t *testing.T) {
	e := newFieldEditor(motor.NewField("variables", `{"first":"2"}`, nil), nil)

	e.handleKey(pressCode(tea.KeyEnter))
	require.Equal(t, editKey, e.stage)
	assert.Equal(t, "first", e.input.Value())

	e.handleKey(pressCode(tea.KeyEnter))
	require.Equal(t, editValue, e.stage)
	assert.Equal(t, "2", e.input.Value())

	e.handleKey(pressCode(tea.KeyBackspace))
	typeText(e, "10")
	e.handleKey(pressCode(tea.KeyEnter))

	require.NoError(t, e.err)
	assert.JSONEq(t, `{"first":10}`, e.field.Text())
}

func TestFieldEditor_EscapeCancels(t *testing.T) {
	e := newFieldEditor(motor.NewField("variables", `{"a":"1"}`, nil), nil)

	e.handleKey(press('a'))
	typeText(e, "b")
	e.handleKey(pressCode(tea.KeyEscape))

	assert.False(t, e.editing())
	assert.Len(t, e.field.Pairs(), 1)
}

func TestFieldEditor_ToggleAndRaw(t *testing.T) {
	e := newFieldEditor(motor.NewField("variables", `{"a":"1"}`, nil), nil)

	e.handleKey(press('t'))
	require.Equal(t, motor.ModeRawJSON, e.field.Mode())

	e.handleKey(press('a'))
	assert.ErrorIs(t, e.err, motor.ErrModeMismatch)
	assert.Contains(t, describeFieldError(e.err), "key-value mode")

	e.handleKey(pressCode(tea.KeyEnter))
	require.Equal(t, editRaw, e.stage)
	e.area.SetValue(`{"b":"2"}`)
	e.handleKey(pressCtrl('s'))
	require.NoError(t, e.err)
	assert.False(t, e.editing())

	e.handleKey(press('t'))
	require.Equal(t, motor.ModeKeyValue, e.field.Mode())
	pairs := e.field.Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, "b", pairs[0].Key)
}

func TestFieldEditor_ToggleRejectsInvalidJSON(t *testing.T) {
	e := newFieldEditor(motor.NewField("variables", "", nil), nil)

	e.handleKey(press('t'))
	e.handleKey(pressCode(tea.KeyEnter))
	e.area.SetValue(`{"b":`)
	e.handleKey(pressCtrl('s'))
	require.NoError(t, e.err)

	e.handleKey(press('t'))
	require.Error(t, e.err)
	assert.Equal(t, motor.ModeRawJSON, e.field.Mode())

	msg := describeFieldError(e.err)
	assert.True(t, strings.HasPrefix(msg, "invalid JSON"))
	assert.Equal(t, 1, strings.Count(msg, "invalid JSON"))
}

func TestFieldEditor_RawEditKeepsLongMultilineText(t *testing.T) {
	seed := "{\n  \"a\": 1,\n\t\"b\": [\n" + strings.Repeat("x", 5000) + "\n]"
	e := newFieldEditor(motor.NewField("variables", "", nil), nil)
	e.handleKey(press('t'))
	require.NoError(t, e.field.SetText(seed))

	e.handleKey(pressCode(tea.KeyEnter))
	require.Equal(t, editRaw, e.stage)

	// enter is a newline inside the textarea, not a commit
	e.handleKey(pressCode(tea.KeyEnter))
	assert.Equal(t, editRaw, e.stage)
	e.handleKey(pressCode(tea.KeyBackspace))

	e.handleKey(pressCtrl('s'))
	require.NoError(t, e.err)
	assert.False(t, e.editing())
	assert.Equal(t, seed, e.field.Text())
}

func TestFieldEditor_RawEditMultiline(t *testing.T) {
	e := newFieldEditor(motor.NewField("variables", "", nil), nil)
	e.handleKey(press('t'))
	require.NoError(t, e.field.SetText("{}"))

	e.handleKey(press('e'))
	e.area.SetValue("{\n")
	typeText(e, `"first": 10`)
	e.handleKey(pressCode(tea.KeyEnter))
	typeText(e, "}")
	e.handleKey(pressCtrl('s'))

	assert.Equal(t, "{\n\"first\": 10\n}", e.field.Text())

	e.handleKey(press('e'))
	typeText(e, "junk")
	e.handleKey(pressCode(tea.KeyEscape))
	assert.False(t, e.editing())
	assert.Equal(t, "{\n\"first\": 10\n}", e.field.Text())
}

func TestFieldEditor_LongPairValue(t *testing.T) {
	long := strings.Repeat("v", 6000)
	e := newFieldEditor(motor.NewField("headers", `{"X":"1"}`, nil), nil)

	e.handleKey(pressCode(tea.KeyEnter))
	e.handleKey(pressCode(tea.KeyEnter))
	require.Equal(t, editValue, e.stage)
	e.input.SetValue(long)
	e.handleKey(pressCode(tea.KeyEnter))

	require.NoError(t, e.err)
	assert.Equal(t, long, e.field.Pairs()[0].Value)
}

func TestFieldEditor_RemoveAndQuickInsert(t *testing.T) {
	quick := []QuickEntry{{Key: "Authorization", Value: "Bearer abc"}}
	e := newFieldEditor(motor.NewField("headers", `{"X":"1"}`, nil), quick)

	e.handleKey(press('d'))
	pairs := e.field.Pairs()
	require.Len(t, pairs, 1)
	assert.True(t, pairs[0].IsPlaceholder())

	e.handleKey(press('1'))
	pairs = e.field.Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, "Authorization", pairs[0].Key)
	assert.Equal(t, "Bearer abc", pairs[0].Value)

	handled, _ := e.handleKey(press('2'))
	assert.False(t, handled)
}

func TestFieldEditor_Render(t *testing.T) {
	quick := []QuickEntry{{Key: "Accept", Value: "application/json"}}
	e := newFieldEditor(motor.NewField("headers", `{"X-Trace":"on"}`, nil), quick)

	out := e.render(80, true)
	assert.Contains(t, out, "Headers")
	assert.Contains(t, out, "key-value")
	assert.Contains(t, out, "X-Trace")
	assert.Contains(t, out, "1: Accept")

	e.handleKey(press('t'))
	out = e.render(80, true)
	assert.Contains(t, out, "raw-json")
	assert.NotContains(t, out, "1: Accept")
}

func TestQuickIndex(t *testing.T) {
	n, ok := quickIndex("1")
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	n, ok = quickIndex("9")
	assert.True(t, ok)
	assert.Equal(t, 8, n)

	_, ok = quickIndex("0")
	assert.False(t, ok)
	_, ok = quickIndex("10")
	assert.False(t, ok)
}
