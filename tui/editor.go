package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/pb33f/gqlific/motor"
)

type editStage int

const (
	editNone editStage = iota
	editKey
	editValue
	editRaw
)

const (
	rawEditorHeight = 12
	// bubbles textarea drops lines past this count
	maxRawLines = 10000
)

// QuickEntry is a predefined pair offered by number key in a field editor.
type QuickEntry struct {
	Key   string
	Value string
}

// fieldEditor edits one motor.Field. In key-value mode it walks the pairs with a
// cursor and edits key then value in a single line input; in raw mode it edits the
// whole text in a textarea, committed with ctrl+s since enter is a newline there.
type fieldEditor struct {
	field  *motor.Field
	cursor int
	stage  editStage
	input  textinput.Model
	area   textarea.Model

	// raw text as the textarea holds it when editing began
	seed string

	// pair being edited, empty when adding
	pendingID  string
	pendingKey string

	quick []QuickEntry
	err   error
}

func newFieldEditor(field *motor.Field, quick []QuickEntry) *fieldEditor {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 0

	area := textarea.New()
	area.Prompt = ""
	area.CharLimit = 0
	area.ShowLineNumbers = true
	area.SetHeight(rawEditorHeight)

	return &fieldEditor{field: field, input: input, area: area, quick: quick}
}

// editing reports whether the editor owns the keyboard.
func (e *fieldEditor) editing() bool {
	return e.stage != editNone
}

// setField points the editor at a new field, e.g. after a collection item is loaded.
func (e *fieldEditor) setField(field *motor.Field) {
	e.field = field
	e.cancel()
	e.clampCursor()
}

func (e *fieldEditor) visiblePairs() []motor.KeyValuePair {
	return e.field.Pairs()
}

func (e *fieldEditor) clampCursor() {
	n := len(e.visiblePairs())
	if e.cursor >= n {
		e.cursor = n - 1
	}
	if e.cursor < 0 {
		e.cursor = 0
	}
}

func (e *fieldEditor) begin(stage editStage, value string) tea.Cmd {
	e.stage = stage
	e.input.SetValue(value)
	e.input.CursorEnd()
	return e.input.Focus()
}

func (e *fieldEditor) beginRaw() tea.Cmd {
	text := e.field.Text()
	if lines := strings.Count(text, "\n") + 1; lines > maxRawLines {
		e.err = fmt.Errorf("raw text has %d lines, the editor holds at most %d", lines, maxRawLines)
		return nil
	}
	e.stage = editRaw
	e.area.SetValue(text)
	e.seed = e.area.Value()
	return e.area.Focus()
}

func (e *fieldEditor) cancel() {
	e.stage = editNone
	e.pendingID = ""
	e.pendingKey = ""
	e.seed = ""
	e.input.Blur()
	e.area.Blur()
}

// handleKey reacts to a key press. handled is false when the key means nothing to
// the editor and the caller may use it.
func (e *fieldEditor) handleKey(msg tea.KeyPressMsg) (handled bool, cmd tea.Cmd) {
	if e.editing() {
		return true, e.handleEditingKey(msg)
	}

	key := msg.String()
	e.err = nil

	switch key {
	case "t":
		if _, err := e.field.Toggle(); err != nil {
			e.err = err
		}
		e.clampCursor()
		return true, nil

	case "up", "k":
		if e.field.Mode() == motor.ModeKeyValue && e.cursor > 0 {
			e.cursor--
		}
		return true, nil

	case "down", "j":
		if e.field.Mode() == motor.ModeKeyValue && e.cursor < len(e.visiblePairs())-1 {
			e.cursor++
		}
		return true, nil

	case "enter", "e":
		if e.field.Mode() == motor.ModeRawJSON {
			return true, e.beginRaw()
		}
		pairs := e.visiblePairs()
		if len(pairs) == 0 {
			return true, nil
		}
		e.pendingID = pairs[e.cursor].ID
		return true, e.begin(editKey, pairs[e.cursor].Key)

	case "a":
		if e.field.Mode() == motor.ModeRawJSON {
			e.err = motor.ErrModeMismatch
			return true, nil
		}
		e.pendingID = ""
		return true, e.begin(editKey, "")

	case "d", "delete":
		if e.field.Mode() == motor.ModeRawJSON {
			e.err = motor.ErrModeMismatch
			return true, nil
		}
		pairs := e.visiblePairs()
		if len(pairs) == 0 {
			return true, nil
		}
		if _, err := e.field.Remove(pairs[e.cursor].ID); err != nil {
			e.err = err
		}
		e.clampCursor()
		return true, nil
	}

	if n, ok := quickIndex(key); ok && n < len(e.quick) {
		q := e.quick[n]
		if _, err := e.field.QuickInsert(q.Key, q.Value); err != nil {
			e.err = err
			return true, nil
		}
		e.cursor = len(e.visiblePairs()) - 1
		return true, nil
	}

	return false, nil
}

func (e *fieldEditor) handleEditingKey(msg tea.KeyPressMsg) tea.Cmd {
	if e.stage == editRaw {
		switch msg.String() {
		case "esc":
			e.cancel()
			return nil
		case "ctrl+s":
			e.commit()
			return nil
		}
		var cmd tea.Cmd
		e.area, cmd = e.area.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "esc":
		e.cancel()
		return nil

	case "enter":
		e.commit()
		if e.stage == editValue {
			return e.input.Focus()
		}
		return nil
	}

	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd
}

// commit applies the input to the field and moves to the next stage.
func (e *fieldEditor) commit() {
	value := e.input.Value()

	switch e.stage {
	case editKey:
		e.pendingKey = value
		existing := ""
		for _, p := range e.visiblePairs() {
			if p.ID == e.pendingID {
				existing = p.Value
			}
		}
		e.stage = editValue
		e.input.SetValue(existing)
		e.input.CursorEnd()
		return

	case editValue:
		var err error
		if e.pendingID == "" {
			_, err = e.field.Add(e.pendingKey, value)
			if err == nil {
				e.cursor = len(e.visiblePairs()) - 1
			}
		} else {
			if _, err = e.field.Update(e.pendingID, motor.FieldKey, e.pendingKey); err == nil {
				_, err = e.field.Update(e.pendingID, motor.FieldValue, value)
			}
		}
		e.err = err

	case editRaw:
		// the textarea normalises tabs and line endings, leave untouched text alone
		if text := e.area.Value(); text != e.seed {
			e.err = e.field.SetText(text)
		}
	}

	e.cancel()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// quickIndex maps "1".."9" to 0..8.
func quickIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}

func (e *fieldEditor) render(width int, focused bool) string {
	var b strings.Builder

	title := HeaderStyle.Render(capitalize(e.field.Name()))
	mode := FaintStyle.Render(" [" + e.field.Mode().String() + "]")
	b.WriteString(title + mode)
	b.WriteString("\n\n")

	switch {
	case e.stage == editRaw:
		e.area.SetWidth(width)
		b.WriteString(e.area.View())
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("ctrl+s: save  esc: cancel"))
		b.WriteString("\n")
	case e.field.Mode() == motor.ModeRawJSON:
		b.WriteString(HighlightJSON(e.field.Text()))
		b.WriteString("\n")
	default:
		b.WriteString(e.renderPairs(width, focused))
	}

	if e.editing() && e.stage != editRaw {
		b.WriteString("\n")
		b.WriteString(TitleStyle.Render(e.stageLabel() + ": "))
		b.WriteString(e.input.View())
		b.WriteString("\n")
	}

	if len(e.quick) > 0 && e.field.Mode() == motor.ModeKeyValue {
		b.WriteString("\n")
		for i, q := range e.quick {
			if i >= 9 {
				break
			}
			b.WriteString(HelpStyle.Render(fmt.Sprintf("%d: %s  ", i+1, q.Key)))
		}
		b.WriteString("\n")
	}

	if e.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(describeFieldError(e.err)))
		b.WriteString("\n")
	}

	return b.String()
}

func (e *fieldEditor) renderPairs(width int, focused bool) string {
	pairs := e.visiblePairs()
	keyWidth := width * 3 / 10
	if keyWidth < 12 {
		keyWidth = 12
	}

	var b strings.Builder
	for i, p := range pairs {
		key, value := p.Key, p.Value
		if p.IsPlaceholder() {
			key = FaintStyle.Render("(new)")
		}

		line := fmt.Sprintf("%s  %s", keyStyleBase.Width(keyWidth).Render(key), value)
		if focused && i == e.cursor {
			line = SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (e *fieldEditor) stageLabel() string {
	if e.stage == editKey {
		return "key"
	}
	return "value"
}

// describeFieldError turns the core errors into something a person can act on.
func describeFieldError(err error) string {
	var parseErr *motor.ParseError
	var notObject *motor.NotObjectError
	switch {
	case errors.Is(err, motor.ErrModeMismatch):
		return "switch to key-value mode (t) to edit pairs"
	case errors.As(err, &parseErr):
		return parseErr.Error()
	case errors.As(err, &notObject):
		return notObject.Error()
	default:
		return err.Error()
	}
}
