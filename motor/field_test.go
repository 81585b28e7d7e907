package motor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewField_ObjectSeedStartsKeyValue(t *testing.T) {
	f := NewField("variables", `{"id":"1","first":10}`, nil)

	assert.Equal(t, ModeKeyValue, f.Mode())
	assert.Equal(t, "{\n  \"id\": 1,\n  \"first\": 10\n}", f.Text())
	require.Len(t, f.Pairs(), 2)
	assert.Equal(t, "variables-1", f.Pairs()[0].ID)
}

func TestNewField_BlankSeedStartsKeyValue(t *testing.T) {
	f := NewField("headers", "", nil)

	assert.Equal(t, ModeKeyValue, f.Mode())
	assert.Equal(t, "{}", f.Text())
	require.Len(t, f.Pairs(), 1)
	assert.True(t, f.Pairs()[0].IsPlaceholder())
}

func TestNewField_InvalidSeedStartsRaw(t *testing.T) {
	seeds := []string{`{"id": `, `[1, 2, 3]`, `  "just text" `, "null"}
	for _, seed := range seeds {
		f := NewField("variables", seed, nil)
		assert.Equal(t, ModeRawJSON, f.Mode(), "seed %q", seed)
		assert.Equal(t, seed, f.Text(), "seed %q", seed)
	}
}

func TestField_ToggleFailureLeavesStateUnchanged(t *testing.T) {
	f := NewField("variables", "[1,2,3]", nil)
	require.Equal(t, ModeRawJSON, f.Mode())

	mode, err := f.Toggle()
	require.Error(t, err)

	var noe *NotObjectError
	assert.True(t, errors.As(err, &noe))
	assert.Equal(t, ModeRawJSON, mode)
	assert.Equal(t, ModeRawJSON, f.Mode())
	assert.Equal(t, "[1,2,3]", f.Text())
}

func TestField_ToggleParseError(t *testing.T) {
	f := NewField("variables", `{"a": 1}`, nil)
	_, err := f.Toggle()
	require.NoError(t, err)

	require.NoError(t, f.SetText(`{"a": 1,`))
	mode, err := f.Toggle()

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ModeRawJSON, mode)
	assert.Equal(t, `{"a": 1,`, f.Text())
}

func TestField_ToggleRoundTrip(t *testing.T) {
	f := NewField("variables", `{"a": 1}`, nil)

	mode, err := f.Toggle()
	require.NoError(t, err)
	assert.Equal(t, ModeRawJSON, mode)
	assert.Equal(t, "{\n  \"a\": 1\n}", f.Text())

	require.NoError(t, f.SetText(`{"b": "two", "c": [1]}`))

	mode, err = f.Toggle()
	require.NoError(t, err)
	assert.Equal(t, ModeKeyValue, mode)

	got := f.Pairs()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Key)
	assert.Equal(t, "two", got[0].Value)
	assert.Equal(t, "c", got[1].Key)
	assert.Equal(t, "[1]", got[1].Value)
	assert.Equal(t, "{\n  \"b\": \"two\",\n  \"c\": [\n    1\n  ]\n}", f.Text())
}

func TestField_RawEditsDoNotTouchStore(t *testing.T) {
	f := NewField("headers", `{"Accept": "application/json"}`, nil)
	before := f.Pairs()

	_, err := f.Toggle()
	require.NoError(t, err)
	require.NoError(t, f.SetText("not json at all"))

	assert.Equal(t, before, f.Pairs())
	assert.Equal(t, "not json at all", f.Text())
}

func TestField_ModeMismatch(t *testing.T) {
	f := NewField("variables", `{"a": 1}`, nil)

	err := f.SetText(`{"b": 2}`)
	assert.ErrorIs(t, err, ErrModeMismatch)
	assert.Equal(t, "{\n  \"a\": 1\n}", f.Text())

	_, err = f.Toggle()
	require.NoError(t, err)

	snap, err := f.Add("b", "2")
	assert.ErrorIs(t, err, ErrModeMismatch)
	assert.Equal(t, "{\n  \"a\": 1\n}", snap.Text)

	_, err = f.Update(f.Pairs()[0].ID, FieldValue, "3")
	assert.ErrorIs(t, err, ErrModeMismatch)

	_, err = f.Remove(f.Pairs()[0].ID)
	assert.ErrorIs(t, err, ErrModeMismatch)

	_, err = f.QuickInsert("k", "v")
	assert.ErrorIs(t, err, ErrModeMismatch)

	assert.Equal(t, "{\n  \"a\": 1\n}", f.Text())
}

func TestField_EditsRouteThroughStore(t *testing.T) {
	f := NewField("headers", "", nil)

	snap, err := f.QuickInsert("Authorization", "Bearer t")
	require.NoError(t, err)
	require.Len(t, snap.Pairs, 1)

	snap, err = f.Add("X-Debug", "true")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"Authorization\": \"Bearer t\",\n  \"X-Debug\": true\n}", snap.Text)
	assert.Equal(t, snap.Text, f.Text())

	snap, err = f.Update(snap.Pairs[1].ID, FieldValue, "off")
	require.NoError(t, err)
	assert.Contains(t, snap.Text, `"X-Debug": "off"`)

	_, err = f.Update("nope", FieldValue, "x")
	var nfe *NotFoundError
	assert.True(t, errors.As(err, &nfe))
}

func TestField_Reset(t *testing.T) {
	f := NewField("variables", `{"a": 1}`, nil)
	f.Reset("[]")

	assert.Equal(t, "variables", f.Name())
	assert.Equal(t, ModeRawJSON, f.Mode())
	assert.Equal(t, "[]", f.Text())

	f.Reset(`{"z": true}`)
	assert.Equal(t, ModeKeyValue, f.Mode())
	assert.Equal(t, "z", f.Pairs()[0].Key)
}

func TestViewMode_String(t *testing.T) {
	assert.Equal(t, "key-value", ModeKeyValue.String())
	assert.Equal(t, "raw-json", ModeRawJSON.String())
}
