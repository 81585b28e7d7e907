package motor

// ViewMode selects which representation of a field is authoritative.
type ViewMode int

const (
	ModeKeyValue ViewMode = iota
	ModeRawJSON
)

func (m ViewMode) String() string {
	switch m {
	case ModeKeyValue:
		return "key-value"
	case ModeRawJSON:
		return "raw-json"
	default:
		return "unknown"
	}
}

// Field is one editable request field (variables, headers) that can be edited either
// as pairs or as raw JSON text. In key-value mode the store is authoritative and the
// text is its mirror; in raw mode the text is authoritative and the store is stale
// until the next successful toggle back.
type Field struct {
	name  string
	mode  ViewMode
	store *KVStore
	text  string
	ids   IDGenerator
}

// NewField seeds a field from text. Text that decodes to an object starts in key-value
// mode with its text re-encoded; anything else starts in raw mode, kept verbatim.
func NewField(name, seed string, ids IDGenerator) *Field {
	if ids == nil {
		ids = &CounterIDs{Prefix: name + "-"}
	}
	f := &Field{name: name, ids: ids}

	store, err := NewKVStoreFromText(seed, ids)
	if err != nil {
		f.mode = ModeRawJSON
		f.text = seed
		f.store = NewKVStore(nil, ids)
		return f
	}

	f.mode = ModeKeyValue
	f.store = store
	return f
}

// Name returns the field name given at construction.
func (f *Field) Name() string {
	return f.name
}

// Mode returns the active view mode.
func (f *Field) Mode() ViewMode {
	return f.mode
}

// Text returns the text to show in the raw editor and to submit with a request.
func (f *Field) Text() string {
	if f.mode == ModeKeyValue {
		return f.store.Text()
	}
	return f.text
}

// Pairs returns the rows for the structured editor. In raw mode these are stale.
func (f *Field) Pairs() []KeyValuePair {
	return f.store.Pairs()
}

// Snapshot returns the current pairs and text.
func (f *Field) Snapshot() Snapshot {
	return Snapshot{Pairs: f.Pairs(), Text: f.Text()}
}

// Toggle switches to the other representation. Leaving key-value mode always succeeds.
// Entering it decodes the current text; on failure the field is left exactly as it was
// and the *ParseError or *NotObjectError is returned.
func (f *Field) Toggle() (ViewMode, error) {
	if f.mode == ModeKeyValue {
		f.text = f.store.Text()
		f.mode = ModeRawJSON
		return f.mode, nil
	}

	store, err := NewKVStoreFromText(f.text, f.ids)
	if err != nil {
		return f.mode, err
	}

	f.store = store
	f.text = ""
	f.mode = ModeKeyValue
	return f.mode, nil
}

// SetText replaces the raw text. Only valid in raw mode.
func (f *Field) SetText(text string) error {
	if f.mode != ModeRawJSON {
		return ErrModeMismatch
	}
	f.text = text
	return nil
}

// Add appends a pair. Only valid in key-value mode.
func (f *Field) Add(key, value string) (Snapshot, error) {
	if f.mode != ModeKeyValue {
		return f.Snapshot(), ErrModeMismatch
	}
	return f.store.Add(key, value), nil
}

// Update edits a pair in place. Only valid in key-value mode.
func (f *Field) Update(id string, field PairField, value string) (Snapshot, error) {
	if f.mode != ModeKeyValue {
		return f.Snapshot(), ErrModeMismatch
	}
	return f.store.Update(id, field, value)
}

// Remove deletes a pair. Only valid in key-value mode.
func (f *Field) Remove(id string) (Snapshot, error) {
	if f.mode != ModeKeyValue {
		return f.Snapshot(), ErrModeMismatch
	}
	return f.store.Remove(id)
}

// QuickInsert inserts a predefined entry. Only valid in key-value mode.
func (f *Field) QuickInsert(key, value string) (Snapshot, error) {
	if f.mode != ModeKeyValue {
		return f.Snapshot(), ErrModeMismatch
	}
	return f.store.QuickInsert(key, value), nil
}

// Reset reseeds the field as NewField would, keeping its name and id generator.
func (f *Field) Reset(seed string) {
	*f = *NewField(f.name, seed, f.ids)
}
