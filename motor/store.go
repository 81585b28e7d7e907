package motor

// Snapshot is a consistent view of a store: the pairs and the JSON text derived from them.
type Snapshot struct {
	Pairs []KeyValuePair
	Text  string
}

// KVStore owns the ordered pairs of one editable field and keeps their JSON text
// mirror current. A store is not safe for concurrent use; callers serialize edits.
type KVStore struct {
	pairs []KeyValuePair
	text  string
	ids   IDGenerator
}

// NewKVStore creates a store over pairs. An empty list gets the placeholder pair.
// A nil generator uses a CounterIDs.
func NewKVStore(pairs []KeyValuePair, ids IDGenerator) *KVStore {
	if ids == nil {
		ids = &CounterIDs{}
	}
	s := &KVStore{
		pairs: clonePairs(pairs),
		ids:   ids,
	}
	s.ensurePlaceholder()
	s.reencode()
	return s
}

// NewKVStoreFromText decodes text into a new store sharing the given generator.
func NewKVStoreFromText(text string, ids IDGenerator) (*KVStore, error) {
	if ids == nil {
		ids = &CounterIDs{}
	}
	pairs, err := Decode(text, ids)
	if err != nil {
		return nil, err
	}
	return NewKVStore(pairs, ids), nil
}

// Pairs returns a copy of the current pairs.
func (s *KVStore) Pairs() []KeyValuePair {
	return clonePairs(s.pairs)
}

// Text returns the JSON text derived from the current pairs.
func (s *KVStore) Text() string {
	return s.text
}

// Len returns the number of pairs, placeholder included.
func (s *KVStore) Len() int {
	return len(s.pairs)
}

// Snapshot returns the current pairs and text.
func (s *KVStore) Snapshot() Snapshot {
	return Snapshot{Pairs: s.Pairs(), Text: s.text}
}

// Add appends a pair with a fresh id.
func (s *KVStore) Add(key, value string) Snapshot {
	s.pairs = append(s.pairs, KeyValuePair{ID: s.ids.NextID(), Key: key, Value: value})
	s.reencode()
	return s.Snapshot()
}

// Update sets one field of the pair with the given id, keeping its position.
func (s *KVStore) Update(id string, field PairField, newValue string) (Snapshot, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s.Snapshot(), &NotFoundError{ID: id}
	}

	switch field {
	case FieldKey:
		s.pairs[i].Key = newValue
	default:
		s.pairs[i].Value = newValue
	}

	s.reencode()
	return s.Snapshot(), nil
}

// Remove deletes the pair with the given id. Removing the last pair leaves the placeholder.
func (s *KVStore) Remove(id string) (Snapshot, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s.Snapshot(), &NotFoundError{ID: id}
	}

	s.pairs = append(s.pairs[:i], s.pairs[i+1:]...)
	s.ensurePlaceholder()
	s.reencode()
	return s.Snapshot(), nil
}

// QuickInsert fills a trailing placeholder in place, otherwise appends. It is how
// predefined entries are inserted without leaving a stray empty row behind.
func (s *KVStore) QuickInsert(key, value string) Snapshot {
	if n := len(s.pairs); n > 0 && s.pairs[n-1].IsPlaceholder() {
		s.pairs[n-1].Key = key
		s.pairs[n-1].Value = value
		s.reencode()
		return s.Snapshot()
	}
	return s.Add(key, value)
}

func (s *KVStore) indexOf(id string) int {
	for i, p := range s.pairs {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *KVStore) ensurePlaceholder() {
	if len(s.pairs) == 0 {
		s.pairs = append(s.pairs, KeyValuePair{ID: s.ids.NextID()})
	}
}

func (s *KVStore) reencode() {
	s.text = Encode(s.pairs)
}
