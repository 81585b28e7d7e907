package capture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pb33f/harhar"
)

const (
	keyLog     = "log"
	keyVersion = "version"
	keyCreator = "creator"
	keyEntries = "entries"
)

// Document is the root of an HTTP Archive file.
type Document struct {
	Log Log `json:"log"`
}

type Log struct {
	Version string         `json:"version"`
	Creator harhar.Creator `json:"creator"`
	Pages   []harhar.Page  `json:"pages,omitempty"`
	Entries []harhar.Entry `json:"entries"`
}

// Capture is what Read found in a HAR document.
type Capture struct {
	Path    string
	Version string
	Creator harhar.Creator

	// Hash of the raw document, hex encoded.
	Hash string

	// TotalEntries counts every entry, GraphQL or not.
	TotalEntries int

	Operations []Operation
	ReadTime   time.Duration
}

// Load reads the HAR file at path.
func Load(path string) (*Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Read walks a HAR document entry by entry and keeps the GraphQL exchanges.
func Read(r io.Reader) (*Capture, error) {
	start := time.Now()
	hash := xxhash.New()

	content, err := io.ReadAll(io.TeeReader(r, hash))
	if err != nil {
		return nil, fmt.Errorf("failed to read har: %w", err)
	}

	c := &Capture{}
	if err := c.parseHAR(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to parse har: %w", err)
	}

	c.Hash = strconv.FormatUint(hash.Sum64(), 16)
	c.ReadTime = time.Since(start)
	return c, nil
}

func (c *Capture) parseHAR(r io.Reader) error {
	decoder := json.NewDecoder(r)

	if err := expectDelim(decoder, '{'); err != nil {
		return err
	}

	for decoder.More() {
		key, err := nextKey(decoder)
		if err != nil {
			return err
		}

		if key == keyLog {
			if err := c.parseLog(decoder); err != nil {
				return err
			}
			continue
		}
		if err := skipValue(decoder); err != nil {
			return err
		}
	}

	return nil
}

func (c *Capture) parseLog(decoder *json.Decoder) error {
	if err := expectDelim(decoder, '{'); err != nil {
		return err
	}

	for decoder.More() {
		key, err := nextKey(decoder)
		if err != nil {
			return err
		}

		switch key {
		case keyVersion:
			if err := decoder.Decode(&c.Version); err != nil {
				return err
			}
		case keyCreator:
			if err := decoder.Decode(&c.Creator); err != nil {
				return err
			}
		case keyEntries:
			if err := c.parseEntries(decoder); err != nil {
				return err
			}
		default:
			// pages and browser are not needed
			if err := skipValue(decoder); err != nil {
				return err
			}
		}
	}

	_, err := decoder.Token()
	return err
}

func (c *Capture) parseEntries(decoder *json.Decoder) error {
	if err := expectDelim(decoder, '['); err != nil {
		return err
	}

	index := 0
	for decoder.More() {
		var entry harhar.Entry
		if err := decoder.Decode(&entry); err != nil {
			return fmt.Errorf("failed to parse entry %d: %w", index, err)
		}

		c.Operations = append(c.Operations, operationsFromEntry(index, &entry)...)
		index++
	}
	c.TotalEntries = index

	_, err := decoder.Token()
	return err
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if token != want {
		return fmt.Errorf("expected %q, got %v", want, token)
	}
	return nil
}

func nextKey(decoder *json.Decoder) (string, error) {
	token, err := decoder.Token()
	if err != nil {
		return "", err
	}
	key, ok := token.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", token)
	}
	return key, nil
}

func skipValue(decoder *json.Decoder) error {
	var discard json.RawMessage
	return decoder.Decode(&discard)
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc *Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to write har: %w", err)
	}
	return nil
}
