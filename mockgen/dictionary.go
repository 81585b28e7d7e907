package mockgen

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// DefaultDictionaryPath is read when no dictionary is given; a missing file falls back
// to the built-in words.
const DefaultDictionaryPath = "/usr/share/dict/words"

// built-in words used when the system dictionary is missing (windows, containers)
var fallbackWords = []string{
	"account", "album", "article", "author", "badge", "basket", "book",
	"branch", "build", "campaign", "card", "cart", "category", "channel",
	"comment", "company", "contact", "country", "coupon", "course", "customer",
	"device", "document", "event", "feature", "file", "folder", "friend",
	"group", "invoice", "issue", "item", "job", "label", "lesson", "library",
	"license", "member", "message", "milestone", "movie", "note", "order",
	"organization", "package", "page", "payment", "photo", "playlist",
	"product", "profile", "project", "question", "recipe", "release",
	"repository", "review", "room", "schedule", "shipment", "song", "store",
	"subscription", "survey", "task", "team", "ticket", "topic", "track",
	"trip", "vendor", "video", "wallet", "warehouse", "widget", "workspace",
	"amber", "brisk", "calm", "daring", "eager", "fancy", "gentle", "happy",
	"jolly", "keen", "lively", "mellow", "nimble", "proud", "quiet", "rapid",
	"silent", "swift", "tidy", "vivid", "witty", "zesty",
}

// Dictionary holds words for random selection.
type Dictionary struct {
	words []string
}

// NewDictionary builds a dictionary from words. An empty list uses the built-in words.
func NewDictionary(words []string) *Dictionary {
	if len(words) == 0 {
		words = fallbackWords
	}
	return &Dictionary{words: words}
}

// LoadDictionary loads words from a dictionary file, one per line.
func LoadDictionary(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDictionary(nil), nil
		}
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())

		// keep short alphabetic words, they read well as field values
		if len(word) >= 3 && len(word) <= 12 && isAlpha(word) {
			words = append(words, strings.ToLower(word))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("no valid words found in dictionary %s", path)
	}

	return &Dictionary{words: words}, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// Word returns a random word.
func (d *Dictionary) Word(rng *rand.Rand) string {
	if len(d.words) == 0 {
		return "word"
	}
	return d.words[rng.Intn(len(d.words))]
}

// Words returns n random words.
func (d *Dictionary) Words(n int, rng *rand.Rand) []string {
	if n <= 0 {
		return nil
	}

	result := make([]string, n)
	for i := 0; i < n; i++ {
		result[i] = d.Word(rng)
	}
	return result
}

// Title returns n random words with their first letter capitalised.
func (d *Dictionary) Title(n int, rng *rand.Rand) string {
	words := d.Words(n, rng)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func (d *Dictionary) Size() int {
	return len(d.words)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
