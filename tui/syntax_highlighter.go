package tui

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	highlightStyle     = "dracula"
	highlightFormatter = "terminal256"
)

// Highlight colours source with the chroma lexer registered under language
// ("graphql", "json"). Anything chroma can't handle comes back unchanged.
func Highlight(source, language string) string {
	if source == "" {
		return source
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return source
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get(highlightFormatter)
	if formatter == nil {
		return source
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}

	// chroma terminates the last line, the viewports don't want it
	return strings.TrimSuffix(buf.String(), "\n")
}

// HighlightGraphQL colours a GraphQL document.
func HighlightGraphQL(query string) string {
	return Highlight(query, "graphql")
}

// HighlightJSON colours JSON text without reformatting it.
func HighlightJSON(text string) string {
	return Highlight(text, "json")
}
