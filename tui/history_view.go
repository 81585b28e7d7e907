package tui

import (
	"fmt"
	"strings"

	"github.com/pb33f/gqlific/capture"
	"github.com/pb33f/gqlific/motor"
	"github.com/pb33f/gqlific/motor/model"
)

type entryKind int

const (
	entryHistory entryKind = iota
	entryCollection
	entryCaptured
)

// libraryEntry is one line of the History pane: something that can be loaded
// back into the workbench.
type libraryEntry struct {
	kind    entryKind
	group   string
	title   string
	detail  string
	history model.HistoryItem
	item    model.CollectionItem
	op      capture.Operation
}

// libraryEntries collects history, saved collections and captured operations in
// that order.
func (m *WorkbenchModel) libraryEntries() []libraryEntry {
	var entries []libraryEntry

	for _, h := range m.session.History() {
		entries = append(entries, libraryEntry{
			kind:    entryHistory,
			group:   "History",
			title:   firstLine(h.Query),
			detail:  h.Timestamp.Format("15:04:05"),
			history: h,
		})
	}

	for _, c := range m.cfg.Collections {
		for _, item := range c.Queries {
			entries = append(entries, libraryEntry{
				kind:   entryCollection,
				group:  c.Name,
				title:  item.Name,
				detail: firstLine(item.Query),
				item:   item,
			})
		}
	}

	if m.capture != nil {
		for _, op := range m.capture.Operations {
			entries = append(entries, libraryEntry{
				kind:   entryCaptured,
				group:  "Capture",
				title:  op.Name(),
				detail: fmt.Sprintf("%s %s", formatStatus(op.Status, ""), op.Endpoint),
				op:     op,
			})
		}
	}

	return entries
}

// loadLibraryEntry puts the selected entry into the workbench and moves to the
// Query pane.
func (m *WorkbenchModel) loadLibraryEntry(entry libraryEntry) error {
	switch entry.kind {
	case entryHistory:
		if err := m.session.Recall(entry.history.ID); err != nil {
			return err
		}
		m.status = "recalled query from history"

	case entryCollection:
		m.session.LoadItem(entry.item)
		m.status = "loaded " + entry.item.Name

	case entryCaptured:
		m.session.LoadItem(entry.op.Item())
		m.session.SetOperationName(entry.op.OperationName)
		m.session.SetResponse(entry.op.Response)
		m.status = "opened captured " + entry.op.Name()
	}

	m.logger.Debug("loaded library entry", "group", entry.group, "title", entry.title)
	m.variables.setField(m.session.Variables())
	m.headers.setField(m.session.Headers())
	m.filterExpr, m.filtered = "", nil
	m.refreshQuery()
	m.refreshResponse()
	m.pane = PaneQuery
	return nil
}

func (m *WorkbenchModel) renderLibrary(height int) string {
	entries := m.libraryEntries()
	if len(entries) == 0 {
		return FaintStyle.Render("Nothing here yet. Run a query, add collections to the config, or open a capture with --har.")
	}
	if m.libraryCursor >= len(entries) {
		m.libraryCursor = len(entries) - 1
	}

	preview := ""
	if sections := libraryPreview(entries[m.libraryCursor]); len(sections) > 0 {
		preview = renderSections(sections, RenderOptions{Width: m.width - panelPadding, Truncate: true})
		if lines := strings.Count(preview, "\n") + 2; lines < height/2 {
			height -= lines
		} else {
			preview = ""
		}
	}

	var b strings.Builder
	start, end := visibleWindow(m.libraryCursor, len(entries), height)
	group := ""
	for i := start; i < end; i++ {
		e := entries[i]
		if e.group != group {
			group = e.group
			b.WriteString(HeaderStyle.Render(group))
			b.WriteString("\n")
		}

		line := fmt.Sprintf("%s  %s", truncateString(e.title, m.width/2), FaintStyle.Render(truncateString(e.detail, m.width/3)))
		if i == m.libraryCursor {
			line = SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if preview != "" {
		b.WriteString("\n")
		b.WriteString(preview)
	}
	return b.String()
}

// libraryPreview lists the variables and headers loading the entry would bring in.
// Text that does not decode to an object is left out.
func libraryPreview(entry libraryEntry) []Section {
	var item model.CollectionItem
	switch entry.kind {
	case entryHistory:
		item.Variables = entry.history.Variables
	case entryCollection:
		item = entry.item
	case entryCaptured:
		item = entry.op.Item()
	}

	var sections []Section
	for _, f := range []struct{ title, text string }{
		{"Variables", item.Variables},
		{"Headers", item.Headers},
	} {
		if strings.TrimSpace(f.text) == "" {
			continue
		}
		pairs, err := motor.Decode(f.text, nil)
		if err != nil {
			continue
		}
		if s := buildPairSections(f.title, pairs); len(s[0].Lines) > 0 {
			sections = append(sections, s...)
		}
	}
	return sections
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i]) + " ..."
	}
	return s
}
