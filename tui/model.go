package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/pb33f/gqlific/capture"
	"github.com/pb33f/gqlific/config"
	"github.com/pb33f/gqlific/gql"
	"github.com/pb33f/gqlific/motor"
	"github.com/pb33f/gqlific/schema"
	"github.com/pb33f/gqlific/session"
)

// Pane is one tab of the workbench.
type Pane int

const (
	PaneQuery Pane = iota
	PaneVariables
	PaneHeaders
	PaneResponse
	PaneTable
	PaneSchema
	PaneHistory
	paneCount
)

var paneNames = [paneCount]string{"Query", "Variables", "Headers", "Response", "Table", "Schema", "History"}

func (p Pane) String() string {
	if p < 0 || p >= paneCount {
		return "Unknown"
	}
	return paneNames[p]
}

// Modal is an overlay drawn instead of the active pane.
type Modal int

const (
	ModalNone Modal = iota
	ModalFilter
	ModalRowDetail
)

// Options configure a workbench.
type Options struct {
	Session *session.Session
	Config  *config.Config

	// Schema is shown in the explorer until SchemaPath, when set, is loaded.
	Schema     *schema.Schema
	SchemaPath string

	// CapturePath is a HAR file whose GraphQL operations are listed in History;
	// Operation selects one to open.
	CapturePath string
	Operation   string

	// QueryPath is watched and reloaded into the query when it changes.
	QueryPath string

	// Clipboard receives copied text, the system clipboard when nil.
	Clipboard func(string) error

	Logger *slog.Logger
}

// WorkbenchModel is the bubbletea model of the GraphQL workbench.
type WorkbenchModel struct {
	session *session.Session
	cfg     *config.Config
	logger  *slog.Logger
	copy    func(string) error

	pane     Pane
	modal    Modal
	width    int
	height   int
	ready    bool
	quitting bool

	queryViewport    viewport.Model
	responseViewport viewport.Model
	detailViewport   viewport.Model

	table      table.Model
	rows       []table.Row
	projection *motor.Table

	filterInput textinput.Model
	filterExpr  string
	filtered    []byte
	filterErr   error

	variables *fieldEditor
	headers   *fieldEditor
	search    *responseSearch
	explorer  *schemaExplorer

	libraryCursor int
	capture       *capture.Capture

	capturePath  string
	schemaPath   string
	operationRef string

	loadState      LoadState
	loadingSpinner spinner.Model
	loadTime       time.Duration
	running        bool

	watcher *fileWatcher

	status string
	err    error
}

func NewWorkbenchModel(opts Options) (*WorkbenchModel, error) {
	if opts.Session == nil {
		return nil, errors.New("a session is required")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Schema == nil && opts.SchemaPath == "" {
		s, err := schema.Parse([]byte(schema.SampleIntrospection))
		if err != nil {
			return nil, fmt.Errorf("failed to parse sample schema: %w", err)
		}
		opts.Schema = s
	}

	m := &WorkbenchModel{
		session:        opts.Session,
		cfg:            opts.Config,
		logger:         opts.Logger,
		copy:           opts.Clipboard,
		pane:           PaneQuery,
		filterInput:    newFilterInput(),
		search:         newResponseSearch(),
		explorer:       newSchemaExplorer(opts.Schema),
		capturePath:    opts.CapturePath,
		schemaPath:     opts.SchemaPath,
		operationRef:   opts.Operation,
		loadState:      LoadStateLoaded,
		loadingSpinner: createLoadingSpinner(),
	}

	m.variables = newFieldEditor(opts.Session.Variables(), nil)
	m.headers = newFieldEditor(opts.Session.Headers(), m.quickHeaders())

	if m.capturePath != "" || m.schemaPath != "" {
		m.loadState = LoadStateLoading
	}

	if opts.QueryPath != "" {
		w, err := newFileWatcher(opts.QueryPath)
		if err != nil {
			return nil, err
		}
		m.watcher = w
	}

	m.table = ApplyTableStyles(table.New(table.WithFocused(true)))
	return m, nil
}

// quickHeaders expands the configured quick headers for the active environment.
// Entries whose token placeholder cannot be filled are left out.
func (m *WorkbenchModel) quickHeaders() []QuickEntry {
	env := m.session.Environment()
	var out []QuickEntry
	for _, h := range m.cfg.QuickHeaders {
		if value, ok := config.ExpandQuickHeader(h, env); ok {
			out = append(out, QuickEntry{Key: h.Name, Value: value})
		}
	}
	return out
}

func (m *WorkbenchModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.loadState == LoadStateLoading {
		cmds = append(cmds, m.loadingSpinner.Tick, m.startLoading())
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.next)
	}
	return tea.Batch(cmds...)
}

func (m *WorkbenchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if m.loadState == LoadStateLoading || m.running {
		m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case loadCompleteMsg:
		m.loadState = LoadStateLoaded
		m.loadTime = msg.duration
		if msg.schema != nil {
			m.explorer.setSchema(msg.schema)
		}
		if msg.capture != nil {
			m.openCapture(msg.capture)
		}
		m.logger.Debug("workbench loaded", "duration", msg.duration)
		return m, nil

	case loadErrorMsg:
		m.loadState = LoadStateError
		m.err = msg.err
		return m, nil

	case runCompleteMsg:
		m.running = false
		m.err = msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("%s in %s", formatStatus(msg.resp.StatusCode, msg.resp.StatusText), formatDuration(msg.resp.Duration))
			if m.filterExpr != "" {
				if err := m.applyFilter(m.filterExpr); err != nil {
					m.filterExpr, m.filtered = "", nil
					m.err = err
				}
			}
			m.refreshResponse()
			if m.pane != PaneTable {
				m.pane = PaneResponse
			}
		}
		return m, nil

	case queryFileMsg:
		m.session.SetQuery(msg.query)
		m.refreshQuery()
		m.status = "reloaded query"
		return m, m.watcher.next

	case watchErrorMsg:
		m.err = msg.err
		m.logger.Warn("query watch failed", "error", msg.err)
		return m, m.watcher.next

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		if !m.ready {
			m.ready = true
			m.refreshQuery()
			m.refreshResponse()
		}
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

// capturing reports whether a text input owns the keyboard.
func (m *WorkbenchModel) capturing() bool {
	return m.modal == ModalFilter ||
		m.variables.editing() ||
		m.headers.editing() ||
		m.search.active ||
		m.explorer.typing
}

func (m *WorkbenchModel) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if key == "ctrl+c" {
		return m.quit()
	}

	if m.loadState != LoadStateLoaded {
		if key == "q" {
			return m.quit()
		}
		return nil
	}

	if handled, cmd := m.handleFilterModalKeys(msg); handled {
		return cmd
	}
	if handled, cmd := m.handleDetailModalKeys(msg); handled {
		return cmd
	}

	if m.search.active {
		changed, cmd := m.search.handleKey(msg)
		if changed {
			m.refreshResponse()
		}
		return cmd
	}

	// pane handlers that own the keyboard while typing go before global keys
	if m.capturing() {
		return m.handlePaneKey(msg)
	}

	m.err = nil
	switch key {
	case "q":
		return m.quit()

	case "tab":
		m.pane = (m.pane + 1) % paneCount
		return nil

	case "shift+tab":
		m.pane = (m.pane + paneCount - 1) % paneCount
		return nil

	case "r", "ctrl+r":
		return m.run()

	case "n":
		m.nextEnvironment()
		return nil

	case "y":
		m.copyPane()
		return nil

	case "f":
		if m.pane == PaneResponse || m.pane == PaneTable {
			return m.openFilterModal()
		}
	}

	return m.handlePaneKey(msg)
}

func (m *WorkbenchModel) handlePaneKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	switch m.pane {
	case PaneQuery:
		switch key {
		case "o":
			m.cycleOperation()
			return nil
		}
		var cmd tea.Cmd
		m.queryViewport, cmd = m.queryViewport.Update(msg)
		return cmd

	case PaneVariables:
		_, cmd := m.variables.handleKey(msg)
		return cmd

	case PaneHeaders:
		_, cmd := m.headers.handleKey(msg)
		return cmd

	case PaneResponse:
		switch key {
		case "/":
			return m.search.Activate()
		case "esc":
			if m.search.term != "" {
				m.search.Clear()
				m.refreshResponse()
			}
			return nil
		}
		var cmd tea.Cmd
		m.responseViewport, cmd = m.responseViewport.Update(msg)
		return cmd

	case PaneTable:
		if key == "enter" {
			m.openRowDetail()
			return nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd

	case PaneSchema:
		_, cmd := m.explorer.handleKey(msg)
		return cmd

	case PaneHistory:
		return m.handleLibraryKey(key)
	}

	return nil
}

func (m *WorkbenchModel) handleLibraryKey(key string) tea.Cmd {
	entries := m.libraryEntries()

	switch key {
	case "up", "k":
		if m.libraryCursor > 0 {
			m.libraryCursor--
		}
	case "down", "j":
		if m.libraryCursor < len(entries)-1 {
			m.libraryCursor++
		}
	case "enter":
		if m.libraryCursor < len(entries) {
			if err := m.loadLibraryEntry(entries[m.libraryCursor]); err != nil {
				m.err = err
			}
		}
	case "x":
		m.session.ClearHistory()
		m.libraryCursor = 0
		m.status = "history cleared"
	}
	return nil
}

func (m *WorkbenchModel) quit() tea.Cmd {
	m.quitting = true
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.logger.Debug("error closing query watcher", "error", err)
		}
	}
	return tea.Quit
}

func (m *WorkbenchModel) run() tea.Cmd {
	if m.running {
		return nil
	}
	m.running = true
	m.status = "running..."
	return tea.Batch(m.loadingSpinner.Tick, m.startRun())
}

// openCapture lists a capture's operations and opens the requested one.
func (m *WorkbenchModel) openCapture(c *capture.Capture) {
	m.capture = c
	if m.operationRef == "" {
		if len(c.Operations) > 0 {
			m.pane = PaneHistory
		}
		return
	}

	op, ok := c.Find(m.operationRef)
	if !ok {
		m.err = fmt.Errorf("operation %q not found in %s", m.operationRef, c.Path)
		return
	}
	if err := m.loadLibraryEntry(libraryEntry{kind: entryCaptured, group: "Capture", title: op.Name(), op: op}); err != nil {
		m.err = err
	}
}

// cycleOperation selects the next named operation of a multi-operation document.
func (m *WorkbenchModel) cycleOperation() {
	doc, err := gql.Parse(m.session.Query())
	if err != nil {
		m.err = err
		return
	}

	var names []string
	for _, op := range doc.Operations {
		if op.Name != "" {
			names = append(names, op.Name)
		}
	}
	if len(names) == 0 {
		m.session.SetOperationName("")
		return
	}

	current := m.session.OperationName()
	next := names[0]
	for i, n := range names {
		if n == current {
			next = names[(i+1)%len(names)]
		}
	}
	m.session.SetOperationName(next)
	m.status = "operation " + next
}

// nextEnvironment moves to the following configured environment.
func (m *WorkbenchModel) nextEnvironment() {
	envs := m.cfg.Environments
	if len(envs) == 0 {
		return
	}

	current := m.session.Environment().Name
	next := envs[0]
	for i, env := range envs {
		if env.Name == current {
			next = envs[(i+1)%len(envs)]
		}
	}

	if err := m.session.ApplyEnvironment(next); err != nil {
		m.err = err
	}
	m.headers.quick = m.quickHeaders()
	m.headers.clampCursor()
	m.status = "environment " + next.Name
}

// copyPane copies whatever the active pane shows as text.
func (m *WorkbenchModel) copyPane() {
	var text, what string

	switch m.pane {
	case PaneQuery:
		text, what = m.session.Query(), "query"
	case PaneVariables:
		text, what = m.session.Variables().Text(), "variables"
	case PaneHeaders:
		text, what = m.session.Headers().Text(), "headers"
	case PaneResponse:
		if body := m.responseBody(); body != nil {
			text, what = string(body), "response"
		}
	case PaneTable:
		m.copySelectedRow()
		return
	default:
		return
	}

	if what == "" {
		return
	}
	m.writeClipboard(text, what)
}

// copySelectedRow copies the response element behind the selected projection
// row, untouched by the table's cell formatting.
func (m *WorkbenchModel) copySelectedRow() {
	if m.projection == nil {
		return
	}
	row := m.table.Cursor()
	if row < 0 || row >= len(m.projection.Rows) {
		return
	}

	m.writeClipboard(string(m.projection.Rows[row].Raw), "row")
}

func (m *WorkbenchModel) writeClipboard(text, what string) {
	if err := m.copy(text); err != nil {
		m.err = fmt.Errorf("failed to copy %s: %w", what, err)
		return
	}
	m.status = "copied " + what
}

// responseBody is the body the Response and Table panes show: the filtered body
// when a filter is active.
func (m *WorkbenchModel) responseBody() []byte {
	if m.filtered != nil {
		return m.filtered
	}
	if resp := m.session.Response(); resp != nil {
		return resp.Body
	}
	return nil
}

func (m *WorkbenchModel) updateDimensions() {
	bodyHeight := m.bodyHeight()
	bodyWidth := m.width - panelPadding

	if m.queryViewport.Width() == 0 {
		m.queryViewport = viewport.New(viewport.WithWidth(bodyWidth), viewport.WithHeight(bodyHeight))
		m.responseViewport = viewport.New(viewport.WithWidth(bodyWidth), viewport.WithHeight(bodyHeight-2))
	} else {
		m.queryViewport.SetWidth(bodyWidth)
		m.queryViewport.SetHeight(bodyHeight)
		m.responseViewport.SetWidth(bodyWidth)
		m.responseViewport.SetHeight(bodyHeight - 2)
	}

	m.table.SetWidth(m.width)
	m.table.SetHeight(bodyHeight - 1)
	m.refreshTable()
}

func (m *WorkbenchModel) bodyHeight() int {
	h := m.height - chromeHeight
	if h < 3 {
		h = 3
	}
	return h
}

func (m *WorkbenchModel) refreshQuery() {
	m.queryViewport.SetContent(HighlightGraphQL(m.session.Query()))
}

// refreshResponse re-renders the response viewport and re-projects the table.
func (m *WorkbenchModel) refreshResponse() {
	body := m.responseBody()
	if body == nil {
		m.responseViewport.SetContent(FaintStyle.Render("No response yet. Press r to run the query."))
		m.projection = nil
		m.refreshTable()
		return
	}

	renderer := NewJSONRenderer(m.search.term)
	rendered, _ := renderer.Render(body)
	m.search.matches = renderer.MatchCount()
	m.responseViewport.SetContent(rendered)

	if m.filtered != nil {
		table, err := motor.Project(m.filtered)
		if err != nil {
			m.err = err
		}
		m.projection = table
	} else {
		m.projection = m.session.Projection()
	}
	m.refreshTable()
}

func (m *WorkbenchModel) refreshTable() {
	columns, rows := buildProjectionTable(m.projection, m.width)
	m.rows = rows

	// clear rows first, the table renders old rows against new columns otherwise
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c < 0 || c >= len(rows) {
		m.table.SetCursor(0)
	}
}
