package tui

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/shamilbi/bookmarks-curses/internal/config"
	"github.com/shamilbi/bookmarks-curses/internal/editor"
	"github.com/shamilbi/bookmarks-curses/internal/importer"
	"github.com/shamilbi/bookmarks-curses/internal/logger"
	"github.com/shamilbi/bookmarks-curses/internal/search"
	"github.com/shamilbi/bookmarks-curses/internal/sentry"
	"github.com/shamilbi/bookmarks-curses/internal/storage"
	"github.com/shamilbi/bookmarks-curses/internal/tools"
)

// TUIOptions configures the TUI behavior
type TUIOptions struct {
	InitialQuery string
	FuzzyEnabled bool
	ShowDeleted  bool
}

// TUIMode identifies the current interaction state
type TUIMode int

const (
	ModeBrowse TUIMode = iota
	ModeSearch
	ModeHelp
	ModeDetails
	ModeDeleteConfirm
	ModeImport
)

// TUISession bundles the services the interface needs
type TUISession struct {
	db            *storage.Database
	store         *storage.Store
	searchService *search.Service
	importer      *importer.Importer
	editor        *editor.Editor
	config        *config.Config
	logger        *logger.Logger
}

// initializeSession opens the database and wires the services
func initializeSession(cfg *config.Config, log *logger.Logger) (*TUISession, error) {
	db, err := storage.NewDatabase(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := storage.NewStore(db)

	return &TUISession{
		db:            db,
		store:         store,
		searchService: search.NewService(store, cfg),
		importer:      importer.New(store, cfg),
		editor:        editor.New(cfg),
		config:        cfg,
		logger:        log,
	}, nil
}

func (s *TUISession) cleanup() {
	if s.searchService != nil {
		s.searchService.Close()
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to close database")
		}
	}
}

// BookmarkItem adapts a record for the list component
type BookmarkItem struct {
	bookmark   *storage.Bookmark
	timeLayout string
}

func (i BookmarkItem) FilterValue() string {
	return i.bookmark.DisplayTitle()
}

func (i BookmarkItem) Title() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tagStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	termWidth := 100
	if fd := int(syscall.Stdout); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			termWidth = w - 6
		}
	}

	marker := "  "
	if i.bookmark.IsDeleted() {
		marker = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("D ")
	}

	text := titleStyle.Render(i.bookmark.DisplayTitle())
	if i.bookmark.Tags != "" {
		text += " " + tagStyle.Render(i.bookmark.Tags)
	}
	if i.bookmark.Title != "" {
		// The URL only needs repeating when the title replaced it
		text += " " + urlStyle.Render(i.bookmark.URL)
	}

	timeText := timeStyle.Render(time.UnixMilli(i.bookmark.ModifiedAt).Format(i.timeLayout))

	left := marker + text
	gap := termWidth - lipgloss.Width(left) - lipgloss.Width(timeText)
	if gap < 1 {
		return lipgloss.NewStyle().Width(termWidth).MaxHeight(1).Render(left)
	}

	return left + strings.Repeat(" ", gap) + timeText
}

func (i BookmarkItem) Description() string {
	return ""
}

// keyMap defines key bindings
type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Search       key.Binding
	SortModified key.Binding
	SortCreated  key.Binding
	SortTitle    key.Binding
	SortURL      key.Binding
	Edit         key.Binding
	New          key.Binding
	Delete       key.Binding
	ToggleView   key.Binding
	Launch       key.Binding
	QR           key.Binding
	CopyURL      key.Binding
	CopyTitle    key.Binding
	Import       key.Binding
	Fuzzy        key.Binding
	Details      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Edit, k.New, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Search, k.Details},
		{k.SortModified, k.SortCreated, k.SortTitle, k.SortURL},
		{k.Edit, k.New, k.Delete, k.ToggleView},
		{k.Launch, k.QR, k.CopyURL, k.CopyTitle},
		{k.Import, k.Fuzzy, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "move down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	SortModified: key.NewBinding(
		key.WithKeys("alt+m"),
		key.WithHelp("alt+m", "sort by modified"),
	),
	SortCreated: key.NewBinding(
		key.WithKeys("alt+c"),
		key.WithHelp("alt+c", "sort by created"),
	),
	SortTitle: key.NewBinding(
		key.WithKeys("alt+t"),
		key.WithHelp("alt+t", "sort by title"),
	),
	SortURL: key.NewBinding(
		key.WithKeys("alt+u"),
		key.WithHelp("alt+u", "sort by url"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e/enter", "edit"),
	),
	New: key.NewBinding(
		key.WithKeys("insert", "ctrl+n"),
		key.WithHelp("ins/ctrl+n", "new bookmark"),
	),
	Delete: key.NewBinding(
		key.WithKeys("delete"),
		key.WithHelp("del", "delete/restore"),
	),
	ToggleView: key.NewBinding(
		key.WithKeys("D", "alt+d"),
		key.WithHelp("D", "toggle deleted view"),
	),
	Launch: key.NewBinding(
		key.WithKeys("L", "ctrl+o"),
		key.WithHelp("L/ctrl+o", "open in browser"),
	),
	QR: key.NewBinding(
		key.WithKeys("U", "ctrl+q"),
		key.WithHelp("U/ctrl+q", "show QR code"),
	),
	CopyURL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "copy url"),
	),
	CopyTitle: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "copy title"),
	),
	Import: key.NewBinding(
		key.WithKeys("I"),
		key.WithHelp("I", "import html"),
	),
	Fuzzy: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("ctrl+f", "toggle fuzzy"),
	),
	Details: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "details"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}

// Messages

type reloadMsg struct {
	bookmarks []*storage.Bookmark
	usedFuzzy bool
	err       error
}

type editorExecMsg struct {
	execErr error
}

type qrExecMsg struct {
	execErr error
}

type statusMsg struct {
	text string
	err  error
}

type importResultMsg struct {
	result *importer.Result
	err    error
}

// model represents the TUI state using bubbles components
type model struct {
	session *TUISession
	opts    *TUIOptions

	// UI components
	searchInput textinput.Model
	importInput textinput.Model
	list        list.Model
	help        help.Model

	// Session state
	mode        TUIMode
	sortKey     storage.SortKey
	query       string
	showDeleted bool
	fuzzy       bool

	// Pending editor round trip
	editSession *editor.Session
	editTarget  *storage.Bookmark // nil when creating a new record

	// Delete confirmation target
	deleteTarget *storage.Bookmark

	status string
	err    error

	width  int
	height int

	keys keyMap
}

// Launch runs the interface until the user quits
func Launch(cfg *config.Config, opts *TUIOptions) error {
	if opts == nil {
		opts = &TUIOptions{
			FuzzyEnabled: cfg.TUI.FuzzySearch,
			ShowDeleted:  cfg.TUI.ShowDeleted,
		}
	}

	log := logger.GetLogger().TUI()
	log.Info().Msg("Starting TUI")

	session, err := initializeSession(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize TUI session: %w", err)
	}
	defer session.cleanup()

	m := newModel(session, opts)
	program := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI execution failed: %w", err)
	}

	return nil
}

// newModel creates the TUI model with bubbles components
func newModel(session *TUISession, opts *TUIOptions) model {
	ti := textinput.New()
	ti.Placeholder = "Search bookmarks..."
	ti.CharLimit = 256
	ti.Prompt = "/"
	ti.Width = 50
	ti.SetValue(opts.InitialQuery)

	ii := textinput.New()
	ii.Placeholder = "path to bookmarks export (.html)"
	ii.CharLimit = 1024
	ii.Prompt = "> "
	ii.Width = 60

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("12")).
		Bold(true)
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	delegate.ShowDescription = false

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetShowTitle(false)

	l.KeyMap.Filter.SetKeys()
	l.KeyMap.ClearFilter.SetKeys()
	l.KeyMap.Quit.SetKeys()
	l.KeyMap.ForceQuit.SetKeys()
	l.KeyMap.ShowFullHelp.SetKeys()
	l.KeyMap.CloseFullHelp.SetKeys()

	return model{
		session:     session,
		opts:        opts,
		searchInput: ti,
		importInput: ii,
		list:        l,
		help:        help.New(),
		mode:        ModeBrowse,
		sortKey:     storage.ParseSortKey(session.config.TUI.DefaultSort),
		query:       opts.InitialQuery,
		showDeleted: opts.ShowDeleted,
		fuzzy:       opts.FuzzyEnabled,
		keys:        keys,
	}
}

// Init implements tea.Model
func (m model) Init() tea.Cmd {
	return m.reload()
}

// reload fetches the current view from the store
func (m model) reload() tea.Cmd {
	query := m.query
	sortKey := m.sortKey
	showDeleted := m.showDeleted
	fuzzy := m.fuzzy
	svc := m.session.searchService

	return func() tea.Msg {
		resp, err := svc.Search(&search.Request{
			Query:       query,
			SortKey:     sortKey,
			ShowDeleted: showDeleted,
			UseFuzzy:    fuzzy,
		})
		if err != nil {
			return reloadMsg{err: err}
		}
		return reloadMsg{bookmarks: resp.Bookmarks, usedFuzzy: resp.UsedFuzzy}
	}
}

// selectedBookmark returns the record under the cursor, or nil
func (m *model) selectedBookmark() *storage.Bookmark {
	item, ok := m.list.SelectedItem().(BookmarkItem)
	if !ok {
		return nil
	}
	return item.bookmark
}

// Update implements tea.Model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		listHeight := m.height - m.headerHeight() - 2
		if listHeight < 5 {
			listHeight = 5
		}
		m.list.SetSize(m.width-2, listHeight)
		m.searchInput.Width = m.width - 10
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
			return m, tea.Quit
		}

		switch m.mode {
		case ModeSearch:
			return m.handleSearchKeys(msg)
		case ModeHelp:
			return m.handleHelpKeys(msg)
		case ModeDetails:
			return m.handleDetailsKeys(msg)
		case ModeDeleteConfirm:
			return m.handleDeleteConfirmKeys(msg)
		case ModeImport:
			return m.handleImportKeys(msg)
		default:
			return m.handleBrowseKeys(msg)
		}

	case reloadMsg:
		if msg.err != nil {
			m.err = msg.err
			sentry.CaptureError(msg.err, "tui", "reload")
			return m, nil
		}
		m.err = nil

		// Keep the selection on the same record across re-sorts
		var selectedUUID string
		if b := m.selectedBookmark(); b != nil {
			selectedUUID = b.UUID
		}

		items := make([]list.Item, len(msg.bookmarks))
		selectIndex := 0
		for i, b := range msg.bookmarks {
			items[i] = BookmarkItem{bookmark: b, timeLayout: m.session.config.TUI.TimeLayout}
			if selectedUUID != "" && b.UUID == selectedUUID {
				selectIndex = i
			}
		}
		m.list.SetItems(items)
		if len(items) > 0 {
			m.list.Select(selectIndex)
		}
		return m, nil

	case editorExecMsg:
		return m.finishEdit(msg.execErr)

	case qrExecMsg:
		if msg.execErr != nil {
			m.err = fmt.Errorf("qr display failed: %w", msg.execErr)
		}
		return m, nil

	case statusMsg:
		m.status = msg.text
		m.err = msg.err
		if msg.err != nil {
			sentry.CaptureError(msg.err, "tui", "action")
		}
		return m, nil

	case importResultMsg:
		m.mode = ModeBrowse
		if msg.err != nil {
			m.err = fmt.Errorf("import failed: %w", msg.err)
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("imported %d bookmarks (%d skipped)", msg.result.Added, msg.result.Skipped)
		m.session.searchService.Invalidate()
		return m, m.reload()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleBrowseKeys processes keys in the main listing
func (m model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit), msg.String() == "esc":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Details):
		if m.selectedBookmark() != nil {
			m.mode = ModeDetails
		}
		return m, nil

	case key.Matches(msg, m.keys.SortModified):
		return m.setSort(storage.SortModified)
	case key.Matches(msg, m.keys.SortCreated):
		return m.setSort(storage.SortCreated)
	case key.Matches(msg, m.keys.SortTitle):
		return m.setSort(storage.SortTitle)
	case key.Matches(msg, m.keys.SortURL):
		return m.setSort(storage.SortURL)

	case key.Matches(msg, m.keys.ToggleView):
		m.showDeleted = !m.showDeleted
		return m, m.reload()

	case key.Matches(msg, m.keys.Fuzzy):
		m.fuzzy = !m.fuzzy
		return m, m.reload()

	case key.Matches(msg, m.keys.Edit):
		if b := m.selectedBookmark(); b != nil {
			return m.beginEdit(b)
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m.beginEdit(nil)

	case key.Matches(msg, m.keys.Delete):
		if b := m.selectedBookmark(); b != nil {
			m.deleteTarget = b
			m.mode = ModeDeleteConfirm
		}
		return m, nil

	case key.Matches(msg, m.keys.Launch):
		if b := m.selectedBookmark(); b != nil {
			return m, launchCmd(b.URL)
		}
		return m, nil

	case key.Matches(msg, m.keys.QR):
		if b := m.selectedBookmark(); b != nil {
			return m.showQR(b.URL)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyURL):
		if b := m.selectedBookmark(); b != nil {
			return m, copyCmd(b.URL, "url copied")
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyTitle):
		if b := m.selectedBookmark(); b != nil {
			return m, copyCmd(b.DisplayTitle(), "title copied")
		}
		return m, nil

	case key.Matches(msg, m.keys.Import):
		m.mode = ModeImport
		m.importInput.SetValue("")
		m.importInput.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) setSort(k storage.SortKey) (tea.Model, tea.Cmd) {
	m.sortKey = k
	return m, m.reload()
}

// handleSearchKeys processes keys while the search input is focused
func (m model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeBrowse
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.query = ""
		return m, m.reload()
	case "enter":
		m.mode = ModeBrowse
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live search on every keystroke
	if m.query != m.searchInput.Value() {
		m.query = m.searchInput.Value()
		return m, tea.Batch(cmd, m.reload())
	}
	return m, cmd
}

func (m model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.mode = ModeBrowse
	}
	return m, nil
}

func (m model) handleDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc" || msg.String() == "tab" || msg.String() == "q":
		m.mode = ModeBrowse
	case key.Matches(msg, m.keys.Edit):
		if b := m.selectedBookmark(); b != nil {
			m.mode = ModeBrowse
			return m.beginEdit(b)
		}
	}
	return m, nil
}

func (m model) handleDeleteConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		target := m.deleteTarget
		m.deleteTarget = nil
		m.mode = ModeBrowse
		if target == nil {
			return m, nil
		}
		return m, m.deleteOrRestore(target)
	default:
		m.deleteTarget = nil
		m.mode = ModeBrowse
		return m, nil
	}
}

// deleteOrRestore soft-deletes in the live view and restores in the
// deleted view
func (m *model) deleteOrRestore(b *storage.Bookmark) tea.Cmd {
	store := m.session.store
	svc := m.session.searchService
	restore := b.IsDeleted()
	id := b.ID

	return tea.Sequence(
		func() tea.Msg {
			var err error
			var text string
			if restore {
				err = store.Restore(id)
				text = "bookmark restored"
			} else {
				err = store.SoftDelete(id)
				text = "bookmark deleted"
			}
			if err != nil {
				return statusMsg{err: err}
			}
			svc.Invalidate()
			return statusMsg{text: text}
		},
		m.reload(),
	)
}

func (m model) handleImportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeBrowse
		m.importInput.Blur()
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.importInput.Value())
		m.importInput.Blur()
		if path == "" {
			m.mode = ModeBrowse
			return m, nil
		}
		im := m.session.importer
		return m, func() tea.Msg {
			result, err := im.ImportFile(path)
			return importResultMsg{result: result, err: err}
		}
	}

	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

// beginEdit opens the external editor on the record, or on an empty
// form when target is nil
func (m model) beginEdit(target *storage.Bookmark) (tea.Model, tea.Cmd) {
	fields := &editor.Fields{}
	if target != nil {
		fields = editor.FieldsFromBookmark(target)
	}

	session, cmd, err := m.session.editor.Begin(fields)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.editSession = session
	m.editTarget = target

	return m, tea.ExecProcess(cmd, func(execErr error) tea.Msg {
		return editorExecMsg{execErr: execErr}
	})
}

// finishEdit parses the scratch file and applies the change
func (m model) finishEdit(execErr error) (tea.Model, tea.Cmd) {
	session := m.editSession
	target := m.editTarget
	m.editSession = nil
	m.editTarget = nil

	if session == nil {
		return m, nil
	}

	if execErr != nil {
		session.Cleanup()
		m.err = fmt.Errorf("editor failed: %w", execErr)
		return m, nil
	}

	fields, err := session.Finish()
	if err != nil {
		m.err = err
		return m, nil
	}
	if fields == nil {
		m.status = "edit cancelled"
		return m, nil
	}

	store := m.session.store
	svc := m.session.searchService

	return m, tea.Sequence(
		func() tea.Msg {
			var err error
			var text string
			if target == nil {
				b := &storage.Bookmark{
					URL:   strings.TrimSpace(fields.URL),
					Title: strings.TrimSpace(fields.Title),
					Tags:  fields.Tags,
					Notes: fields.Notes,
				}
				err = store.InsertRecord(b)
				text = "bookmark added"
			} else {
				_, err = store.Update(target.ID, fields.URL, fields.Title, fields.Tags, fields.Notes)
				text = "bookmark updated"
			}
			if err != nil {
				if errors.Is(err, storage.ErrEmptyURL) {
					return statusMsg{err: fmt.Errorf("url cannot be empty")}
				}
				return statusMsg{err: err}
			}
			svc.Invalidate()
			return statusMsg{text: text}
		},
		m.reload(),
	)
}

// showQR renders the URL as a QR code through an external program
func (m model) showQR(url string) (tea.Model, tea.Cmd) {
	cmd, err := tools.QRCommand(url)
	if err != nil {
		m.err = err
		return m, nil
	}

	return m, tea.ExecProcess(cmd, func(execErr error) tea.Msg {
		return qrExecMsg{execErr: execErr}
	})
}

func launchCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := tools.OpenURL(url); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "url opened"}
	}
}

func copyCmd(text, status string) tea.Cmd {
	return func() tea.Msg {
		if err := tools.CopyToClipboard(text); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: status}
	}
}

// View implements tea.Model
func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeDetails:
		return m.renderDetails()
	case ModeDeleteConfirm:
		return m.renderDeleteConfirm()
	case ModeImport:
		return m.renderImport()
	default:
		return m.renderBrowse()
	}
}

func (m model) headerHeight() int {
	if m.mode == ModeSearch || m.query != "" {
		return 2
	}
	return 1
}

// renderBrowse renders the main listing with the status line
func (m model) renderBrowse() string {
	var b strings.Builder

	if m.mode == ModeSearch || m.query != "" {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())

	return b.String()
}

// renderStatusLine builds the bottom line: view, sort, count, and the
// last action's outcome
func (m model) renderStatusLine() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var parts []string

	view := "bookmarks"
	if m.showDeleted {
		view = "deleted"
	}
	parts = append(parts, fmt.Sprintf("%s: %d", view, len(m.list.Items())))
	parts = append(parts, fmt.Sprintf("sort: %s", m.sortKey))
	if m.fuzzy {
		parts = append(parts, "fuzzy")
	}

	line := dimStyle.Render(strings.Join(parts, " | "))

	if m.err != nil {
		line += "  " + errStyle.Render(m.err.Error())
	} else if m.status != "" {
		line += "  " + okStyle.Render(m.status)
	}

	return line
}

// renderDetails shows all fields of the selected record
func (m model) renderDetails() string {
	b := m.selectedBookmark()
	if b == nil {
		return "No bookmark selected\n\nPress esc to go back"
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Width(10)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	layout := m.session.config.TUI.TimeLayout

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Bookmark details"))
	sb.WriteString("\n\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(valueStyle.Render(value))
		sb.WriteString("\n")
	}

	row("URL", b.URL)
	row("Title", b.Title)
	row("Tags", b.Tags)
	row("Created", time.UnixMilli(b.CreatedAt).Format(layout))
	row("Modified", time.UnixMilli(b.ModifiedAt).Format(layout))
	if b.IsDeleted() {
		row("Deleted", time.UnixMilli(b.DeletedAt).Format(layout))
	}

	if b.Notes != "" {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("Notes"))
		sb.WriteString("\n")
		sb.WriteString(valueStyle.Render(b.Notes))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("e edit | esc/tab back"))

	return sb.String()
}

func (m model) renderDeleteConfirm() string {
	b := m.deleteTarget
	if b == nil {
		return ""
	}

	action := "Delete"
	if b.IsDeleted() {
		action = "Restore"
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s bookmark?", action)))
	sb.WriteString("\n\n")
	sb.WriteString(b.DisplayTitle())
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(b.URL))
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("y confirm | any other key cancel"))

	return sb.String()
}

func (m model) renderImport() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Import bookmarks"))
	sb.WriteString("\n\n")
	sb.WriteString(m.importInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("enter import | esc cancel"))

	return sb.String()
}

func (m model) renderHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Help"))
	sb.WriteString("\n\n")
	sb.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("esc back"))

	return sb.String()
}
