package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/tasks"
)

const appTitle string = "Popcorn"

var _ Painter = styles

// Focus identifies the part of the screen receiving keys.
type Focus int

const (
	SearchFocus Focus = iota
	ResultsFocus
	WatchedFocus // watched list, or the detail panel while a movie is selected
)

// Model represents the TUI application state.
type Model struct {
	state     *tasks.State
	search    *tasks.SearchController
	selection *tasks.SelectionController
	opener    func(url string) error
	logger    *log.Logger

	initialQuery string
	flashFor     time.Duration

	input   textinput.Model
	results list.Model
	watched list.Model
	detail  viewport.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	focus    Focus
	width    int
	height   int
	status   string
	statusID int
}

// Opts contains the dependencies of a [Model].
type Opts struct {
	State        *tasks.State
	Search       *tasks.SearchController
	Selection    *tasks.SelectionController
	InitialQuery string
	Opener       func(url string) error // defaults to [shared.OpenBrowser]
	FlashFor     time.Duration          // how long status messages stay; defaults to 2s
	Logger       *log.Logger
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(opts Opts) *Model {
	if opts.Opener == nil {
		opts.Opener = shared.OpenBrowser
	}
	if opts.FlashFor <= 0 {
		opts.FlashFor = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.Prompt = "🔍 "
	ti.CharLimit = 120
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.title

	m := &Model{
		state:        opts.State,
		search:       opts.Search,
		selection:    opts.Selection,
		opener:       opts.Opener,
		logger:       shared.WithLogger(opts.Logger, "component", "ui"),
		initialQuery: opts.InitialQuery,
		flashFor:     opts.FlashFor,
		input:        ti,
		results:      newList("Results"),
		watched:      newList("Watched"),
		detail:       viewport.New(0, 0),
		spinner:      sp,
		help:         help.New(),
		keys:         newKeyMap(),
		focus:        SearchFocus,
	}
	m.resize(100, 30)
	m.syncWatched()
	return m
}

// Init focuses the search box and runs the initial query.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tea.SetWindowTitle(appTitle)}
	if m.initialQuery != "" {
		m.input.SetValue(m.initialQuery)
		cmds = append(cmds, m.query(m.initialQuery))
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSearchSettled:
		if m.search.Apply(msg.data.(tasks.SearchOutcome)) {
			m.syncResults()
		}
		return m, nil

	case MsgDetailSettled:
		if !m.selection.Apply(msg.data.(tasks.DetailOutcome)) {
			return m, nil
		}
		m.renderDetail()
		if d := m.state.Detail; d != nil {
			return m, tea.SetWindowTitle(fmt.Sprintf("%s | %s", d.Title, appTitle))
		}
		return m, nil

	case MsgBrowserOpened:
		data := msg.data.(struct {
			url string
			err error
		})
		if data.err != nil {
			m.logger.Warn("failed to open browser", "url", data.url, "error", data.err)
			return m, m.flash(styles.err.Render(data.err.Error()))
		}
		return m, m.flash("Opened " + data.url)

	case MsgStatusExpired:
		if msg.data.(int) == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.forceQuit):
		return m, m.quit()
	case key.Matches(msg, m.keys.next):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.cycleFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		req := m.search.Refresh()
		m.syncResults()
		return m, m.startSearch(req)
	case key.Matches(msg, m.keys.back):
		return m.back()
	}

	switch m.focus {
	case SearchFocus:
		return m.handleSearchKeys(msg)
	case ResultsFocus:
		return m.handleResultsKeys(msg)
	default:
		if m.state.HasSelection() {
			return m.handleDetailKeys(msg)
		}
		return m.handleWatchedKeys(msg)
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter || msg.Type == tea.KeyDown {
		m.setFocus(ResultsFocus)
		return m, nil
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == prev {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.query(m.input.Value()))
}

// handleCommonKeys handles bindings shared by every panel. The bool reports whether msg was consumed.
func (m *Model) handleCommonKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit(), true
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return nil, true
	case key.Matches(msg, m.keys.toggleResults):
		if !m.state.ToggleResults() && m.focus == ResultsFocus {
			m.cycleFocus(1)
		}
		return nil, true
	case key.Matches(msg, m.keys.toggleWatched):
		if !m.state.ToggleWatched() && m.focus == WatchedFocus {
			m.cycleFocus(1)
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleCommonKeys(msg); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.enter):
		if it, ok := m.results.SelectedItem().(resultItem); ok {
			return m, m.selectMovie(it.movie.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		if it, ok := m.results.SelectedItem().(resultItem); ok {
			return m, m.openIMDb(it.movie.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleWatchedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleCommonKeys(msg); ok {
		return m, cmd
	}

	it, selected := m.watched.SelectedItem().(watchedItem)
	switch {
	case key.Matches(msg, m.keys.remove):
		if !selected {
			return m, nil
		}
		if _, err := m.selection.Remove(it.movie.ID); err != nil {
			return m, m.flash(styles.err.Render(err.Error()))
		}
		m.syncWatched()
		return m, m.flash("Removed " + it.movie.Title)
	case key.Matches(msg, m.keys.enter):
		if selected {
			return m, m.selectMovie(it.movie.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		if selected {
			return m, m.openIMDb(it.movie.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.watched, cmd = m.watched.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleCommonKeys(msg); ok {
		return m, cmd
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.rate):
		n := int(msg.Runes[0] - '0')
		if n == 0 {
			n = models.MaxRating
		}
		cmd = m.rate(n)
	case key.Matches(msg, m.keys.less):
		m.selection.SetPreview(max(m.selection.DisplayedRating()-1, models.MinRating))
	case key.Matches(msg, m.keys.more):
		m.selection.SetPreview(min(m.selection.DisplayedRating()+1, models.MaxRating))
	case key.Matches(msg, m.keys.enter):
		if p := m.state.Preview; p > 0 {
			cmd = m.rate(p)
		} else {
			cmd = m.add()
		}
	case key.Matches(msg, m.keys.add):
		cmd = m.add()
	case key.Matches(msg, m.keys.open):
		cmd = m.openIMDb(m.state.SelectedID)
	default:
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	m.renderDetail()
	return m, cmd
}

// quit abandons in-flight requests before leaving.
func (m *Model) quit() tea.Cmd {
	m.search.Cancel()
	m.selection.Clear()
	return tea.Quit
}

func (m *Model) add() tea.Cmd {
	movie, err := m.selection.Add()
	switch {
	case err == nil:
		m.syncWatched()
		return m.flash(styles.ok.Render("Added " + movie.Title))
	case errors.Is(err, shared.ErrRatingRequired), errors.Is(err, shared.ErrAlreadyWatched):
		return nil
	default:
		return m.flash(styles.err.Render(err.Error()))
	}
}

func (m *Model) back() (tea.Model, tea.Cmd) {
	if m.state.HasSelection() {
		m.selection.Back()
		m.renderDetail()
		return m, tea.SetWindowTitle(appTitle)
	}
	if m.focus != SearchFocus {
		m.setFocus(SearchFocus)
	}
	return m, nil
}

// query records a new search query and returns the commands that complete it.
func (m *Model) query(q string) tea.Cmd {
	hadSelection := m.state.HasSelection()
	req := m.search.SetQuery(q)
	m.syncResults()

	var cmds []tea.Cmd
	if hadSelection && !m.state.HasSelection() {
		m.renderDetail()
		cmds = append(cmds, tea.SetWindowTitle(appTitle))
	}
	cmds = append(cmds, m.startSearch(req))
	return tea.Batch(cmds...)
}

func (m *Model) startSearch(req *tasks.SearchRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	return tea.Batch(func() tea.Msg { return searchSettledMsg(req.Run()) }, m.spinner.Tick)
}

func (m *Model) selectMovie(id string) tea.Cmd {
	req := m.selection.Select(id)
	m.renderDetail()
	if m.state.WatchedOpen {
		m.setFocus(WatchedFocus)
	}
	if req == nil {
		return nil
	}
	return tea.Batch(func() tea.Msg { return detailSettledMsg(req.Run()) }, m.spinner.Tick)
}

func (m *Model) openIMDb(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	url := shared.IMDbURL(id)
	opener := m.opener
	return func() tea.Msg { return browserOpenedMsg(url, opener(url)) }
}

// rate commits n. A watched movie keeps its stored rating without complaint.
func (m *Model) rate(n int) tea.Cmd {
	if err := m.selection.SetRating(n); err != nil && !errors.Is(err, shared.ErrAlreadyWatched) {
		return m.flash(styles.err.Render(err.Error()))
	}
	return nil
}

// flash shows text in the status line until it is replaced or expires.
func (m *Model) flash(text string) tea.Cmd {
	m.statusID++
	id := m.statusID
	m.status = text
	return tea.Tick(m.flashFor, func(time.Time) tea.Msg { return statusExpiredMsg(id) })
}

func (m *Model) busy() bool {
	return m.state.Loading || m.state.DetailLoading
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	if f == SearchFocus {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// cycleFocus moves focus by step, skipping collapsed panels.
func (m *Model) cycleFocus(step int) {
	order := []Focus{SearchFocus}
	if m.state.ResultsOpen {
		order = append(order, ResultsFocus)
	}
	if m.state.WatchedOpen {
		order = append(order, WatchedFocus)
	}

	i := 0
	for j, f := range order {
		if f == m.focus {
			i = j
		}
	}
	m.setFocus(order[(i+step+len(order))%len(order)])
}

func (m *Model) syncResults() {
	items := make([]list.Item, len(m.state.Results))
	for i, r := range m.state.Results {
		items[i] = resultItem{movie: r}
	}
	m.results.SetItems(items)
	m.results.ResetSelected()
}

func (m *Model) syncWatched() {
	if m.state.Watched == nil {
		return
	}
	movies := m.state.Watched.Items()
	items := make([]list.Item, len(movies))
	for i, w := range movies {
		items[i] = watchedItem{movie: w}
	}
	m.watched.SetItems(items)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	panelW := m.panelWidth() - 4
	bodyH := max(height-8, 5)

	m.input.Width = max(width/3, 20)
	m.results.SetSize(panelW, bodyH)
	m.watched.SetSize(panelW, bodyH-2)
	m.detail.Width = panelW
	m.detail.Height = bodyH - 2
	m.help.Width = width
	m.renderDetail()
}

func (m *Model) panelWidth() int {
	return max(m.width/2, 24)
}

// renderDetail refreshes the detail viewport from state.
func (m *Model) renderDetail() {
	d := m.state.Detail
	if !m.state.HasSelection() || d == nil {
		m.detail.SetContent("")
		return
	}

	var b strings.Builder
	b.WriteString(styles.help.Render("⬅ esc") + "\n\n")
	b.WriteString(styles.title.Render(d.Title) + "\n")

	var facts []string
	if d.Released != "" {
		facts = append(facts, d.Released)
	}
	if d.Runtime > 0 {
		facts = append(facts, fmt.Sprintf("%d min", d.Runtime))
	}
	b.WriteString(strings.Join(facts, " • ") + "\n")
	if d.Genre != "" {
		b.WriteString(d.Genre + "\n")
	}
	b.WriteString(fmt.Sprintf("⭐ %s IMDb rating\n\n", shared.FormatRating(d.CatalogRating.Ptr())))

	b.WriteString(stars(m.selection.DisplayedRating()) + "\n")
	if stored, ok := m.selection.Watched(); ok {
		b.WriteString(styles.ok.Render(fmt.Sprintf("✓ %s (rated %d)", tasks.AlreadyWatchedMessage, stored.UserRating)) + "\n")
	} else if m.selection.CanAdd() {
		b.WriteString(styles.As(styles.title.Render("[a] Add to the list"), lipgloss.Color("#FFFFFF")) + "\n")
	} else {
		b.WriteString(styles.help.Render("rate with 1-0 or ←/→ then enter") + "\n")
	}
	if m.state.Notice != "" {
		b.WriteString(styles.warn.Render(m.state.Notice) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(wrap("Plot: "+d.Plot, m.detail.Width) + "\n")
	b.WriteString(wrap("Starring: "+d.Actors, m.detail.Width) + "\n")
	b.WriteString(wrap("Director: "+d.Director, m.detail.Width) + "\n")

	m.detail.SetContent(b.String())
}

func stars(n int) string {
	full := strings.Repeat("★", n)
	empty := strings.Repeat("☆", models.MaxRating-n)
	label := "-"
	if n > 0 {
		label = fmt.Sprint(n)
	}
	return styles.star.Render(full+empty) + " " + label
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

// View renders the header, the two panels and the footer.
func (m *Model) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.On(styles.title.Render(" 🍿 Popcorn "), lipgloss.Color("#1E1E2E")),
		"  ",
		m.input.View(),
		"  ",
		styles.help.Render(fmt.Sprintf("%d results found", len(m.state.Results))),
	)
	if d := m.state.Detail; d != nil && m.state.HasSelection() {
		header += "\n" + styles.help.Render("▶ "+d.Title)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderResults(), m.renderWatched())

	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = m.status + "\n" + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) box(content string, open, active bool) string {
	style := styles.box
	if active {
		style = styles.active
	}
	toggle := "–"
	if !open {
		toggle = "+"
		content = ""
	}
	return style.Width(m.panelWidth() - 2).Render(styles.help.Render(toggle) + "\n" + content)
}

func (m *Model) renderResults() string {
	var content string
	switch {
	case m.state.Loading:
		content = m.spinner.View() + " Loading data..."
	case m.state.Error != "":
		content = styles.err.Render("⛔ " + m.state.Error)
	case len(m.state.Results) == 0:
		content = styles.help.Render(fmt.Sprintf("Type at least %d characters to search", tasks.MinQueryLength))
	default:
		content = m.results.View()
	}
	return m.box(content, m.state.ResultsOpen, m.focus == ResultsFocus)
}

func (m *Model) renderWatched() string {
	var content string
	switch {
	case m.state.DetailLoading:
		content = m.spinner.View() + " Loading data..."
	case m.state.DetailError != "":
		content = styles.err.Render("⛔ "+m.state.DetailError) + "\n" + styles.help.Render("esc to go back")
	case m.state.HasSelection():
		content = m.detail.View()
	default:
		content = m.renderSummary() + "\n\n" + m.renderWatchedList()
	}
	return m.box(content, m.state.WatchedOpen, m.focus == WatchedFocus)
}

func (m *Model) renderSummary() string {
	if m.state.Watched == nil {
		return ""
	}
	s := m.state.Watched.Summary()
	return styles.title.Render("Movies you watched") + "\n" +
		fmt.Sprintf("#️⃣ %d movies  ⭐ %.1f  🌟 %.1f  ⌛ %s", s.Count, s.AvgCatalogRating, s.AvgUserRating, shared.FormatMinutes(int(s.AvgRuntime)))
}

func (m *Model) renderWatchedList() string {
	if len(m.watched.Items()) == 0 {
		return styles.help.Render("Nothing here yet. Select a result, rate it and add it.")
	}
	return m.watched.View()
}
