// Package tui provides a Bubble Tea terminal browser for the discography.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/discography/internal/discography"
	ioutils "github.com/handiism/discography/internal/io"
	"github.com/handiism/discography/internal/model"
	"github.com/handiism/discography/internal/notes"
	"github.com/handiism/discography/internal/release"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1B1B1B")).
			Background(lipgloss.Color("#FFE66D")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

// typeFilters is the tab cycle of the list view.
var typeFilters = []string{"all", string(model.TypeAlbum), string(model.TypeEP), string(model.TypeSingle), string(model.TypeFeature)}

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateBrowsing
	StateSearching
	StateDetail
	StateEmpty
)

// Source supplies the resolved albums.
type Source interface {
	Albums(ctx context.Context) []model.AlbumViewModel
}

// CoverFetcher downloads cover images for accent colours.
type CoverFetcher interface {
	DownloadBytes(ctx context.Context, ref string) ([]byte, error)
}

// Options configures the browser.
type Options struct {
	Source     Source
	Covers     CoverFetcher
	Classifier release.Classifier
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	opts     Options
	labels   discography.Labels
	images   *ioutils.ImageService
	spinner  spinner.Model
	search   textinput.Model
	viewport viewport.Model

	ctx    context.Context
	cancel context.CancelFunc

	albums  []model.AlbumViewModel
	visible []model.AlbumViewModel
	cursor  int
	filter  int
	detail  model.AlbumViewModel
	accents map[string]string

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "search titles"
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateLoading,
		opts:     opts,
		labels:   discography.DefaultLabels(),
		images:   ioutils.NewImageService(),
		spinner:  sp,
		search:   ti,
		viewport: viewport.New(80, 20),
		ctx:      ctx,
		cancel:   cancel,
		accents:  make(map[string]string),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadAlbums())
}

// Message types
type (
	// AlbumsLoadedMsg is sent when the repository has resolved albums.
	AlbumsLoadedMsg struct {
		Albums []model.AlbumViewModel
	}

	// AccentMsg carries the average cover colour of an album.
	AccentMsg struct {
		Slug  string
		Color string
		Err   error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(5, msg.Height-8)
		if m.state == StateDetail {
			m.viewport.SetContent(m.renderDetail(m.detail))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state == StateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case AlbumsLoadedMsg:
		m.albums = discography.SortByDateDesc(msg.Albums)
		if len(m.albums) == 0 {
			m.state = StateEmpty
			return m, nil
		}
		m.state = StateBrowsing
		m.refilter()

	case AccentMsg:
		if msg.Err == nil {
			m.accents[msg.Slug] = msg.Color
			if m.state == StateDetail && m.detail.Slug == msg.Slug {
				m.viewport.SetContent(m.renderDetail(m.detail))
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateSearching:
		switch msg.String() {
		case "esc":
			m.search.SetValue("")
			m.search.Blur()
			m.state = StateBrowsing
			m.refilter()
			return m, nil
		case "enter":
			m.search.Blur()
			m.state = StateBrowsing
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.refilter()
		return m, cmd

	case StateBrowsing:
		switch msg.String() {
		case "q", "esc":
			m.cancel()
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case "tab":
			m.filter = (m.filter + 1) % len(typeFilters)
			m.refilter()
		case "/":
			m.state = StateSearching
			return m, m.search.Focus()
		case "enter":
			if len(m.visible) == 0 {
				return m, nil
			}
			m.detail = m.visible[m.cursor]
			m.state = StateDetail
			m.viewport.SetContent(m.renderDetail(m.detail))
			m.viewport.GotoTop()
			if _, ok := m.accents[m.detail.Slug]; !ok {
				return m, m.fetchAccent(m.detail)
			}
		}
		return m, nil

	case StateDetail:
		switch msg.String() {
		case "esc", "backspace":
			m.state = StateBrowsing
			return m, nil
		case "q":
			m.cancel()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	default:
		switch msg.String() {
		case "q", "esc":
			m.cancel()
			return m, tea.Quit
		}
	}
	return m, nil
}

// refilter recomputes the visible list and clamps the cursor.
func (m *Model) refilter() {
	list := discography.FilterByType(m.albums, typeFilters[m.filter])
	m.visible = discography.Search(list, m.search.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ Discography"))
	b.WriteString("\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Loading albums..."))
		b.WriteString("\n")
	case StateEmpty:
		b.WriteString(errorStyle.Render(m.labels.LoadError))
		b.WriteString("\n")
	case StateBrowsing, StateSearching:
		b.WriteString(m.viewList())
	case StateDetail:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder

	if hero, ok := discography.Hero(m.albums); ok {
		b.WriteString(infoStyle.Render(fmt.Sprintf("%s: %s", m.labels.Featured, hero.Title)))
		b.WriteString("\n\n")
	}

	var tabs []string
	for i, f := range typeFilters {
		if i == m.filter {
			tabs = append(tabs, selectedStyle.Render("["+f+"]"))
		} else {
			tabs = append(tabs, dimStyle.Render(f))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")

	if m.state == StateSearching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(dimStyle.Render(m.labels.NoMatches))
		b.WriteString("\n")
		return b.String()
	}

	for i, a := range m.visible {
		line := fmt.Sprintf("%s  %s", a.Title, dimStyle.Render(discography.MetaLine(a, m.opts.Classifier)))
		if badge := discography.Badge(a); badge != "" {
			line += " " + badgeStyle.Render(badge)
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("› ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderDetail builds the scrollable detail page of an album.
func (m Model) renderDetail(a model.AlbumViewModel) string {
	var b strings.Builder

	heading := lipgloss.NewStyle().Bold(true)
	if accent, ok := m.accents[a.Slug]; ok {
		heading = heading.Foreground(lipgloss.Color(accent))
	}

	b.WriteString(dimStyle.Render(discography.HeroLabel(a, m.opts.Classifier)))
	b.WriteString("\n")
	b.WriteString(heading.Render(a.Title))
	if badge := discography.Badge(a); badge != "" {
		b.WriteString(" " + badgeStyle.Render(badge))
	}
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(discography.MetaLine(a, m.opts.Classifier)))
	b.WriteString("\n\n")

	if blurb := discography.Blurb(a); blurb != "" {
		b.WriteString(blurb)
		b.WriteString("\n\n")
	}

	if a.Note != nil {
		for _, s := range a.Note.Sections {
			if s.Title != "" {
				b.WriteString(subtitleStyle.Render(s.Title))
				b.WriteString("\n")
			}
			if s.Body != "" {
				b.WriteString(notes.Markdown(s.Body))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		if len(a.Note.Sections) == 0 && a.Note.Body != "" {
			b.WriteString(notes.Markdown(a.Note.Body))
			b.WriteString("\n\n")
		}
		for _, media := range a.Note.Media {
			label := media.Alt
			if label == "" {
				label = media.Src
			}
			b.WriteString(dimStyle.Render(fmt.Sprintf("[%s] %s", media.Type, label)))
			b.WriteString("\n")
		}
	}

	var links []string
	for _, l := range []struct{ name, url string }{
		{"Listen", discography.CanonicalLink(a)},
		{"Spotify", a.Spotify},
		{"Apple Music", a.Apple},
		{"YouTube", a.YouTube},
	} {
		if l.url != "" {
			links = append(links, fmt.Sprintf("%s: %s", l.name, l.url))
		}
	}
	if len(links) > 0 {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(strings.Join(links, "\n")))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateBrowsing:
		return "↑/↓: move • tab: type • /: search • enter: open • q: quit"
	case StateSearching:
		return "type to filter • enter: keep • esc: clear"
	case StateDetail:
		return "↑/↓: scroll • esc: back • q: quit"
	case StateLoading, StateEmpty:
		return "q: quit"
	}
	return ""
}

// loadAlbums runs the repository in the background.
func (m Model) loadAlbums() tea.Cmd {
	return func() tea.Msg {
		if m.opts.Source == nil {
			return AlbumsLoadedMsg{}
		}
		return AlbumsLoadedMsg{Albums: m.opts.Source.Albums(m.ctx)}
	}
}

// fetchAccent downloads a cover and reports its average colour.
func (m Model) fetchAccent(a model.AlbumViewModel) tea.Cmd {
	if m.opts.Covers == nil || a.Cover == "" {
		return nil
	}
	return func() tea.Msg {
		data, err := m.opts.Covers.DownloadBytes(m.ctx, a.Cover)
		if err != nil {
			return AccentMsg{Slug: a.Slug, Err: err}
		}
		c, err := m.images.AverageColor(m.ctx, data)
		if err != nil {
			return AccentMsg{Slug: a.Slug, Err: err}
		}
		return AccentMsg{Slug: a.Slug, Color: ioutils.Hex(c)}
	}
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
