package ui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/services"
	"github.com/desertthunder/rutinas/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	DetailView
	FormView
)

func (v ViewState) String() string {
	switch v {
	case ListView:
		return "list"
	case DetailView:
		return "detail"
	case FormView:
		return "form"
	default:
		return ""
	}
}

// Options configures a [Model].
type Options struct {
	PageSize  int
	ExportDir string
	Confirmer session.Confirmer // nil prompts inside the TUI
	Logger    *log.Logger
}

// Model represents the TUI application state.
//
// The list controller lives for as long as the list view is shown. The detail and form controllers share
// a single page slot. Each mount gets an epoch so results from an abandoned controller are dropped.
type Model struct {
	ctx     context.Context
	gateway services.RoutineGateway
	opts    Options
	logger  *log.Logger
	view    ViewState
	width   int
	height  int

	list      *session.ListSession
	listEpoch uint64
	detail    *session.DetailSession
	edit      *session.EditSession
	pageEpoch uint64

	confirmer session.Confirmer
	requests  chan confirmRequest
	prompt    *confirmRequest

	routines  list.Model
	filter    textinput.Model
	filtering bool
	day       models.Weekday

	input   textinput.Model
	focus   int
	formErr error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, gateway services.RoutineGateway, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &Model{
		ctx:     ctx,
		gateway: gateway,
		opts:    opts,
		logger:  logger,
		view:    ListView,
		width:   100,
		height:  30,
		help:    help.New(),
		keys:    newKeyMap(),
	}

	if opts.Confirmer != nil {
		m.confirmer = opts.Confirmer
	} else {
		c := newChannelConfirmer(ctx)
		m.confirmer = c
		m.requests = c.requests
	}

	m.routines = list.New([]list.Item{}, list.NewDefaultDelegate(), m.width-4, m.height-14)
	m.routines.Title = "Rutinas"
	m.routines.SetFilteringEnabled(false)
	m.routines.SetShowHelp(false)
	m.routines.SetShowStatusBar(false)
	m.routines.KeyMap.Quit.SetEnabled(false)
	m.routines.KeyMap.NextPage.SetEnabled(false)
	m.routines.KeyMap.PrevPage.SetEnabled(false)

	m.filter = textinput.New()
	m.filter.Placeholder = "routine name"
	m.filter.Prompt = "Filter: "
	m.filter.Cursor.SetMode(cursor.CursorStatic)

	m.input = textinput.New()
	m.input.Cursor.SetMode(cursor.CursorStatic)

	return m
}

// Init mounts the list and, when prompting in the TUI, starts listening for confirmations.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.mountList()}
	if m.requests != nil {
		cmds = append(cmds, m.waitForConfirm())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.routines.SetSize(msg.Width-4, max(msg.Height-14, 6))
		m.help.Width = msg.Width
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgRouted:
			return m, m.handleRouted(msg.data.(routed))
		case MsgConfirmRequest:
			req := msg.data.(confirmRequest)
			m.prompt = &req
			return m, nil
		}

	case tea.KeyMsg:
		if m.prompt != nil {
			return m, m.handleConfirmKeys(msg)
		}
		switch m.view {
		case ListView:
			return m, m.handleListKeys(msg)
		case DetailView:
			return m, m.handleDetailKeys(msg)
		case FormView:
			return m, m.handleFormKeys(msg)
		}
	}

	return m, nil
}

func (m *Model) routeList(cmd tea.Cmd) tea.Cmd { return route(listOwner, m.listEpoch, cmd) }
func (m *Model) routePage(cmd tea.Cmd) tea.Cmd { return route(pageOwner, m.pageEpoch, cmd) }

// handleRouted delivers a controller message to its owner if that mount is still current.
func (m *Model) handleRouted(r routed) tea.Cmd {
	switch r.owner {
	case listOwner:
		if r.epoch != m.listEpoch || m.list == nil {
			return nil
		}
		cmd := m.list.Update(r.inner)
		m.syncRoutines()
		return m.routeList(cmd)

	case pageOwner:
		if r.epoch != m.pageEpoch {
			return nil
		}
		switch {
		case m.detail != nil:
			cmd := m.detail.Update(r.inner)
			if m.detail.State() == session.DetailDeleted {
				return m.showList()
			}
			return m.routePage(cmd)

		case m.edit != nil:
			cmd := m.edit.Update(r.inner)
			switch m.edit.State() {
			case session.EditSaved:
				return m.showDetail(m.edit.SavedID())
			case session.EditReady:
				if i := invalidCell(m.edit.Draft(), m.edit.Err()); i >= 0 {
					m.focus = i
				}
				m.loadCell()
			}
			return m.routePage(cmd)
		}
	}
	return nil
}

// mountList replaces the list controller with a fresh one on page 1 with no filters.
func (m *Model) mountList() tea.Cmd {
	m.listEpoch++
	m.list = session.NewListSession(m.ctx, m.gateway, session.ListOptions{
		PageSize:  m.opts.PageSize,
		ExportDir: m.opts.ExportDir,
		Confirmer: m.confirmer,
	})
	m.day = ""
	m.filter.SetValue("")
	m.filtering = false
	m.syncRoutines()
	return m.routeList(m.list.Init())
}

func (m *Model) showList() tea.Cmd {
	m.navigate(ListView)
	m.detail, m.edit = nil, nil
	return m.mountList()
}

func (m *Model) showDetail(id int) tea.Cmd {
	m.navigate(DetailView)
	m.edit = nil
	d, cmd := session.NewDetailSession(m.ctx, m.gateway, m.confirmer, id)
	m.detail = d
	return m.routePage(cmd)
}

// showForm opens the form for id, or for a new routine when id is 0.
func (m *Model) showForm(id int) tea.Cmd {
	m.navigate(FormView)
	m.detail = nil
	m.focus = 0
	m.formErr = nil

	var cmd tea.Cmd
	if id == 0 {
		m.edit = session.NewEditSession(m.ctx, m.gateway)
	} else {
		m.edit, cmd = session.OpenEditSession(m.ctx, m.gateway, id)
	}
	m.loadCell()
	return m.routePage(cmd)
}

func (m *Model) navigate(v ViewState) {
	m.pageEpoch++
	m.logger.Debug("navigate", "from", m.view, "to", v)
	m.view = v
}

// syncRoutines mirrors the list controller's page into the list widget.
func (m *Model) syncRoutines() {
	results := m.list.Results()
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = routineItem{routine: r, pending: m.list.Pending(r.ID)}
	}
	m.routines.SetItems(items)
}

func (m *Model) selected() *models.Routine {
	if item, ok := m.routines.SelectedItem().(routineItem); ok {
		return &item.routine
	}
	return nil
}

func (m *Model) waitForConfirm() tea.Cmd {
	ctx, requests := m.ctx, m.requests
	return func() tea.Msg {
		select {
		case req := <-requests:
			return confirmRequestMsg(req)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	var answer bool
	switch {
	case key.Matches(msg, m.keys.yes):
		answer = true
	case key.Matches(msg, m.keys.no):
		answer = false
	default:
		return nil
	}

	m.prompt.reply <- answer
	m.prompt = nil
	return m.waitForConfirm()
}

func (m *Model) handleListKeys(msg tea.KeyMsg) tea.Cmd {
	if m.filtering {
		switch msg.String() {
		case "ctrl+c":
			return tea.Quit
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue(m.list.Query().Name)
			return nil
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return m.routeList(m.list.SetFilter(m.filter.Value(), m.day))
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.filter):
		m.filtering = true
		m.filter.Focus()
		return nil
	case key.Matches(msg, m.keys.day):
		m.day = nextDay(m.day)
		return m.routeList(m.list.SetFilter(m.list.Query().Name, m.day))
	case key.Matches(msg, m.keys.next):
		return m.routeList(m.list.NextPage())
	case key.Matches(msg, m.keys.prev):
		return m.routeList(m.list.PrevPage())
	case key.Matches(msg, m.keys.create):
		return m.showForm(0)
	case key.Matches(msg, m.keys.csv):
		return m.routeList(m.list.ExportAs(models.ExportCSV))
	case key.Matches(msg, m.keys.pdf):
		return m.routeList(m.list.ExportAs(models.ExportPDF))
	case key.Matches(msg, m.keys.stats):
		return m.routeList(m.list.RefreshStats())
	case key.Matches(msg, m.keys.retry):
		if m.list.Err() != nil {
			return m.routeList(m.list.Retry())
		}
		return m.routeList(m.list.Refresh())
	case key.Matches(msg, m.keys.back):
		m.list.DismissNotice()
		return nil
	}

	if r := m.selected(); r != nil {
		switch {
		case key.Matches(msg, m.keys.open):
			return m.showDetail(r.ID)
		case key.Matches(msg, m.keys.edit):
			return m.showForm(r.ID)
		case key.Matches(msg, m.keys.remove):
			cmd := m.list.Delete(r.ID)
			m.syncRoutines()
			return m.routeList(cmd)
		case key.Matches(msg, m.keys.duplicate):
			return m.routeList(m.list.Duplicate(r.ID))
		}
	}

	var cmd tea.Cmd
	m.routines, cmd = m.routines.Update(msg)
	return cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.detail.Notice() != nil {
			m.detail.DismissNotice()
			return nil
		}
		return m.showList()
	case key.Matches(msg, m.keys.edit):
		if m.detail.State() == session.DetailReady {
			return m.showForm(m.detail.ID())
		}
	case key.Matches(msg, m.keys.remove):
		return m.routePage(m.detail.Delete())
	case key.Matches(msg, m.keys.retry):
		return m.routePage(m.detail.Retry())
	}
	return nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.String() == "ctrl+c":
		return tea.Quit
	case key.Matches(msg, m.keys.back):
		if !m.edit.IsNew() {
			return m.showDetail(m.edit.ID())
		}
		return m.showList()
	case m.edit.State() == session.EditErrored:
		if key.Matches(msg, m.keys.retry) {
			return m.routePage(m.edit.Retry())
		}
		return nil
	case m.edit.State() != session.EditReady:
		return nil
	case key.Matches(msg, m.keys.nextField):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.prevField):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.addRow):
		if m.commit() {
			if row := m.edit.AddExercise(); row >= 0 {
				m.focus = firstCell(row)
			}
			m.loadCell()
		}
	case key.Matches(msg, m.keys.removeRow):
		if c := m.currentCell(); c.row >= 0 {
			m.formErr = m.edit.RemoveExercise(c.row)
			m.loadCell()
		}
	case key.Matches(msg, m.keys.rowUp):
		m.moveRow(-1)
	case key.Matches(msg, m.keys.rowDown):
		m.moveRow(1)
	case key.Matches(msg, m.keys.save):
		if !m.commit() {
			return nil
		}
		cmd := m.edit.Submit()
		if cmd == nil {
			if i := invalidCell(m.edit.Draft(), m.edit.Err()); i >= 0 {
				m.focus = i
				m.loadCell()
			}
		}
		return m.routePage(cmd)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) currentCell() cell {
	cs := cells(m.edit.Draft())
	return cs[min(m.focus, len(cs)-1)]
}

// commit writes the input's value into the focused cell. A rejected value keeps focus where it is.
func (m *Model) commit() bool {
	m.formErr = setCell(m.edit, m.currentCell(), m.input.Value())
	return m.formErr == nil
}

func (m *Model) moveFocus(delta int) {
	if !m.commit() {
		return
	}
	n := len(cells(m.edit.Draft()))
	m.focus = (m.focus + delta + n) % n
	m.loadCell()
}

// moveRow swaps the focused row with its neighbour and keeps focus on the same field.
func (m *Model) moveRow(delta int) {
	c := m.currentCell()
	if c.row < 0 || !m.commit() {
		return
	}
	to := c.row + delta
	if to < 0 || to >= len(m.edit.Draft().Exercises) {
		return
	}
	if err := m.edit.Reorder(c.row, to); err != nil {
		m.formErr = err
		return
	}
	m.focus += delta * len(session.ExerciseFields)
	m.loadCell()
}

// loadCell points the input at the focused cell.
func (m *Model) loadCell() {
	if m.edit == nil {
		return
	}
	d := m.edit.Draft()
	cs := cells(d)
	m.focus = max(0, min(m.focus, len(cs)-1))
	c := cs[m.focus]

	m.input.Prompt = c.label() + ": "
	m.input.SetValue(cellValue(d, c))
	m.input.CursorEnd()
	m.input.Focus()
}
