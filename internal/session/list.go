package session

import (
	"context"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rutinas/internal/formatter"
	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/services"
)

// ListOptions configures a [ListSession].
type ListOptions struct {
	PageSize  int       // defaults to [models.DefaultPageSize]
	ExportDir string    // defaults to the working directory
	Confirmer Confirmer // defaults to [AlwaysConfirm]
}

// ListSession owns the browse view: filter, page, results, total and stats.
//
// Only the response to the most recently issued list query is applied. Secondary actions
// (stats, delete, duplicate, export) report through their own indicators and [Notice],
// never through Err.
type ListSession struct {
	ctx       context.Context
	gateway   services.RoutineGateway
	confirm   Confirmer
	exportDir string

	query   models.ListQuery
	gen     uint64
	results []models.Routine
	total   int
	loading bool
	err     error

	stats         *models.Stats
	statsInFlight int
	exporting     int
	pending       map[int]int
	notice        *Notice
}

// NewListSession creates a list controller for page 1 with no filters. Call [ListSession.Init] to fetch.
func NewListSession(ctx context.Context, gateway services.RoutineGateway, opts ListOptions) *ListSession {
	if opts.PageSize <= 0 {
		opts.PageSize = models.DefaultPageSize
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Confirmer == nil {
		opts.Confirmer = AlwaysConfirm
	}

	return &ListSession{
		ctx:       ctx,
		gateway:   gateway,
		confirm:   opts.Confirmer,
		exportDir: opts.ExportDir,
		query:     models.ListQuery{Page: 1, Size: opts.PageSize},
		results:   []models.Routine{},
		pending:   make(map[int]int),
	}
}

// Init fetches the first page and the stats together.
func (s *ListSession) Init() tea.Cmd {
	return tea.Batch(s.fetch(), s.RefreshStats())
}

// SetFilter starts a new query at page 1, superseding any list fetch in flight.
func (s *ListSession) SetFilter(name string, day models.Weekday) tea.Cmd {
	s.query = models.ListQuery{Name: name, Day: day, Page: 1, Size: s.query.Size}
	return s.fetch()
}

// SetPage re-issues the current filter at page n (at least 1) and refreshes stats alongside.
func (s *ListSession) SetPage(n int) tea.Cmd {
	if n < 1 {
		n = 1
	}
	q := s.query
	q.Page = n
	s.query = q
	return tea.Batch(s.fetch(), s.RefreshStats())
}

// NextPage moves forward unless already on the last page.
func (s *ListSession) NextPage() tea.Cmd {
	if s.query.Page >= s.TotalPages() {
		return nil
	}
	return s.SetPage(s.query.Page + 1)
}

// PrevPage moves back unless already on the first page.
func (s *ListSession) PrevPage() tea.Cmd {
	if s.query.Page <= 1 {
		return nil
	}
	return s.SetPage(s.query.Page - 1)
}

// Refresh re-issues the current query.
func (s *ListSession) Refresh() tea.Cmd { return s.fetch() }

// Retry is the error state's retry action.
func (s *ListSession) Retry() tea.Cmd { return s.fetch() }

func (s *ListSession) fetch() tea.Cmd {
	s.gen++
	s.loading = true

	ctx, gw, q, gen := s.ctx, s.gateway, s.query, s.gen
	return func() tea.Msg {
		page, err := present(gw.List(ctx, q))
		return ListLoadedMsg{gen: gen, page: page, err: err}
	}
}

// RefreshStats fetches stats independently of the list. The latest completion wins.
func (s *ListSession) RefreshStats() tea.Cmd {
	s.statsInFlight++

	ctx, gw := s.ctx, s.gateway
	return func() tea.Msg {
		stats, err := gw.Stats(ctx)
		return StatsLoadedMsg{stats: stats, err: err}
	}
}

// Delete asks for confirmation, then deletes id. The row is pruned only after the server confirms.
func (s *ListSession) Delete(id int) tea.Cmd {
	s.pending[id]++

	prompt := fmt.Sprintf("Delete routine %d?", id)
	if i := s.indexOf(id); i >= 0 {
		prompt = fmt.Sprintf("Delete routine %q?", s.results[i].Name)
	}

	ctx, gw, confirm := s.ctx, s.gateway, s.confirm
	return func() tea.Msg {
		if !confirm.Confirm(prompt) {
			return DeleteResultMsg{id: id, cancelled: true}
		}
		return DeleteResultMsg{id: id, err: gw.Delete(ctx, id)}
	}
}

// Duplicate copies id on the server; the copy is prepended on success.
func (s *ListSession) Duplicate(id int) tea.Cmd {
	s.pending[id]++

	ctx, gw := s.ctx, s.gateway
	return func() tea.Msg {
		routine, err := present(gw.Duplicate(ctx, id))
		return DuplicateResultMsg{id: id, routine: routine, err: err}
	}
}

// ExportAs downloads every routine in format and writes the file to the export directory.
func (s *ListSession) ExportAs(format models.ExportFormat) tea.Cmd {
	s.exporting++

	ctx, gw, dir := s.ctx, s.gateway, s.exportDir
	return func() tea.Msg {
		file, err := gw.Export(ctx, format)
		if err != nil {
			return ExportResultMsg{format: format, err: err}
		}
		path, err := formatter.WriteExportFile(dir, file)
		return ExportResultMsg{format: format, path: path, err: err}
	}
}

// Update reconciles state with a completed command. Foreign messages are ignored.
func (s *ListSession) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ListLoadedMsg:
		if msg.gen != s.gen {
			return nil
		}
		s.loading = false
		if msg.err != nil {
			s.err = msg.err
			return nil
		}
		s.err = nil
		s.results = slices.Clone(msg.page.Items)
		if s.results == nil {
			s.results = []models.Routine{}
		}
		s.total = msg.page.Total
		if msg.page.Page > 0 {
			s.query.Page = msg.page.Page
		}

	case StatsLoadedMsg:
		if s.statsInFlight > 0 {
			s.statsInFlight--
		}
		if msg.err == nil && msg.stats != nil {
			s.stats = msg.stats
		}

	case DeleteResultMsg:
		s.release(msg.id)
		switch {
		case msg.cancelled:
		case msg.err != nil:
			s.notify(NoticeError, fmt.Sprintf("Could not delete routine %d: %v", msg.id, msg.err))
		default:
			s.prune(msg.id)
			s.notify(NoticeInfo, fmt.Sprintf("Routine %d deleted", msg.id))
		}

	case DuplicateResultMsg:
		s.release(msg.id)
		if msg.err != nil {
			s.notify(NoticeError, fmt.Sprintf("Could not duplicate routine %d: %v", msg.id, msg.err))
			return nil
		}
		s.results = slices.Insert(s.results, 0, *msg.routine)
		s.total++
		s.notify(NoticeInfo, fmt.Sprintf("Created %q", msg.routine.Name))
		return s.RefreshStats()

	case ExportResultMsg:
		if s.exporting > 0 {
			s.exporting--
		}
		if msg.err != nil {
			s.notify(NoticeError, fmt.Sprintf("Export to %s failed: %v", msg.format, msg.err))
			return nil
		}
		s.notify(NoticeInfo, fmt.Sprintf("Exported to %s", msg.path))
	}

	return nil
}

func (s *ListSession) prune(id int) {
	if i := s.indexOf(id); i >= 0 {
		s.results = slices.Delete(s.results, i, i+1)
	}
	s.total = max(s.total-1, 0)
}

func (s *ListSession) release(id int) {
	if s.pending[id] <= 1 {
		delete(s.pending, id)
		return
	}
	s.pending[id]--
}

func (s *ListSession) indexOf(id int) int {
	return slices.IndexFunc(s.results, func(r models.Routine) bool { return r.ID == id })
}

func (s *ListSession) notify(kind NoticeKind, text string) {
	s.notice = &Notice{Kind: kind, Text: text}
}

// DismissNotice clears the current notice.
func (s *ListSession) DismissNotice() { s.notice = nil }

// TotalPages is at least 1.
func (s *ListSession) TotalPages() int {
	if s.query.Size <= 0 || s.total <= 0 {
		return 1
	}
	return (s.total + s.query.Size - 1) / s.query.Size
}

func (s *ListSession) Query() models.ListQuery   { return s.query }
func (s *ListSession) Results() []models.Routine { return slices.Clone(s.results) }
func (s *ListSession) Total() int                { return s.total }
func (s *ListSession) Page() int                 { return s.query.Page }
func (s *ListSession) Stats() *models.Stats      { return s.stats }
func (s *ListSession) Loading() bool             { return s.loading }
func (s *ListSession) StatsLoading() bool        { return s.statsInFlight > 0 }
func (s *ListSession) Exporting() bool           { return s.exporting > 0 }
func (s *ListSession) Pending(id int) bool       { return s.pending[id] > 0 }
func (s *ListSession) Err() error                { return s.err }
func (s *ListSession) Notice() *Notice           { return s.notice }
