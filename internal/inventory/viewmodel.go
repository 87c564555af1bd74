package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/magasin/internal/gateway"
	"github.com/erazemk/magasin/internal/model"
)

const (
	DefaultPageSize = 12
	DefaultDebounce = 300 * time.Millisecond
	DefaultMaxPages = 100
)

var (
	ErrEmptyQuery   = errors.New("search term required")
	ErrNameRequired = errors.New("name required")
	ErrToolNotFound = errors.New("tool not found")
	// ErrSuperseded is returned by a load whose result was discarded
	// because a newer load started.
	ErrSuperseded = errors.New("superseded by a newer load")
)

// Source is the remote data the view-model reads and writes.
// *gateway.Client implements it.
type Source interface {
	ToolsPage(ctx context.Context, page, perPage int) (*model.ToolPage, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Employees(ctx context.Context) ([]model.Employee, error)
	Movements(ctx context.Context) ([]model.RawMovement, error)
	Stats(ctx context.Context) (*model.ServerStats, error)
	FindTools(ctx context.Context, query string) ([]model.RawTool, error)
	CreateTool(ctx context.Context, t model.NewTool) (*model.RawTool, error)
	CreateCategory(ctx context.Context, c model.NewCategory) (*model.Category, error)
}

var _ Source = (*gateway.Client)(nil)

// Options configures a ViewModel. Zero values select the defaults.
type Options struct {
	PageSize int
	Scope    Scope
	// MaxPages bounds the pages walked in ScopeAll.
	MaxPages int
	// Debounce is the quiet period before QueryInput applies a query.
	Debounce time.Duration
	Logger   *zap.Logger
}

// ViewModel owns the tool list, the filter criteria and the cursor, and
// publishes a State snapshot after every change.
type ViewModel struct {
	src  Source
	opts Options
	log  *zap.Logger

	mu         sync.Mutex
	state      State
	cursor     Cursor
	gen        uint64
	cancelLoad context.CancelFunc
	listeners  map[int]func(State)
	nextID     int
	query      string
	statsGen   uint64

	// refErr and pageErr make up State.Err. A page fetch only replaces its own part.
	refErr  error
	pageErr error

	notifyMu  sync.Mutex
	delivered uint64

	debounced func(func())
}

// New returns a view-model reading from src. Nothing is fetched until Load.
func New(src Source, opts Options) *ViewModel {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Scope == "" {
		opts.Scope = ScopePage
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	vm := &ViewModel{
		src:       src,
		opts:      opts,
		log:       log,
		cursor:    NewCursor(opts.PageSize),
		listeners: make(map[int]func(State)),
		debounced: debounce.New(opts.Debounce),
	}
	vm.state = State{Page: 1, PageSize: opts.PageSize, Scope: opts.Scope}
	return vm
}

// State returns the current snapshot.
func (vm *ViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Subscribe registers fn to receive every published snapshot. Snapshots are
// delivered in order; a listener never sees an older version after a newer
// one. fn runs on the goroutine that made the change and must not call
// methods that change state. The returned function unregisters fn.
func (vm *ViewModel) Subscribe(fn func(State)) func() {
	vm.mu.Lock()
	id := vm.nextID
	vm.nextID++
	vm.listeners[id] = fn
	vm.mu.Unlock()

	return func() {
		vm.mu.Lock()
		delete(vm.listeners, id)
		vm.mu.Unlock()
	}
}

// Close cancels the in-flight load and drops any pending query input.
func (vm *ViewModel) Close() {
	vm.debounced(func() {})
	vm.mu.Lock()
	if vm.cancelLoad != nil {
		vm.cancelLoad()
		vm.cancelLoad = nil
	}
	vm.mu.Unlock()
}

// Load fetches the reference lists, the server totals and the first page
// concurrently. Failures leave the affected data as it was and are joined
// into State.Err and the returned error.
func (vm *ViewModel) Load(ctx context.Context) error {
	var (
		categories []model.Category
		employees  []model.Employee
		movements  []model.RawMovement
		totals     *model.ServerStats

		catErr, empErr, moveErr, statErr, toolErr error
	)

	vm.mu.Lock()
	vm.cursor.Page = 1
	vm.statsGen++
	statsGen := vm.statsGen
	vm.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		categories, catErr = vm.src.Categories(ctx)
		return nil
	})
	g.Go(func() error {
		employees, empErr = vm.src.Employees(ctx)
		return nil
	})
	g.Go(func() error {
		movements, moveErr = vm.src.Movements(ctx)
		return nil
	})
	g.Go(func() error {
		totals, statErr = vm.src.Stats(ctx)
		return nil
	})
	g.Go(func() error {
		if err := vm.fetch(ctx, 1); err != nil && !errors.Is(err, ErrSuperseded) {
			toolErr = err
		}
		return nil
	})
	_ = g.Wait()

	// Older backends have neither of these endpoints.
	if notFound(moveErr) {
		vm.log.Debug("movements endpoint missing", zap.Error(moveErr))
		moveErr = nil
	}
	if statErr != nil {
		vm.log.Debug("server stats unavailable", zap.Error(statErr))
		statErr = nil
	}

	err := errors.Join(catErr, empErr, moveErr, statErr, toolErr)

	vm.mu.Lock()
	if catErr == nil && categories != nil {
		vm.state.Categories = categories
	}
	if empErr == nil && employees != nil {
		vm.state.Employees = employees
	}
	if moveErr == nil && movements != nil {
		vm.state.Movements = NormalizeMovements(movements)
	}
	if totals != nil && statsGen == vm.statsGen {
		vm.state.Totals = totals
	}
	vm.refErr = errors.Join(catErr, empErr, moveErr)
	vm.setErr()
	vm.recompute()
	snap := vm.commit()
	vm.mu.Unlock()

	vm.deliver(snap)
	return err
}

// NextPage moves to the following page.
func (vm *ViewModel) NextPage(ctx context.Context) error {
	vm.mu.Lock()
	if vm.opts.Scope == ScopeAll {
		if vm.cursor.Page >= vm.state.PageCount {
			vm.mu.Unlock()
			return nil
		}
		vm.cursor.Next()
		return vm.repage()
	}
	page := vm.cursor.Next()
	vm.mu.Unlock()

	return vm.fetch(ctx, page)
}

// PreviousPage moves to the preceding page. At page 1 it does nothing.
func (vm *ViewModel) PreviousPage(ctx context.Context) error {
	vm.mu.Lock()
	if !vm.cursor.Previous() {
		vm.mu.Unlock()
		return nil
	}
	if vm.opts.Scope == ScopeAll {
		return vm.repage()
	}
	page := vm.cursor.Page
	vm.mu.Unlock()

	return vm.fetch(ctx, page)
}

// GoToPage jumps to page n. Pages below 1 are treated as 1.
func (vm *ViewModel) GoToPage(ctx context.Context, n int) error {
	n = max(n, 1)

	vm.mu.Lock()
	vm.cursor.Page = n
	if vm.opts.Scope == ScopeAll {
		return vm.repage()
	}
	vm.mu.Unlock()

	return vm.fetch(ctx, n)
}

// Reload fetches the current page again (every page in ScopeAll).
func (vm *ViewModel) Reload(ctx context.Context) error {
	vm.mu.Lock()
	page := vm.cursor.Page
	vm.mu.Unlock()

	return vm.fetch(ctx, page)
}

// RefreshTotals fetches the server statistics. On failure the previous
// totals are kept. A reply overtaken by a newer request is discarded with
// ErrSuperseded.
func (vm *ViewModel) RefreshTotals(ctx context.Context) error {
	vm.mu.Lock()
	vm.statsGen++
	gen := vm.statsGen
	vm.mu.Unlock()

	totals, err := vm.src.Stats(ctx)
	if err != nil {
		return fmt.Errorf("refreshing stats: %w", err)
	}

	vm.mu.Lock()
	if gen != vm.statsGen {
		vm.mu.Unlock()
		return ErrSuperseded
	}
	vm.state.Totals = totals
	snap := vm.commit()
	vm.mu.Unlock()

	vm.deliver(snap)
	return nil
}

// SetCriteria replaces the filter criteria and re-derives the visible list.
func (vm *ViewModel) SetCriteria(c Criteria) {
	vm.mu.Lock()
	vm.query = c.Query
	vm.state.Criteria = c
	if vm.opts.Scope == ScopeAll {
		vm.cursor.Page = 1
	}
	vm.recompute()
	snap := vm.commit()
	vm.mu.Unlock()

	vm.deliver(snap)
}

// ClearFilters resets every criterion.
func (vm *ViewModel) ClearFilters() {
	vm.SetCriteria(Criteria{})
}

// QueryInput records a keystroke-level query change. The query is applied
// once no further input arrives for the debounce period.
func (vm *ViewModel) QueryInput(q string) {
	vm.mu.Lock()
	vm.query = q
	vm.mu.Unlock()

	vm.debounced(func() {
		vm.mu.Lock()
		c := vm.state.Criteria
		c.Query = vm.query
		vm.mu.Unlock()

		vm.SetCriteria(c)
	})
}

// OpenDetail opens the detail view of a loaded tool, replacing any open one.
func (vm *ViewModel) OpenDetail(id string) error {
	vm.mu.Lock()
	tool, ok := Lookup(vm.state.Tools, id)
	if ok {
		vm.state.Detail = &Detail{
			Tool:    tool,
			History: History(vm.state.Movements, vm.state.Employees, id),
		}
	} else {
		vm.state.Detail = nil
	}
	snap := vm.commit()
	vm.mu.Unlock()

	vm.deliver(snap)
	if !ok {
		return fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	return nil
}

// CloseDetail closes the detail view.
func (vm *ViewModel) CloseDetail() {
	vm.mu.Lock()
	if vm.state.Detail == nil {
		vm.mu.Unlock()
		return
	}
	vm.state.Detail = nil
	snap := vm.commit()
	vm.mu.Unlock()

	vm.deliver(snap)
}

// FindTools searches the server by name. Blank terms are rejected without a
// request.
func (vm *ViewModel) FindTools(ctx context.Context, q string) ([]model.Tool, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	raw, err := vm.src.FindTools(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("searching tools: %w", err)
	}
	return NormalizeAll(raw), nil
}

// AddTool creates a tool and reloads the first page.
func (vm *ViewModel) AddTool(ctx context.Context, t model.NewTool) (model.Tool, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return model.Tool{}, fmt.Errorf("tool %w", ErrNameRequired)
	}

	raw, err := vm.src.CreateTool(ctx, t)
	if err != nil {
		return model.Tool{}, fmt.Errorf("creating tool: %w", err)
	}
	vm.log.Info("tool created", zap.String("id", raw.ID.String()), zap.String("name", t.Name))

	vm.mu.Lock()
	vm.cursor.Page = 1
	vm.mu.Unlock()

	if err := vm.fetch(ctx, 1); err != nil && !errors.Is(err, ErrSuperseded) {
		return Normalize(*raw), err
	}
	return Normalize(*raw), nil
}

// AddCategory creates a category and appends it to the reference list.
func (vm *ViewModel) AddCategory(ctx context.Context, c model.NewCategory) (model.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return model.Category{}, fmt.Errorf("category %w", ErrNameRequired)
	}

	created, err := vm.src.CreateCategory(ctx, c)
	if err != nil {
		return model.Category{}, fmt.Errorf("creating category: %w", err)
	}
	vm.log.Info("category created", zap.String("id", created.ID.String()), zap.String("name", created.Name))

	vm.mu.Lock()
	categories := make([]model.Category, 0, len(vm.state.Categories)+1)
	categories = append(categories, vm.state.Categories...)
	vm.state.Categories = append(categories, *created)
	snap := vm.commit()
	vm.mu.Unlock()

	vm.deliver(snap)
	return *created, nil
}

// fetch loads page (every page in ScopeAll) under a new generation. The
// previous in-flight load is canceled and a completion that is no longer
// current is discarded with ErrSuperseded.
func (vm *ViewModel) fetch(ctx context.Context, page int) error {
	vm.mu.Lock()
	vm.gen++
	gen := vm.gen
	if vm.cancelLoad != nil {
		vm.cancelLoad()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	vm.cancelLoad = cancel
	vm.state.Loading = true
	snap := vm.commit()
	vm.mu.Unlock()
	vm.deliver(snap)

	defer cancel()

	var (
		tools  []model.Tool
		served = page
		err    error
	)
	if vm.opts.Scope == ScopeAll {
		tools, err = vm.fetchAll(loadCtx)
	} else {
		var p *model.ToolPage
		p, err = vm.src.ToolsPage(loadCtx, page, vm.opts.PageSize)
		if err == nil {
			tools = NormalizeAll(p.Items)
			if p.Page > 0 {
				served = p.Page
			}
		}
	}

	vm.mu.Lock()
	if gen != vm.gen {
		vm.mu.Unlock()
		vm.log.Debug("discarding stale load", zap.Uint64("generation", gen), zap.Int("page", page))
		return ErrSuperseded
	}
	vm.cancelLoad = nil
	vm.state.Loading = false
	if err != nil {
		err = fmt.Errorf("loading tools page %d: %w", page, err)
		vm.pageErr = err
		vm.setErr()
		vm.cursor.Page = vm.state.Page
		vm.log.Warn("load failed", zap.Int("page", page), zap.Error(err))
	} else {
		vm.state.Tools = tools
		vm.pageErr = nil
		vm.setErr()
		vm.state.Generation = gen
		if vm.opts.Scope == ScopePage {
			vm.cursor.Page = served
		}
		if vm.state.Detail != nil {
			if _, ok := Lookup(tools, vm.state.Detail.Tool.ID); !ok {
				vm.state.Detail = nil
			}
		}
		vm.recompute()
	}
	snap = vm.commit()
	vm.mu.Unlock()

	vm.deliver(snap)
	return err
}

// fetchAll walks the server pages until a short page or MaxPages.
func (vm *ViewModel) fetchAll(ctx context.Context) ([]model.Tool, error) {
	var all []model.Tool
	for page := 1; page <= vm.opts.MaxPages; page++ {
		p, err := vm.src.ToolsPage(ctx, page, vm.opts.PageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, NormalizeAll(p.Items)...)
		if len(p.Items) < vm.opts.PageSize {
			return all, nil
		}
	}
	vm.log.Warn("page limit reached", zap.Int("max_pages", vm.opts.MaxPages))
	return all, nil
}

// repage re-derives the visible slice after a local cursor move. It must be
// called with mu held and releases it.
func (vm *ViewModel) repage() error {
	vm.recompute()
	snap := vm.commit()
	vm.mu.Unlock()

	vm.deliver(snap)
	return nil
}

// recompute derives the filtered list, the visible slice and the page
// statistics. Callers hold mu.
func (vm *ViewModel) recompute() {
	s := &vm.state

	filtered := Apply(s.Tools, s.Criteria)
	filtered = HeldBy(filtered, s.Movements, s.Criteria.EmployeeID)
	s.Filtered = filtered
	s.PageStats = model.CountStats(s.Tools)

	if vm.opts.Scope == ScopeAll {
		s.PageCount = PageCount(len(filtered), vm.opts.PageSize)
		vm.cursor.Page = min(max(vm.cursor.Page, 1), s.PageCount)
		start, end := vm.cursor.Window(len(filtered))
		s.Visible = filtered[start:end:end]
	} else {
		n := min(len(filtered), vm.opts.PageSize)
		s.Visible = filtered[:n:n]
	}
	s.Page = vm.cursor.Page
}

// setErr publishes the reference and page errors as State.Err. Callers hold mu.
func (vm *ViewModel) setErr() {
	vm.state.Err = errors.Join(vm.refErr, vm.pageErr)
}

// commit stamps a new version and returns the snapshot to deliver. Callers
// hold mu.
func (vm *ViewModel) commit() State {
	vm.state.Version++
	return vm.state
}

// deliver calls the listeners with snap unless a newer snapshot was already
// delivered. It must be called without mu held.
func (vm *ViewModel) deliver(snap State) {
	vm.notifyMu.Lock()
	defer vm.notifyMu.Unlock()

	if snap.Version <= vm.delivered {
		return
	}
	vm.delivered = snap.Version

	vm.mu.Lock()
	listeners := make([]func(State), 0, len(vm.listeners))
	for _, fn := range vm.listeners {
		listeners = append(listeners, fn)
	}
	vm.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func notFound(err error) bool {
	var gerr *gateway.Error
	return errors.As(err, &gerr) && gerr.Kind == gateway.KindStatus && gerr.StatusCode == http.StatusNotFound
}
