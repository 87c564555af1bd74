package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/magasin/internal/inventory"
	"github.com/erazemk/magasin/internal/render"
)

const browseHelp = `Commands:
  n, next          next page
  p, prev          previous page
  g N              go to page N
  /TEXT            search the list by name or id (empty clears the query)
  cat ID           filter by category id
  status S         filter by status
  date YYYY-MM-DD  filter by date added
  emp ID           only tools held by employee ID
  clear            clear every filter
  open ID          show a tool with its history
  close            close the tool view
  r                reload
  h, help          this help
  q, quit          exit`

// browser is an interactive line-oriented session over one view-model.
type browser struct {
	app    *app
	vm     *inventory.ViewModel
	prompt io.Writer

	// mu serializes rendering between the input loop and debounced queries.
	mu      sync.Mutex
	pending *string
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the inventory interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, err := a.scope()
			if err != nil {
				return err
			}

			b := &browser{app: a, vm: a.viewModel(scope)}
			if a.out.Format() == render.FormatText {
				b.prompt = cmd.OutOrStdout()
			}
			defer b.vm.Close()

			unsubscribe := b.vm.Subscribe(b.onState)
			defer unsubscribe()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return b.run(ctx, cmd.InOrStdin())
		},
	}
}

func (b *browser) run(ctx context.Context, in io.Reader) error {
	if err := b.vm.Load(ctx); err != nil {
		b.app.log.Debug("initial load incomplete", zap.Error(err))
	}
	b.show()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := readLines(ctx, in)

	for {
		if b.prompt != nil {
			fmt.Fprint(b.prompt, "> ")
		}
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := b.exec(ctx, strings.TrimSpace(line))
			if quit {
				return nil
			}
			if err != nil {
				b.fail(err)
			}
		}
	}
}

// readLines streams the lines of in until EOF or until ctx is done. The
// channel is closed when the reader stops.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// exec runs one command line and reports whether the session should end.
func (b *browser) exec(ctx context.Context, line string) (bool, error) {
	if q, ok := strings.CutPrefix(line, "/"); ok {
		b.mu.Lock()
		b.pending = &q
		b.mu.Unlock()
		b.vm.QueryInput(q)
		return false, nil
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch cmd {
	case "":
		return false, nil
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		b.app.out.Message("%s", browseHelp)
		return false, nil
	case "n", "next":
		err = b.vm.NextPage(ctx)
	case "p", "prev":
		err = b.vm.PreviousPage(ctx)
	case "g":
		n, convErr := strconv.Atoi(arg)
		if convErr != nil {
			return false, fmt.Errorf("invalid page %q", arg)
		}
		err = b.vm.GoToPage(ctx, n)
	case "cat":
		b.setCriterion(func(c *inventory.Criteria) { c.CategoryID = arg })
	case "status":
		b.setCriterion(func(c *inventory.Criteria) { c.Status = arg })
	case "date":
		b.setCriterion(func(c *inventory.Criteria) { c.DateAdded = arg })
	case "emp":
		b.setCriterion(func(c *inventory.Criteria) { c.EmployeeID = arg })
	case "clear":
		b.vm.ClearFilters()
	case "open":
		err = b.vm.OpenDetail(arg)
	case "close":
		b.vm.CloseDetail()
	case "r":
		err = b.vm.Reload(ctx)
	default:
		return false, fmt.Errorf("unknown command %q (h for help)", cmd)
	}

	if err != nil && !errors.Is(err, inventory.ErrSuperseded) {
		return false, err
	}
	b.show()
	return false, nil
}

func (b *browser) setCriterion(set func(*inventory.Criteria)) {
	c := b.vm.State().Criteria
	set(&c)
	b.vm.SetCriteria(c)
}

// onState renders the snapshot that applies a debounced query.
func (b *browser) onState(s inventory.State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil || s.Criteria.Query != *b.pending {
		return
	}
	b.pending = nil
	b.render(s)
}

func (b *browser) show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.render(b.vm.State())
}

func (b *browser) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.app.out.Error(err)
}

func (b *browser) render(s inventory.State) {
	var err error
	if s.Detail != nil {
		err = b.app.out.Detail(*s.Detail, s.Categories)
	} else {
		err = b.app.out.Inventory(s)
	}
	if err != nil {
		b.app.log.Error("failed to render", zap.Error(err))
	}
}
