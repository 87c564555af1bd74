package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/erazemk/magasin/internal/inventory"
	"github.com/erazemk/magasin/internal/model"
)

const (
	noTools         = "No tools found."
	noMatchingTools = "No tools found matching your search."
	noHistory       = "No history"
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	errText lipgloss.Style
	status  map[string]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	ok := r.NewStyle().Foreground(lipgloss.Color("#30d158"))
	busy := r.NewStyle().Foreground(lipgloss.Color("#ff9f0a"))
	repair := r.NewStyle().Foreground(lipgloss.Color("#ffd60a"))
	broken := r.NewStyle().Foreground(lipgloss.Color("#ff453a"))

	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1),
		header:  r.NewStyle().Bold(true),
		label:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#0a84ff")),
		muted:   r.NewStyle().Faint(true),
		errText: r.NewStyle().Foreground(lipgloss.Color("#ff453a")),
		status: map[string]lipgloss.Style{
			model.StatusAvailable:   ok,
			model.StatusBorrowed:    busy,
			model.StatusCheckedOut:  busy,
			model.StatusInRepair:    repair,
			model.StatusMaintenance: repair,
			model.StatusBroken:      broken,
		},
	}
}

func (r *Renderer) statusText(status string) string {
	if st, ok := r.styles.status[status]; ok {
		return st.Render(status)
	}
	return status
}

// Error writes err as a styled one-line message.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.w, r.styles.errText.Render("Error: "+err.Error()))
}

// Message writes a plain informational line.
func (r *Renderer) Message(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

func (r *Renderer) inventoryText(s inventory.State) error {
	fmt.Fprintln(r.w, r.styles.title.Render("Inventory"))
	if err := r.statsText(s.Stats()); err != nil {
		return err
	}
	fmt.Fprintln(r.w)

	if len(s.Visible) == 0 {
		msg := noTools
		if !s.Criteria.IsZero() {
			msg = noMatchingTools
		}
		fmt.Fprintln(r.w, msg)
	} else if err := r.toolsText(s.Visible, s.Categories, true); err != nil {
		return err
	}

	footer := fmt.Sprintf("Page %d", s.Page)
	if s.PageCount > 0 {
		footer += fmt.Sprintf(" of %d", s.PageCount)
	}
	if len(s.Filtered) > len(s.Visible) {
		footer += fmt.Sprintf(" (showing %d of %d matches)", len(s.Visible), len(s.Filtered))
	}
	if !s.Criteria.IsZero() {
		footer += " | " + criteriaText(s.Criteria)
	}
	fmt.Fprintln(r.w, r.styles.muted.Render(footer))

	if s.Err != nil {
		r.Error(s.Err)
	}
	return nil
}

func criteriaText(c inventory.Criteria) string {
	var parts []string
	add := func(name, v string) {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, name+"="+v)
		}
	}
	add("query", c.Query)
	add("category", c.CategoryID)
	add("employee", c.EmployeeID)
	add("status", c.Status)
	add("added", c.DateAdded)
	return strings.Join(parts, " ")
}

func (r *Renderer) toolsText(tools []model.Tool, categories []model.Category, filtered bool) error {
	if len(tools) == 0 {
		if filtered {
			fmt.Fprintln(r.w, noMatchingTools)
		} else {
			fmt.Fprintln(r.w, noTools)
		}
		return nil
	}

	state := inventory.State{Categories: categories}
	rows := make([][]string, 0, len(tools))
	for _, t := range tools {
		rows = append(rows, []string{
			t.ID,
			t.Name,
			state.CategoryName(t),
			location(t.Location),
			r.statusText(t.Status),
			inventory.FormatDate(t.DateAdded),
		})
	}
	return r.table([]string{"ID", "NAME", "CATEGORY", "LOCATION", "STATUS", "ADDED"}, rows, noTools)
}

func location(l model.Location) string {
	var parts []string
	if l.Row != "" {
		parts = append(parts, "row "+l.Row)
	}
	if l.Col != "" {
		parts = append(parts, "col "+l.Col)
	}
	if l.Shelf != "" {
		parts = append(parts, "shelf "+l.Shelf)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func (r *Renderer) statsText(s model.Stats) error {
	_, err := fmt.Fprintf(r.w, "%s %s  %s %s  %s %s  %s %s  %s %s\n",
		r.styles.label.Render("Total"), humanize.Comma(int64(s.Total)),
		r.styles.label.Render("Available"), humanize.Comma(int64(s.Available)),
		r.styles.label.Render("Borrowed"), humanize.Comma(int64(s.Borrowed)),
		r.styles.label.Render("Maintenance"), humanize.Comma(int64(s.Maintenance)),
		r.styles.label.Render("Out of service"), humanize.Comma(int64(s.OutOfService)),
	)
	return err
}

func (r *Renderer) toolText(t model.Tool, categories []model.Category) error {
	state := inventory.State{Categories: categories}

	fmt.Fprintln(r.w, r.styles.title.Render(t.Name))
	field := func(name, value string) {
		if value == "" {
			value = r.styles.muted.Render("-")
		}
		fmt.Fprintf(r.w, "%s %s\n", r.styles.label.Width(18).Render(name), value)
	}
	field("ID", t.ID)
	field("Category", state.CategoryName(t))
	field("Location", location(t.Location))
	field("Status", r.statusText(t.Status))
	field("Price", price(t.Price))
	field("Added", r.date(t.DateAdded))
	field("Purchased", r.date(t.PurchaseDate))
	field("Last maintenance", r.date(t.LastMaintenance))
	field("Last checked out", r.date(t.LastCheckedOut))
	field("Photo", t.Photo)
	field("Description", t.Description)
	return nil
}

func (r *Renderer) detailText(d inventory.Detail, categories []model.Category) error {
	if err := r.toolText(d.Tool, categories); err != nil {
		return err
	}
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.styles.header.Render("History"))
	return r.historyText(d.History)
}

func (r *Renderer) historyText(entries []inventory.HistoryEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		m := e.Movement
		rows = append(rows, []string{
			m.ToolID,
			e.Employee,
			inventory.FormatDate(m.BorrowDate),
			inventory.FormatDate(m.ExpectedReturn),
			inventory.FormatDate(m.ReturnDate),
			m.Status,
		})
	}
	return r.table([]string{"TOOL", "EMPLOYEE", "BORROWED", "EXPECTED", "RETURNED", "STATUS"}, rows, noHistory)
}

// date renders t as YYYY-MM-DD followed by the relative time.
func (r *Renderer) date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s)", inventory.FormatDate(t), humanize.RelTime(*t, r.Now(), "ago", "from now"))
}

func price(p model.Flex) string {
	if v, ok := p.Float(); ok {
		return humanize.FormatFloat("#,###.##", v)
	}
	return p.String()
}

// table writes rows in aligned columns, or empty when there are none.
func (r *Renderer) table(headers []string, rows [][]string, empty string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.w, empty)
		return err
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		var b strings.Builder
		for i, cell := range cells {
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(cell)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
			}
		}
		return strings.TrimRight(b.String(), " ")
	}

	fmt.Fprintln(r.w, line(headers, &r.styles.header))
	for _, row := range rows {
		if _, err := fmt.Fprintln(r.w, line(row, nil)); err != nil {
			return err
		}
	}
	return nil
}
