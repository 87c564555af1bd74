// Package render writes inventory views as styled text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/erazemk/magasin/internal/inventory"
	"github.com/erazemk/magasin/internal/model"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Renderer writes views to w. It only reads the values it is given.
type Renderer struct {
	w      io.Writer
	format Format
	style  *lipgloss.Renderer
	styles styles

	// Now is the reference time for relative dates.
	Now func() time.Time
}

// New returns a renderer writing format to w. Colors are only emitted when
// w is a terminal that supports them.
func New(w io.Writer, format Format) *Renderer {
	lr := lipgloss.NewRenderer(w)
	return &Renderer{
		w:      w,
		format: format,
		style:  lr,
		styles: newStyles(lr),
		Now:    time.Now,
	}
}

// Format returns the output format.
func (r *Renderer) Format() Format { return r.format }

// inventoryView is the structured form of an inventory page.
type inventoryView struct {
	Page      int                `json:"page" yaml:"page"`
	PageSize  int                `json:"page_size" yaml:"page_size"`
	PageCount int                `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	Scope     inventory.Scope    `json:"scope" yaml:"scope"`
	Criteria  inventory.Criteria `json:"criteria" yaml:"criteria"`
	Tools     []model.Tool       `json:"tools" yaml:"tools"`
	Stats     model.Stats        `json:"stats" yaml:"stats"`
}

// Inventory writes the visible tools of s with the statistics and page footer.
func (r *Renderer) Inventory(s inventory.State) error {
	if r.format != FormatText {
		return r.encode(inventoryView{
			Page:      s.Page,
			PageSize:  s.PageSize,
			PageCount: s.PageCount,
			Scope:     s.Scope,
			Criteria:  s.Criteria,
			Tools:     nonNil(s.Visible),
			Stats:     s.Stats(),
		})
	}
	return r.inventoryText(s)
}

// Tools writes a plain tool list, such as search results.
func (r *Renderer) Tools(tools []model.Tool, categories []model.Category) error {
	if r.format != FormatText {
		return r.encode(nonNil(tools))
	}
	return r.toolsText(tools, categories, false)
}

// Detail writes a tool with its movement history.
func (r *Renderer) Detail(d inventory.Detail, categories []model.Category) error {
	if r.format != FormatText {
		if d.History == nil {
			d.History = []inventory.HistoryEntry{}
		}
		return r.encode(d)
	}
	return r.detailText(d, categories)
}

// History writes movement history entries.
func (r *Renderer) History(entries []inventory.HistoryEntry) error {
	if r.format != FormatText {
		return r.encode(nonNil(entries))
	}
	return r.historyText(entries)
}

// Categories writes the category list.
func (r *Renderer) Categories(categories []model.Category) error {
	if r.format != FormatText {
		return r.encode(nonNil(categories))
	}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.ID.String(), c.Name, c.Description})
	}
	return r.table([]string{"ID", "NAME", "DESCRIPTION"}, rows, "No categories")
}

// Employees writes the employee list.
func (r *Renderer) Employees(employees []model.Employee) error {
	if r.format != FormatText {
		return r.encode(nonNil(employees))
	}
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{e.ID.String(), e.Name, e.Department})
	}
	return r.table([]string{"ID", "NAME", "DEPARTMENT"}, rows, "No employees")
}

// Stats writes tool counters.
func (r *Renderer) Stats(s model.Stats) error {
	if r.format != FormatText {
		return r.encode(s)
	}
	return r.statsText(s)
}

// Tool writes a single tool without history, such as a newly created one.
func (r *Renderer) Tool(t model.Tool, categories []model.Category) error {
	if r.format != FormatText {
		return r.encode(t)
	}
	return r.toolText(t, categories)
}

// Category writes a single category.
func (r *Renderer) Category(c model.Category) error {
	if r.format != FormatText {
		return r.encode(c)
	}
	return r.Categories([]model.Category{c})
}

func (r *Renderer) encode(v any) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("cannot encode as %q", r.format)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
