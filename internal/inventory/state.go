package inventory

import (
	"fmt"

	"github.com/erazemk/magasin/internal/model"
)

// Scope selects the collection the filters run over.
type Scope string

const (
	// ScopePage filters the page fetched from the server.
	ScopePage Scope = "page"
	// ScopeAll loads every page, then filters and paginates locally.
	ScopeAll Scope = "all"
)

// ParseScope parses a scope name.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopePage, ScopeAll:
		return Scope(s), nil
	case "":
		return ScopePage, nil
	}
	return "", fmt.Errorf("unknown scope %q (want page or all)", s)
}

// State is an immutable snapshot of the view-model. Slices are shared
// between snapshots and must not be modified.
type State struct {
	Tools      []model.Tool     `json:"tools" yaml:"tools"`
	Filtered   []model.Tool     `json:"filtered" yaml:"filtered"`
	Visible    []model.Tool     `json:"visible" yaml:"visible"`
	Categories []model.Category `json:"categories" yaml:"categories"`
	Employees  []model.Employee `json:"employees" yaml:"employees"`
	Movements  []model.Movement `json:"movements" yaml:"movements"`

	Criteria Criteria `json:"criteria" yaml:"criteria"`
	Page     int      `json:"page" yaml:"page"`
	PageSize int      `json:"page_size" yaml:"page_size"`
	// PageCount is only known in ScopeAll; it is 0 otherwise.
	PageCount int   `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	Scope     Scope `json:"scope" yaml:"scope"`

	PageStats model.Stats        `json:"page_stats" yaml:"page_stats"`
	Totals    *model.ServerStats `json:"totals,omitempty" yaml:"totals,omitempty"`

	Detail  *Detail `json:"detail,omitempty" yaml:"detail,omitempty"`
	Loading bool    `json:"loading" yaml:"loading"`
	Err     error   `json:"-" yaml:"-"`

	// Generation is the load that produced Tools.
	Generation uint64 `json:"generation" yaml:"generation"`
	// Version increases with every published change.
	Version uint64 `json:"-" yaml:"-"`
}

// Stats returns the page statistics with any server totals applied.
func (s State) Stats() model.Stats {
	return s.PageStats.Overlay(s.Totals)
}

// CategoryName resolves a tool's category for display.
func (s State) CategoryName(t model.Tool) string {
	for _, c := range s.Categories {
		if c.ID.String() == t.CategoryID {
			return c.Name
		}
	}
	if t.Category != "" {
		return t.Category
	}
	return t.CategoryID
}
