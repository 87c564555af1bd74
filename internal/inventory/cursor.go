package inventory

// Cursor tracks the 1-based current page and the constant page size.
type Cursor struct {
	Page     int
	PageSize int
}

// NewCursor returns a cursor on page 1.
func NewCursor(pageSize int) Cursor {
	return Cursor{Page: 1, PageSize: pageSize}
}

// Next advances one page and returns the new page.
func (c *Cursor) Next() int {
	c.Page++
	return c.Page
}

// Previous moves back one page. At page 1 it does nothing and returns false.
func (c *Cursor) Previous() bool {
	if c.Page <= 1 {
		c.Page = 1
		return false
	}
	c.Page--
	return true
}

// Window returns the [start, end) bounds of the current page within a list
// of n elements.
func (c Cursor) Window(n int) (start, end int) {
	start = (c.Page - 1) * c.PageSize
	if start > n {
		start = n
	}
	end = min(start+c.PageSize, n)
	return start, end
}

// PageCount returns how many pages of size hold n elements. An empty list
// still has one (empty) page.
func PageCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}
