package repository

import "strings"

const (
	DefaultPage     = 0
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type SortOrder struct {
	Column     string
	Descending bool
}

// PageRequest carries 0-indexed pagination plus an ordered list of sort keys.
// Columns must come from the sortable whitelist; the clause below is
// interpolated into SQL.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

type PageResult struct {
	Items         []Product
	TotalElements int64
	Page          int
	Size          int
}

// orderByClause renders the sort keys, appending id as a tiebreak so pages
// are stable slices of one global order.
func (p PageRequest) orderByClause() string {
	orders := make([]string, 0, len(p.Sort)+1)
	hasID := false
	for _, sort := range p.Sort {
		direction := "ASC"
		if sort.Descending {
			direction = "DESC"
		}
		orders = append(orders, sort.Column+" "+direction)
		if sort.Column == "id" {
			hasID = true
		}
	}
	if len(orders) == 0 || !hasID {
		orders = append(orders, "id ASC")
	}
	return strings.Join(orders, ", ")
}
