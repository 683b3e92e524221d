package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pratama/commerce/internal/apperrors"
	"github.com/pratama/commerce/product/internal/repository"
)

// sortableColumns maps the public sort field names onto table columns.
var sortableColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"price":     "price",
	"sku":       "sku",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// parsePageRequest reads page, size and the repeatable sort parameter
// ("field,direction"). Defaults: page 0, size 20, sort id,asc.
func parsePageRequest(r *http.Request) (repository.PageRequest, error) {
	query := r.URL.Query()
	req := repository.PageRequest{
		Page: repository.DefaultPage,
		Size: repository.DefaultPageSize,
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return repository.PageRequest{}, apperrors.BadRequest("'%s' is not a valid page number", raw)
		}
		req.Page = page
	}

	if raw := query.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return repository.PageRequest{}, apperrors.BadRequest("'%s' is not a valid page size", raw)
		}
		if size > repository.MaxPageSize {
			size = repository.MaxPageSize
		}
		req.Size = size
	}

	for _, raw := range query["sort"] {
		order, err := parseSortOrder(raw)
		if err != nil {
			return repository.PageRequest{}, err
		}
		req.Sort = append(req.Sort, order)
	}
	return req, nil
}

func parseSortOrder(raw string) (repository.SortOrder, error) {
	field, direction, hasDirection := strings.Cut(raw, ",")

	column, ok := sortableColumns[field]
	if !ok {
		return repository.SortOrder{}, apperrors.BadRequest("'%s' is not a sortable field", field)
	}

	order := repository.SortOrder{Column: column}
	if hasDirection {
		switch strings.ToLower(direction) {
		case "asc":
		case "desc":
			order.Descending = true
		default:
			return repository.SortOrder{}, apperrors.BadRequest("'%s' is not a valid sort direction", direction)
		}
	}
	return order, nil
}
