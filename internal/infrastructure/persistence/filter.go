package persistence

import (
	"strings"

	"github.com/invtrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyPagination applies page/page-size offsets to the query
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// applyOrder applies ordering restricted to an allowlist of columns. Unknown
// columns fall back to the default to keep user input out of the ORDER BY
// clause.
func applyOrder(query *gorm.DB, filter shared.Filter, allowed map[string]bool, fallback string) *gorm.DB {
	column := filter.OrderBy
	if column == "" || !allowed[column] {
		column = fallback
	}
	dir := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") {
		dir = "DESC"
	}
	return query.Order(column + " " + dir)
}
