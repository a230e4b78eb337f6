package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// getDB returns the transaction handle when one is supplied, otherwise the root connection
func getDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// applyPaginationAndSort bounds the page size and only sorts by whitelisted columns
func applyPaginationAndSort(query *gorm.DB, allowed map[string]string, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	column, ok := allowed[sortBy]
	if !ok {
		column = allowed[""]
	}
	direction := "ASC"
	if sortOrder == "desc" {
		direction = "DESC"
	}
	if column != "" {
		query = query.Order(fmt.Sprintf("%s %s", column, direction))
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
