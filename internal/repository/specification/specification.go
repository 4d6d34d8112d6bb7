package specification

import "gorm.io/gorm"

// Specification narrows a query. Implementations compose freely.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
