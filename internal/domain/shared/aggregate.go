package shared

import "time"

// BaseAggregateRoot extends BaseEntity with a version counter for
// optimistic locking
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// Touch records a mutation: the update timestamp moves and the version
// advances. Every state-changing entity method must call it.
func (a *BaseAggregateRoot) Touch() {
	a.UpdatedAt = time.Now()
	a.Version++
}

// NewBaseAggregateRoot creates a versioned aggregate root starting at
// version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
