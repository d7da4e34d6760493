package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx executes fn inside a database transaction. With a nil db (unit tests
// against in-memory repos) fn runs directly with a nil tx, which the fake
// repositories ignore.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
