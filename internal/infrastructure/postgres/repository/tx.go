package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// DefaultTransactor opens gorm transactions and hands them to repositories
// through the context.
type DefaultTransactor struct {
	DB *gorm.DB
}

func NewDefaultTransactor(db *gorm.DB) *DefaultTransactor {
	return &DefaultTransactor{DB: db}
}

func (t *DefaultTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	return t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// conn returns the transaction bound to ctx, or db otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
