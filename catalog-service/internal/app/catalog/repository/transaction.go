package repository

import (
	"context"

	trmgorm "github.com/avito-tech/go-transaction-manager/drivers/gorm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"gorm.io/gorm"
)

const serviceName = "catalog-service"

// NewTxManager returns the unit of work used by multi-repository workflows.
// Repositories created over the same *gorm.DB join the transaction carried by ctx.
func NewTxManager(db *gorm.DB) *manager.Manager {
	return manager.Must(trmgorm.NewDefaultFactory(db))
}

// conn resolves the transaction stored in ctx, or falls back to the plain pool.
type conn struct {
	db     *gorm.DB
	getter *trmgorm.CtxGetter
}

func newConn(db *gorm.DB) conn {
	return conn{db: db, getter: trmgorm.DefaultCtxGetter}
}

func (c conn) get(ctx context.Context) *gorm.DB {
	return c.getter.DefaultTrOrDB(ctx, c.db).WithContext(ctx)
}
