// Package postgres provides the GORM store behind the dispatch and trust core:
// connection setup, schema migration and a Unit of Work over the trust tables.
//
// Repositories obtained from a GormUnitOfWork run inside its transaction while one
// is open and on the root connection otherwise, so the same factory serves both
// read-modify-write cycles and plain reads.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	b, err := uow.BuyerRepository().Get(ctx, buyerID)
//	if err != nil {
//	    return err
//	}
//	b.RecordOutcome(true, false)
//	if err = uow.BuyerRepository().Update(ctx, b); err != nil {
//	    return err // errs.ErrVersionConflict when another writer got there first
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork owns at most one transaction and must not be shared between
// goroutines; create one per command.
package postgres

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/buyerrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/pincoderepo"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances on one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := postgres.Open(cfg)
//	if err != nil {
//	    return err
//	}
//	factory := postgres.NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh UnitOfWork with no open transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction across the buyer and
// pincode risk repositories.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin opens the transaction. Calling Begin again while it is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

// Commit makes the transaction's writes permanent and closes it.
// Returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction's writes and closes it.
// Returns gorm.ErrInvalidTransaction when no transaction is open, which makes a
// deferred Rollback after a successful Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) BuyerRepository() ports.BuyerRepository {
	return buyerrepo.NewGormBuyerRepository(uow.conn())
}

func (uow *GormUnitOfWork) PincodeRiskRepository() ports.PincodeRiskRepository {
	return pincoderepo.NewGormPincodeRiskRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
