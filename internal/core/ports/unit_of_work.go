package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// Each instance owns at most one transaction at a time.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary over the trust stores.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// BuyerRepository returns a BuyerRepository bound to the current transaction.
	BuyerRepository() BuyerRepository

	// PincodeRiskRepository returns a PincodeRiskRepository bound to the current transaction.
	PincodeRiskRepository() PincodeRiskRepository
}
