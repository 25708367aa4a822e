// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Partner, offer and ledger writes are single-row atomic operations on their own
// ports; only the trust records need a transaction spanning several writes.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// BuyerRepoFactory provides access to the buyer repository within a transaction.
	BuyerRepoFactory interface {
		BuyerRepository() ports.BuyerRepository
	}

	// PincodeRiskRepoFactory provides access to the pincode risk repository within a transaction.
	PincodeRiskRepoFactory interface {
		PincodeRiskRepository() ports.PincodeRiskRepository
	}

	// BuyerUoW manages transactions for buyer-only operations.
	BuyerUoW interface {
		TxManager
		BuyerRepoFactory
	}

	// BuyerUoWFactory creates new buyer unit of work instances.
	BuyerUoWFactory interface {
		Create() BuyerUoW
	}

	// TrustUoW manages transactions that update a buyer together with the risk
	// record of the pincode the order went to.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   buyers := uow.BuyerRepository()
	//   risks := uow.PincodeRiskRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	TrustUoW interface {
		TxManager
		BuyerRepoFactory
		PincodeRiskRepoFactory
	}

	// TrustUoWFactory creates new unit of work instances for trust operations.
	TrustUoWFactory interface {
		Create() TrustUoW
	}
)
