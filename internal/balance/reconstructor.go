// Package balance reconstructs account balances from the opening balance
// plus the signed sum of the ledger entries that touch the account.
package balance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"
)

// Reader is the slice of the ledger store the reconstructor needs.
type Reader interface {
	GetAccount(ctx context.Context, id string) (models.Account, error)
	ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]models.MovementWithNames, error)
}

// Reconstructor computes account balances at arbitrary dates. It performs
// pure reads; summation order does not affect the result and all arithmetic
// is decimal, so the reconstruction is deterministic to the cent.
type Reconstructor struct {
	store  Reader
	logger logging.Logger
}

// NewReconstructor creates a Reconstructor backed by the given store.
func NewReconstructor(store Reader, logger logging.Logger) *Reconstructor {
	return &Reconstructor{
		store:  store,
		logger: logger,
	}
}

// BalanceOf returns the balance of the account at the end of asOf. A nil
// asOf means all recorded history. Fails with *finerrors.NotFoundError when
// the account does not exist.
func (r *Reconstructor) BalanceOf(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	account, err := r.store.GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	movements, err := r.store.ListMovements(ctx, ledger.MovementFilter{
		AccountID: accountID,
		EndDate:   asOf,
	})
	if err != nil {
		return decimal.Zero, err
	}

	result := account.OpeningBalance
	for _, m := range movements {
		result = result.Add(m.SignedImpact(accountID))
	}

	r.logger.Debug("reconstructed balance",
		logging.F("account", accountID),
		logging.F("movements", len(movements)),
		logging.F("balance", result.String()))

	return result, nil
}

// AllBalances returns the balance of every account, keyed by account id.
// Inactive accounts are included; their history still exists.
func (r *Reconstructor) AllBalances(ctx context.Context, accounts []models.Account, asOf *time.Time) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		b, err := r.BalanceOf(ctx, a.ID, asOf)
		if err != nil {
			return nil, err
		}
		balances[a.ID] = b
	}
	return balances, nil
}
