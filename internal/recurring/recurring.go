// Package recurring materializes monthly movement templates into real
// movements. A template names an amount, an account, and a day of the month;
// applying a month stamps one movement per active template on that day.
package recurring

import (
	"context"
	"fmt"
	"time"

	"finanzas/internal/dateutils"
	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"
)

// Store is the slice of the ledger the applier needs.
type Store interface {
	ListTemplates(ctx context.Context, onlyActive bool) ([]models.RecurringTemplate, error)
	MovementsOn(ctx context.Context, date time.Time) ([]models.MovementWithNames, error)
	CreateMovement(ctx context.Context, m ledger.NewMovement) (models.Movement, error)
}

// Result counts what an application pass actually did.
type Result struct {
	Created int
	Skipped int
	Errors  []string
}

// Applier stamps recurring templates onto calendar months.
type Applier struct {
	store  Store
	logger logging.Logger
}

// NewApplier creates an Applier backed by the given store.
func NewApplier(store Store, logger logging.Logger) *Applier {
	return &Applier{
		store:  store,
		logger: logger,
	}
}

// ApplyMonth creates one movement per active template for the given month.
// A template's day of month is clamped to the month's length, so a day-31
// template lands on February 28th or 29th. A template whose note already
// appears on the target day is skipped, which makes reapplying a month safe.
func (a *Applier) ApplyMonth(ctx context.Context, ownerID string, year int, month time.Month) (Result, error) {
	templates, err := a.store.ListTemplates(ctx, true)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, t := range templates {
		day := t.DayOfMonth
		if max := dateutils.DaysInMonth(year, month); day > max {
			day = max
		}
		date := dateutils.Date(year, month, day)

		applied, err := a.alreadyApplied(ctx, t, date)
		if err != nil {
			return result, err
		}
		if applied {
			result.Skipped++
			continue
		}

		_, err = a.store.CreateMovement(ctx, ledger.NewMovement{
			OwnerID:    ownerID,
			Date:       date,
			Type:       t.Type,
			Amount:     t.Amount,
			AccountID:  t.AccountID,
			CategoryID: t.CategoryID,
			FixedVar:   t.FixedVar,
			Note:       noteFor(t),
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", t.Name, err))
			continue
		}
		result.Created++
	}

	a.logger.Info("applied recurring templates",
		logging.F("year", year),
		logging.F("month", int(month)),
		logging.F("created", result.Created),
		logging.F("skipped", result.Skipped))

	return result, nil
}

// alreadyApplied reports whether the template's marker note already exists
// among the movements on the target day.
func (a *Applier) alreadyApplied(ctx context.Context, t models.RecurringTemplate, date time.Time) (bool, error) {
	movements, err := a.store.MovementsOn(ctx, date)
	if err != nil {
		return false, err
	}
	marker := noteFor(t)
	for _, m := range movements {
		if m.Note == marker && m.Type == t.Type && m.AccountID == t.AccountID {
			return true, nil
		}
	}
	return false, nil
}

// noteFor derives the movement note from the template. The template name is
// the recognizable part; a custom note wins when present.
func noteFor(t models.RecurringTemplate) string {
	if t.Note != "" {
		return t.Note
	}
	return t.Name
}
