// Package memory implements the ledger store on in-process maps. It backs
// the "memory" storage backend and the test suites, with the same filter,
// ordering, and error semantics as the SQLite store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finanzas/internal/dateutils"
	"finanzas/internal/finerrors"
	"finanzas/internal/ledger"
	"finanzas/internal/models"
)

// Store holds all ledger entities in memory, scoped to one owner.
type Store struct {
	mu      sync.RWMutex
	ownerID string

	accounts   map[string]models.Account
	categories map[string]models.Category
	movements  map[string]models.Movement
	snapshots  map[string]models.Snapshot
	dayNotes   map[string]models.DayNote
	templates  map[string]models.RecurringTemplate
}

var _ ledger.Store = (*Store)(nil)

// NewStore returns an empty store scoped to ownerID.
func NewStore(ownerID string) *Store {
	return &Store{
		ownerID:    ownerID,
		accounts:   make(map[string]models.Account),
		categories: make(map[string]models.Category),
		movements:  make(map[string]models.Movement),
		snapshots:  make(map[string]models.Snapshot),
		dayNotes:   make(map[string]models.DayNote),
		templates:  make(map[string]models.RecurringTemplate),
	}
}

// Close is a no-op; it exists to satisfy ledger.Store.
func (s *Store) Close() error { return nil }

// ListMovements returns movements matching the filter, most recent date
// first, with account and category names resolved.
func (s *Store) ListMovements(_ context.Context, filter ledger.MovementFilter) ([]models.MovementWithNames, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.MovementWithNames
	for _, m := range s.movements {
		if !matchesFilter(m, filter) {
			continue
		}
		result = append(result, s.withNames(m))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// MovementsOn returns all movements dated exactly on the given day.
func (s *Store) MovementsOn(_ context.Context, date time.Time) ([]models.MovementWithNames, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := dateutils.Day(date)
	var result []models.MovementWithNames
	for _, m := range s.movements {
		if m.Date.Equal(day) {
			result = append(result, s.withNames(m))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// CreateMovement validates and stores a new movement.
func (s *Store) CreateMovement(_ context.Context, nm ledger.NewMovement) (models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := models.Movement{
		ID:            uuid.NewString(),
		OwnerID:       nm.OwnerID,
		Date:          dateutils.Day(nm.Date),
		Type:          nm.Type,
		Amount:        nm.Amount,
		AccountID:     nm.AccountID,
		AccountFromID: nm.AccountFromID,
		AccountToID:   nm.AccountToID,
		CategoryID:    nm.CategoryID,
		FixedVar:      nm.FixedVar,
		Note:          nm.Note,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.validateMovement(m); err != nil {
		return models.Movement{}, err
	}
	s.movements[m.ID] = m
	return m, nil
}

// UpdateMovement replaces the mutable fields of an existing movement.
func (s *Store) UpdateMovement(_ context.Context, id string, nm ledger.NewMovement) (models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.movements[id]
	if !ok {
		return models.Movement{}, &finerrors.NotFoundError{Entity: "movement", ID: id}
	}

	updated := existing
	updated.Date = dateutils.Day(nm.Date)
	updated.Type = nm.Type
	updated.Amount = nm.Amount
	updated.AccountID = nm.AccountID
	updated.AccountFromID = nm.AccountFromID
	updated.AccountToID = nm.AccountToID
	updated.CategoryID = nm.CategoryID
	updated.FixedVar = nm.FixedVar
	updated.Note = nm.Note

	if err := s.validateMovement(updated); err != nil {
		return models.Movement{}, err
	}
	s.movements[id] = updated
	return updated, nil
}

// DeleteMovement removes a movement.
func (s *Store) DeleteMovement(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movements[id]; !ok {
		return &finerrors.NotFoundError{Entity: "movement", ID: id}
	}
	delete(s.movements, id)
	return nil
}

// ListAccounts returns accounts sorted by name, omitting inactive ones
// unless includeInactive is set.
func (s *Store) ListAccounts(_ context.Context, includeInactive bool) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var accounts []models.Account
	for _, a := range s.accounts {
		if !a.IsActive && !includeInactive {
			continue
		}
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

// GetAccount returns one account or *finerrors.NotFoundError.
func (s *Store) GetAccount(_ context.Context, id string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return models.Account{}, &finerrors.NotFoundError{Entity: "account", ID: id}
	}
	return a, nil
}

// CreateAccount stores a new active account.
func (s *Store) CreateAccount(_ context.Context, na ledger.NewAccount) (models.Account, error) {
	if na.Name == "" {
		return models.Account{}, &finerrors.ValidationError{Reason: "account name must not be empty"}
	}
	if !models.ValidAccountType(na.Type) {
		return models.Account{}, &finerrors.ValidationError{Reason: "unknown account type " + string(na.Type)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := models.Account{
		ID:             uuid.NewString(),
		OwnerID:        na.OwnerID,
		Name:           na.Name,
		Type:           na.Type,
		OpeningBalance: na.OpeningBalance,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	s.accounts[a.ID] = a
	return a, nil
}

// UpdateAccount replaces the mutable fields of an account.
func (s *Store) UpdateAccount(_ context.Context, a models.Account) (models.Account, error) {
	if !models.ValidAccountType(a.Type) {
		return models.Account{}, &finerrors.ValidationError{Reason: "unknown account type " + string(a.Type)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accounts[a.ID]
	if !ok {
		return models.Account{}, &finerrors.NotFoundError{Entity: "account", ID: a.ID}
	}
	existing.Name = a.Name
	existing.Type = a.Type
	existing.OpeningBalance = a.OpeningBalance
	existing.IsActive = a.IsActive
	s.accounts[a.ID] = existing
	return existing, nil
}

// DeleteAccount removes an account row entirely.
func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return &finerrors.NotFoundError{Entity: "account", ID: id}
	}
	delete(s.accounts, id)
	return nil
}

// ListCategories returns active categories sorted by name, optionally
// restricted to one kind.
func (s *Store) ListCategories(_ context.Context, kind *models.CategoryKind) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var categories []models.Category
	for _, c := range s.categories {
		if !c.IsActive {
			continue
		}
		if kind != nil && c.Kind != *kind {
			continue
		}
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// GetCategory returns one category or *finerrors.NotFoundError.
func (s *Store) GetCategory(_ context.Context, id string) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return models.Category{}, &finerrors.NotFoundError{Entity: "category", ID: id}
	}
	return c, nil
}

// CreateCategory stores a new active category.
func (s *Store) CreateCategory(_ context.Context, nc ledger.NewCategory) (models.Category, error) {
	if nc.Name == "" {
		return models.Category{}, &finerrors.ValidationError{Reason: "category name must not be empty"}
	}
	if nc.Kind != models.KindIncome && nc.Kind != models.KindExpense {
		return models.Category{}, &finerrors.ValidationError{Reason: "unknown category kind " + string(nc.Kind)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := models.Category{
		ID:        uuid.NewString(),
		OwnerID:   nc.OwnerID,
		Name:      nc.Name,
		Kind:      nc.Kind,
		IsFixed:   nc.IsFixed,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	s.categories[c.ID] = c
	return c, nil
}

// UpdateCategory replaces the mutable fields of a category.
func (s *Store) UpdateCategory(_ context.Context, c models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[c.ID]
	if !ok {
		return models.Category{}, &finerrors.NotFoundError{Entity: "category", ID: c.ID}
	}
	existing.Name = c.Name
	existing.Kind = c.Kind
	existing.IsFixed = c.IsFixed
	existing.IsActive = c.IsActive
	s.categories[c.ID] = existing
	return existing, nil
}

// DeleteCategory removes a category row entirely.
func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return &finerrors.NotFoundError{Entity: "category", ID: id}
	}
	delete(s.categories, id)
	return nil
}

// ListSnapshots returns snapshots matching the filter in ascending date order.
func (s *Store) ListSnapshots(_ context.Context, filter ledger.SnapshotFilter) ([]models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshots []models.Snapshot
	for _, snap := range s.snapshots {
		if filter.AccountID != "" && snap.AccountID != filter.AccountID {
			continue
		}
		if filter.StartDate != nil && snap.Date.Before(dateutils.Day(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && snap.Date.After(dateutils.Day(*filter.EndDate)) {
			continue
		}
		snapshots = append(snapshots, snap)
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Date.Before(snapshots[j].Date) })
	return snapshots, nil
}

// CreateSnapshot stores a new snapshot, enforcing the one-per-account-per-day
// rule.
func (s *Store) CreateSnapshot(_ context.Context, ns ledger.NewSnapshot) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[ns.AccountID]; !ok {
		return models.Snapshot{}, &finerrors.NotFoundError{Entity: "account", ID: ns.AccountID}
	}

	day := dateutils.Day(ns.Date)
	for _, existing := range s.snapshots {
		if existing.AccountID == ns.AccountID && existing.Date.Equal(day) {
			return models.Snapshot{}, &finerrors.ConflictError{
				Entity: "snapshot",
				Reason: "snapshot already exists for account " + ns.AccountID + " on " + dateutils.ToISO(day),
			}
		}
	}

	snap := models.Snapshot{
		ID:        uuid.NewString(),
		OwnerID:   ns.OwnerID,
		AccountID: ns.AccountID,
		Date:      day,
		Balance:   ns.Balance,
		CreatedAt: time.Now().UTC(),
	}
	s.snapshots[snap.ID] = snap
	return snap, nil
}

// UpdateSnapshotBalance mutates only the balance of an existing snapshot.
func (s *Store) UpdateSnapshotBalance(_ context.Context, id string, balance decimal.Decimal) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.snapshots[id]
	if !ok {
		return models.Snapshot{}, &finerrors.NotFoundError{Entity: "snapshot", ID: id}
	}
	snap.Balance = balance
	s.snapshots[id] = snap
	return snap, nil
}

// DeleteSnapshot removes a snapshot.
func (s *Store) DeleteSnapshot(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[id]; !ok {
		return &finerrors.NotFoundError{Entity: "snapshot", ID: id}
	}
	delete(s.snapshots, id)
	return nil
}

// GetDayNote returns the note for a date, or nil when none exists.
func (s *Store) GetDayNote(_ context.Context, date time.Time) (*models.DayNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := dateutils.ToISO(dateutils.Day(date))
	n, ok := s.dayNotes[key]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// ListDayNotes returns all notes dated within [start, end], ascending.
func (s *Store) ListDayNotes(_ context.Context, start, end time.Time) ([]models.DayNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to := dateutils.Day(start), dateutils.Day(end)
	var notes []models.DayNote
	for _, n := range s.dayNotes {
		if n.Date.Before(from) || n.Date.After(to) {
			continue
		}
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Date.Before(notes[j].Date) })
	return notes, nil
}

// UpsertDayNote creates or replaces the note for a date. An empty or
// whitespace-only note deletes the row instead and returns nil.
func (s *Store) UpsertDayNote(_ context.Context, ownerID string, date time.Time, note string) (*models.DayNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := dateutils.Day(date)
	key := dateutils.ToISO(day)

	if strings.TrimSpace(note) == "" {
		delete(s.dayNotes, key)
		return nil, nil
	}

	if existing, ok := s.dayNotes[key]; ok {
		existing.Note = note
		s.dayNotes[key] = existing
		return &existing, nil
	}

	n := models.DayNote{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Date:      day,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	s.dayNotes[key] = n
	return &n, nil
}

// ListTemplates returns recurring templates sorted by name.
func (s *Store) ListTemplates(_ context.Context, onlyActive bool) ([]models.RecurringTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var templates []models.RecurringTemplate
	for _, t := range s.templates {
		if onlyActive && !t.Active {
			continue
		}
		templates = append(templates, t)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

// CreateTemplate validates and stores a new recurring template.
func (s *Store) CreateTemplate(_ context.Context, nt ledger.NewTemplate) (models.RecurringTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateTemplate(nt.Name, nt.Type, nt.Amount, nt.DayOfMonth, nt.AccountID, nt.CategoryID); err != nil {
		return models.RecurringTemplate{}, err
	}

	t := models.RecurringTemplate{
		ID:         uuid.NewString(),
		OwnerID:    nt.OwnerID,
		Name:       nt.Name,
		Type:       nt.Type,
		Amount:     nt.Amount,
		DayOfMonth: nt.DayOfMonth,
		AccountID:  nt.AccountID,
		CategoryID: nt.CategoryID,
		FixedVar:   nt.FixedVar,
		Note:       nt.Note,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
	s.templates[t.ID] = t
	return t, nil
}

// UpdateTemplate replaces the mutable fields of a template.
func (s *Store) UpdateTemplate(_ context.Context, t models.RecurringTemplate) (models.RecurringTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[t.ID]; !ok {
		return models.RecurringTemplate{}, &finerrors.NotFoundError{Entity: "template", ID: t.ID}
	}
	if err := s.validateTemplate(t.Name, t.Type, t.Amount, t.DayOfMonth, t.AccountID, t.CategoryID); err != nil {
		return models.RecurringTemplate{}, err
	}
	s.templates[t.ID] = t
	return t, nil
}

// DeleteTemplate removes a template.
func (s *Store) DeleteTemplate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return &finerrors.NotFoundError{Entity: "template", ID: id}
	}
	delete(s.templates, id)
	return nil
}

// validateMovement mirrors the SQLite store's write-time checks. Callers
// hold the write lock.
func (s *Store) validateMovement(m models.Movement) error {
	if err := m.Validate(); err != nil {
		return &finerrors.ValidationError{Reason: "invalid movement", Err: err}
	}

	for _, accountID := range []string{m.AccountID, m.AccountFromID, m.AccountToID} {
		if accountID == "" {
			continue
		}
		if _, ok := s.accounts[accountID]; !ok {
			return &finerrors.ValidationError{Reason: "movement references unknown account " + accountID}
		}
	}

	if m.CategoryID != "" {
		category, ok := s.categories[m.CategoryID]
		if !ok {
			return &finerrors.ValidationError{Reason: "movement references unknown category " + m.CategoryID}
		}
		if string(category.Kind) != string(m.Type) {
			return &finerrors.ValidationError{
				Reason: "category kind " + string(category.Kind) + " does not match movement type " + string(m.Type),
			}
		}
	}

	return nil
}

func (s *Store) validateTemplate(name string, mtype models.MovementType, amount decimal.Decimal, dayOfMonth int, accountID, categoryID string) error {
	if name == "" {
		return &finerrors.ValidationError{Reason: "template name must not be empty"}
	}
	if mtype != models.TypeIncome && mtype != models.TypeExpense {
		return &finerrors.ValidationError{Reason: "template type must be income or expense"}
	}
	if !amount.IsPositive() {
		return &finerrors.ValidationError{Reason: "template amount must be positive"}
	}
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return &finerrors.ValidationError{Reason: "template day of month must be between 1 and 31"}
	}
	if accountID == "" {
		return &finerrors.ValidationError{Reason: "template requires an account"}
	}
	if _, ok := s.accounts[accountID]; !ok {
		return &finerrors.ValidationError{Reason: "template references unknown account " + accountID}
	}
	if categoryID != "" {
		category, ok := s.categories[categoryID]
		if !ok {
			return &finerrors.ValidationError{Reason: "template references unknown category " + categoryID}
		}
		if string(category.Kind) != string(mtype) {
			return &finerrors.ValidationError{
				Reason: "category kind " + string(category.Kind) + " does not match template type " + string(mtype),
			}
		}
	}
	return nil
}

func (s *Store) withNames(m models.Movement) models.MovementWithNames {
	mn := models.MovementWithNames{Movement: m}
	if a, ok := s.accounts[m.AccountID]; ok {
		mn.AccountName = a.Name
	}
	if a, ok := s.accounts[m.AccountFromID]; ok {
		mn.AccountFromName = a.Name
	}
	if a, ok := s.accounts[m.AccountToID]; ok {
		mn.AccountToName = a.Name
	}
	if c, ok := s.categories[m.CategoryID]; ok {
		mn.CategoryName = c.Name
	}
	return mn
}

func matchesFilter(m models.Movement, f ledger.MovementFilter) bool {
	if f.StartDate != nil && m.Date.Before(dateutils.Day(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && m.Date.After(dateutils.Day(*f.EndDate)) {
		return false
	}
	if f.Type != nil && m.Type != *f.Type {
		return false
	}
	if f.AccountID != "" &&
		m.AccountID != f.AccountID && m.AccountFromID != f.AccountID && m.AccountToID != f.AccountID {
		return false
	}
	if f.CategoryID != "" && m.CategoryID != f.CategoryID {
		return false
	}
	if f.FixedVar != nil && (m.FixedVar == nil || *m.FixedVar != *f.FixedVar) {
		return false
	}
	if f.ExcludeTransfers && m.Type == models.TypeTransfer {
		return false
	}
	return true
}
