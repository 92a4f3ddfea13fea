package repositories

import (
	"context"
	"time"

	"OdontoSystem/database"
	"OdontoSystem/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// EntryFilter narrows ledger listings. A zero From/To leaves that bound open.
type EntryFilter struct {
	Type string
	From time.Time
	To   time.Time
}

// LedgerRepository stores the entries of one ledger table.
type LedgerRepository struct {
	rows tableRepository[models.LedgerEntry]
}

func NewLedgerRepository(store database.Store, table string) *LedgerRepository {
	return &LedgerRepository{rows: newTableRepository[models.LedgerEntry](store, table)}
}

// GetAll returns matching entries, newest first.
func (r *LedgerRepository) GetAll(ctx context.Context, filter EntryFilter) ([]models.LedgerEntry, error) {
	q := database.NewQuery()
	if filter.Type != "" {
		q.Eq("type", filter.Type)
	}
	if !filter.From.IsZero() {
		q.Gte("entry_date", models.NewDate(filter.From))
	}
	if !filter.To.IsZero() {
		q.Lt("entry_date", models.NewDate(filter.To))
	}
	return r.rows.list(ctx, q.OrderBy("entry_date", true))
}

func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*models.LedgerEntry, error) {
	return r.rows.get(ctx, id)
}

func (r *LedgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	return r.rows.insert(ctx, entry)
}

func (r *LedgerRepository) Update(ctx context.Context, id string, patch map[string]any) (*models.LedgerEntry, error) {
	return r.rows.update(ctx, id, patch)
}

func (r *LedgerRepository) Delete(ctx context.Context, id string) error {
	return r.rows.delete(ctx, id)
}

// GoalRepository stores monthly budget goals, one per (category, month, year).
type GoalRepository struct {
	store database.Store
	rows  tableRepository[models.BudgetGoal]
}

func NewGoalRepository(store database.Store) *GoalRepository {
	return &GoalRepository{store: store, rows: newTableRepository[models.BudgetGoal](store, database.TablePersonalGoals)}
}

// GetAll returns goals ordered by category. Zero month or year leaves that column unfiltered.
func (r *GoalRepository) GetAll(ctx context.Context, month, year int) ([]models.BudgetGoal, error) {
	q := database.NewQuery()
	if month != 0 {
		q.Eq("month", month)
	}
	if year != 0 {
		q.Eq("year", year)
	}
	return r.rows.list(ctx, q.OrderBy("year", true).OrderBy("month", true).OrderBy("category", false))
}

// Upsert creates the goal for its period or overwrites the target of the
// existing one. The stored row keeps its original id.
func (r *GoalRepository) Upsert(ctx context.Context, goal *models.BudgetGoal) error {
	existing, err := r.rows.first(ctx, database.NewQuery().
		Eq("category", goal.Category).
		Eq("month", goal.Month).
		Eq("year", goal.Year))
	switch {
	case err == nil:
		goal.ID = existing.ID
	case isNotFound(err):
		if goal.ID == "" {
			goal.ID = uuid.NewString()
		}
	default:
		return err
	}
	if err := r.store.Upsert(ctx, database.TablePersonalGoals, goal, "category", "month", "year"); err != nil {
		return errors.Wrap(err, "failed to save goal")
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
