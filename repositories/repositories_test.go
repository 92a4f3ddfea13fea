package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"OdontoSystem/database"
	"OdontoSystem/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return database.NewGormStore(db, time.Second)
}

func TestUserRepositoryLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(t))

	for _, name := range []string{"Bruno", "Ana"} {
		u := &models.User{ID: uuid.NewString(), Name: name, Email: name + "@clinic.com", PasswordHash: "x", Role: models.RoleDentist, Active: true}
		u.Email = models.NormalizeEmail(u.Email)
		require.NoError(t, repo.Create(ctx, u))
	}

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ana", users[0].Name)

	u, err := repo.GetByEmail(ctx, "  BRUNO@clinic.com ")
	require.NoError(t, err)
	assert.Equal(t, "Bruno", u.Name)

	_, err = repo.GetByEmail(ctx, "nobody@clinic.com")
	assert.ErrorIs(t, err, database.ErrNotFound)

	require.NoError(t, repo.TouchLastAccess(ctx, u.ID, models.DateTime("2025-03-01T10:00:00Z")))
	u, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, u.LastAccessAt)
	assert.Equal(t, models.DateTime("2025-03-01T10:00:00Z"), *u.LastAccessAt)
}

func TestActiveFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(newTestStore(t))

	require.NoError(t, repo.Create(ctx, &models.Patient{ID: uuid.NewString(), Name: "Ana", Phone: "1", Active: true}))
	require.NoError(t, repo.Create(ctx, &models.Patient{ID: uuid.NewString(), Name: "Bia", Phone: "2", Active: false}))

	all, err := repo.GetAll(ctx, ActiveFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active := true
	only, err := repo.GetAll(ctx, ActiveFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "Ana", only[0].Name)
}

func TestAppointmentRepositoryFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository(newTestStore(t))

	mk := func(dentist, start, status string) {
		a := &models.Appointment{
			ID: uuid.NewString(), PatientID: "p1", DentistID: dentist,
			StartsAt: models.DateTime(start), DurationMinutes: 60, Status: status,
		}
		require.NoError(t, repo.Create(ctx, a))
	}
	mk("d1", "2025-03-01T09:00:00Z", models.StatusScheduled)
	mk("d1", "2025-03-01T14:00:00Z", models.StatusCanceled)
	mk("d2", "2025-03-02T09:00:00Z", models.StatusConfirmed)

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows, err := repo.GetAll(ctx, AppointmentFilter{Day: &day})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.DateTime("2025-03-01T14:00:00Z"), rows[0].StartsAt)

	rows, err = repo.GetAll(ctx, AppointmentFilter{DentistID: "d2"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	slot, err := repo.FindActiveSlot(ctx, "d1", "2025-03-01T14:00:00Z")
	require.NoError(t, err)
	assert.Empty(t, slot)

	slot, err = repo.FindActiveSlot(ctx, "d1", "2025-03-01T09:00:00Z")
	require.NoError(t, err)
	assert.Len(t, slot, 1)
}

func TestGoalRepositoryUpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	repo := NewGoalRepository(newTestStore(t))

	first := &models.BudgetGoal{Category: "Food", TargetAmount: decimal.NewFromInt(200), Month: 3, Year: 2025}
	require.NoError(t, repo.Upsert(ctx, first))
	require.NotEmpty(t, first.ID)

	second := &models.BudgetGoal{Category: "Food", TargetAmount: decimal.NewFromInt(250), Month: 3, Year: 2025}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	other := &models.BudgetGoal{Category: "Food", TargetAmount: decimal.NewFromInt(100), Month: 4, Year: 2025}
	require.NoError(t, repo.Upsert(ctx, other))

	goals, err := repo.GetAll(ctx, 3, 2025)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].TargetAmount.Equal(decimal.NewFromInt(250)))

	goals, err = repo.GetAll(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, goals, 2)
}

func TestLedgerRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository(newTestStore(t), database.TablePersonalEntries)

	e := &models.LedgerEntry{
		ID: uuid.NewString(), Type: models.EntryExpense, Description: "Groceries",
		Amount: decimal.NewFromInt(80), EntryDate: "2025-03-10", Category: "Food",
	}
	require.NoError(t, repo.Create(ctx, e))
	require.NoError(t, repo.Delete(ctx, e.ID))
	_, err := repo.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
