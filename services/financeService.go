package services

import (
	"context"
	"fmt"
	"time"

	"OdontoSystem/apperrors"
	"OdontoSystem/models"
	"OdontoSystem/repositories"
	"OdontoSystem/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryQuery selects ledger entries. Month without Year means the current
// year; Year without Month is ignored.
type EntryQuery struct {
	Type  string
	Month int
	Year  int
}

// LedgerService runs one ledger. Only the personal ledger has budget goals.
type LedgerService struct {
	kind       string
	categories models.Categories
	entries    *repositories.LedgerRepository
	goals      *repositories.GoalRepository
	now        func() time.Time
}

func NewClinicLedgerService(entries *repositories.LedgerRepository) *LedgerService {
	return &LedgerService{
		kind:       models.LedgerClinic,
		categories: models.ClinicCategories,
		entries:    entries,
		now:        time.Now,
	}
}

func NewPersonalLedgerService(entries *repositories.LedgerRepository, goals *repositories.GoalRepository) *LedgerService {
	return &LedgerService{
		kind:       models.LedgerPersonal,
		categories: models.PersonalCategories,
		entries:    entries,
		goals:      goals,
		now:        time.Now,
	}
}

func (s *LedgerService) Kind() string {
	return s.kind
}

func (s *LedgerService) Categories() models.Categories {
	return s.categories
}

func (s *LedgerService) ListEntries(ctx context.Context, q EntryQuery) ([]models.LedgerEntry, error) {
	if err := validation.Validate(q.Type, validation.In(models.EntryTypes...).Error("type must be income or expense")); err != nil {
		return nil, invalid(err)
	}
	filter := repositories.EntryFilter{Type: q.Type}
	if q.Month != 0 {
		year := q.Year
		if year == 0 {
			year = s.now().Year()
		}
		if err := validatePeriod(q.Month, year); err != nil {
			return nil, err
		}
		filter.From, filter.To = utils.MonthWindow(q.Month, year)
	}
	entries, err := s.entries.GetAll(ctx, filter)
	return entries, storeError(err, "entry")
}

func (s *LedgerService) GetEntry(ctx context.Context, id string) (*models.LedgerEntry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "entry")
	}
	return entry, nil
}

func (s *LedgerService) CreateEntry(ctx context.Context, input models.LedgerEntryInput) (*models.LedgerEntry, error) {
	if err := input.ValidateCreate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkAppointmentLink(input); err != nil {
		return nil, err
	}
	if err := s.checkCategory(*input.Type, *input.Category); err != nil {
		return nil, err
	}
	entry := &models.LedgerEntry{ID: uuid.NewString()}
	input.ApplyTo(entry)
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, storeError(err, "entry")
	}
	return entry, nil
}

func (s *LedgerService) UpdateEntry(ctx context.Context, id string, input models.LedgerEntryInput) (*models.LedgerEntry, error) {
	if err := input.ValidateUpdate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkAppointmentLink(input); err != nil {
		return nil, err
	}
	patch := models.Patch(input)
	if len(patch) == 0 {
		return nil, errEmptyUpdate
	}
	if input.Type != nil || input.Category != nil {
		current, err := s.entries.GetByID(ctx, id)
		if err != nil {
			return nil, storeError(err, "entry")
		}
		next := *current
		input.ApplyTo(&next)
		if err := s.checkCategory(next.Type, next.Category); err != nil {
			return nil, err
		}
	}
	dropEmpty(patch, "appointment_id")
	entry, err := s.entries.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "entry")
	}
	return entry, nil
}

func (s *LedgerService) DeleteEntry(ctx context.Context, id string) error {
	return storeError(s.entries.Delete(ctx, id), "entry")
}

// Summary totals the entries of one month. Zero month or year means the current one.
func (s *LedgerService) Summary(ctx context.Context, month, year int) (*models.Summary, error) {
	summary, _, err := s.summarize(ctx, month, year)
	return summary, err
}

// PersonalSummary adds expense totals per category and progress against the
// month's budget goals.
func (s *LedgerService) PersonalSummary(ctx context.Context, month, year int) (*models.PersonalSummary, error) {
	if s.goals == nil {
		return nil, apperrors.NotFound("budget goals are only kept for the personal ledger")
	}
	summary, entries, err := s.summarize(ctx, month, year)
	if err != nil {
		return nil, err
	}

	perCategory := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.Type == models.EntryExpense {
			perCategory[e.Category] = perCategory[e.Category].Add(e.Amount)
		}
	}

	goals, err := s.goals.GetAll(ctx, summary.Month, summary.Year)
	if err != nil {
		return nil, storeError(err, "goal")
	}
	progress := make([]models.GoalProgress, 0, len(goals))
	for _, g := range goals {
		spent := perCategory[g.Category]
		progress = append(progress, models.GoalProgress{
			Category:  g.Category,
			Goal:      g.TargetAmount,
			Spent:     spent,
			Remaining: g.TargetAmount.Sub(spent),
			Percent:   utils.Percent(spent, g.TargetAmount),
		})
	}

	return &models.PersonalSummary{Summary: *summary, PerCategory: perCategory, Goals: progress}, nil
}

func (s *LedgerService) summarize(ctx context.Context, month, year int) (*models.Summary, []models.LedgerEntry, error) {
	month, year = s.period(month, year)
	if err := validatePeriod(month, year); err != nil {
		return nil, nil, err
	}
	from, to := utils.MonthWindow(month, year)
	entries, err := s.entries.GetAll(ctx, repositories.EntryFilter{From: from, To: to})
	if err != nil {
		return nil, nil, storeError(err, "entry")
	}

	summary := &models.Summary{Month: month, Year: year, Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range entries {
		switch e.Type {
		case models.EntryIncome:
			summary.Income = summary.Income.Add(e.Amount)
		case models.EntryExpense:
			summary.Expense = summary.Expense.Add(e.Amount)
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expense)
	return summary, entries, nil
}

// ListGoals returns budget goals. Month without year means the current year.
func (s *LedgerService) ListGoals(ctx context.Context, month, year int) ([]models.BudgetGoal, error) {
	if s.goals == nil {
		return nil, apperrors.NotFound("budget goals are only kept for the personal ledger")
	}
	if month != 0 {
		if year == 0 {
			year = s.now().Year()
		}
		if err := validatePeriod(month, year); err != nil {
			return nil, err
		}
	}
	goals, err := s.goals.GetAll(ctx, month, year)
	return goals, storeError(err, "goal")
}

// UpsertGoal sets the spending target of an expense category for one month.
func (s *LedgerService) UpsertGoal(ctx context.Context, input models.BudgetGoalInput) (*models.BudgetGoal, error) {
	if s.goals == nil {
		return nil, apperrors.NotFound("budget goals are only kept for the personal ledger")
	}
	if err := input.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkCategory(models.EntryExpense, input.Category); err != nil {
		return nil, err
	}
	goal := &models.BudgetGoal{
		Category:     input.Category,
		TargetAmount: *input.TargetAmount,
		Month:        input.Month,
		Year:         input.Year,
	}
	if err := s.goals.Upsert(ctx, goal); err != nil {
		return nil, storeError(err, "goal")
	}
	return goal, nil
}

func (s *LedgerService) period(month, year int) (int, int) {
	now := s.now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}

func (s *LedgerService) checkCategory(entryType, category string) error {
	if !s.categories.Contains(entryType, category) {
		return apperrors.Validation(fmt.Sprintf("invalid category %q for %s %s", category, s.kind, entryType))
	}
	return nil
}

func (s *LedgerService) checkAppointmentLink(input models.LedgerEntryInput) error {
	if s.kind != models.LedgerClinic && input.AppointmentID != nil && *input.AppointmentID != "" {
		return apperrors.Validation("appointment_id is only accepted by the clinic ledger")
	}
	return nil
}

func validatePeriod(month, year int) error {
	return invalid(validation.Errors{
		"month": validation.Validate(month, validation.Min(1), validation.Max(12)),
		"year":  validation.Validate(year, validation.Min(1900), validation.Max(9999)),
	}.Filter())
}
