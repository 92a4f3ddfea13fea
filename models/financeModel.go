package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

const (
	LedgerClinic   = "clinic"
	LedgerPersonal = "personal"

	EntryIncome  = "income"
	EntryExpense = "expense"
)

var EntryTypes = []any{EntryIncome, EntryExpense}

// Categories holds the fixed category lists of one ledger, keyed by entry type.
type Categories map[string][]string

func (c Categories) Contains(entryType, category string) bool {
	for _, candidate := range c[entryType] {
		if candidate == category {
			return true
		}
	}
	return false
}

var ClinicCategories = Categories{
	EntryIncome: {"Dental Procedure", "Consultation", "Insurance Plan", "Private", "Other"},
	EntryExpense: {
		"Rent", "Dental Supplies", "Equipment", "Staff", "Utilities",
		"Marketing", "Accounting", "Maintenance", "Other",
	},
}

var PersonalCategories = Categories{
	EntryIncome: {"Salary", "Owner Draw", "Dividends", "Freelance", "Investments", "Other"},
	EntryExpense: {
		"Housing", "Food", "Transportation", "Health", "Education",
		"Leisure", "Clothing", "Loans", "Insurance", "Other",
	},
}

// LedgerEntry is one income or expense line. The clinic and personal ledgers
// share the shape; only the clinic ledger links entries to appointments.
type LedgerEntry struct {
	ID            string          `gorm:"primaryKey;column:id" json:"id"`
	Type          string          `gorm:"column:type;not null" json:"type"`
	Description   string          `gorm:"column:description;not null" json:"description"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null" json:"amount"`
	EntryDate     Date            `gorm:"column:entry_date;type:date;not null" json:"entry_date"`
	Category      string          `gorm:"column:category;not null" json:"category"`
	AppointmentID *string         `gorm:"column:appointment_id" json:"appointment_id,omitempty"`
	Notes         string          `gorm:"column:notes;type:text" json:"notes"`
}

type LedgerEntryInput struct {
	Type          *string          `json:"type"`
	Description   *string          `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
	EntryDate     *Date            `json:"entry_date"`
	Category      *string          `json:"category"`
	AppointmentID *string          `json:"appointment_id"`
	Notes         *string          `json:"notes"`
}

func (in LedgerEntryInput) ValidateCreate() error {
	return in.validate(true)
}

func (in LedgerEntryInput) ValidateUpdate() error {
	return in.validate(false)
}

func (in LedgerEntryInput) validate(creating bool) error {
	presence := presenceRule(creating)
	return validation.ValidateStruct(&in,
		validation.Field(&in.Type, presence, validation.In(EntryTypes...).Error("type must be income or expense")),
		validation.Field(&in.Description, presence, validation.Length(1, 255)),
		validation.Field(&in.Amount, presence, validation.By(NonNegative)),
		validation.Field(&in.EntryDate, presence),
		validation.Field(&in.Category, presence),
	)
}

func (in LedgerEntryInput) ApplyTo(e *LedgerEntry) {
	setString(&e.Type, in.Type)
	setString(&e.Description, in.Description)
	if in.Amount != nil {
		e.Amount = *in.Amount
	}
	if in.EntryDate != nil {
		e.EntryDate = *in.EntryDate
	}
	setString(&e.Category, in.Category)
	if in.AppointmentID != nil && *in.AppointmentID != "" {
		id := *in.AppointmentID
		e.AppointmentID = &id
	}
	setString(&e.Notes, in.Notes)
}

// BudgetGoal is a monthly spending target for one personal expense category.
type BudgetGoal struct {
	ID           string          `gorm:"primaryKey;column:id" json:"id"`
	Category     string          `gorm:"column:category;not null;uniqueIndex:idx_personal_goals_period" json:"category"`
	TargetAmount decimal.Decimal `gorm:"column:target_amount;type:numeric(10,2);not null" json:"target_amount"`
	Month        int             `gorm:"column:month;not null;uniqueIndex:idx_personal_goals_period" json:"month"`
	Year         int             `gorm:"column:year;not null;uniqueIndex:idx_personal_goals_period" json:"year"`
}

func (BudgetGoal) TableName() string {
	return "personal_goals"
}

type BudgetGoalInput struct {
	Category     string           `json:"category"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
	Month        int              `json:"month"`
	Year         int              `json:"year"`
}

func (in BudgetGoalInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Category, validation.Required),
		validation.Field(&in.TargetAmount, validation.Required, validation.By(NonNegative)),
		validation.Field(&in.Month, validation.Required, validation.Min(1), validation.Max(12)),
		validation.Field(&in.Year, validation.Required, validation.Min(1900), validation.Max(9999)),
	)
}

// GoalProgress compares a goal with the month's spending in its category.
type GoalProgress struct {
	Category  string          `json:"category"`
	Goal      decimal.Decimal `json:"goal"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   float64         `json:"percent"`
}

// Summary is the monthly aggregate of a ledger.
type Summary struct {
	Month   int             `json:"month"`
	Year    int             `json:"year"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// PersonalSummary adds expense totals per category and goal progress.
type PersonalSummary struct {
	Summary
	PerCategory map[string]decimal.Decimal `json:"per_category"`
	Goals       []GoalProgress             `json:"goals"`
}
