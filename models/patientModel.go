package models

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

const (
	StatusScheduled  = "scheduled"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCanceled   = "canceled"
	StatusNoShow     = "no_show"

	DefaultDurationMinutes = 60
)

var AppointmentStatuses = []any{
	StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCanceled, StatusNoShow,
}

var BloodTypes = []any{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// Patient model. Patients are deactivated, never deleted.
type Patient struct {
	ID                    string  `gorm:"primaryKey;column:id" json:"id"`
	Name                  string  `gorm:"column:name;not null;index" json:"name"`
	NationalID            *string `gorm:"column:national_id;uniqueIndex" json:"national_id"`
	BirthDate             *Date   `gorm:"column:birth_date;type:date" json:"birth_date"`
	Phone                 string  `gorm:"column:phone;not null" json:"phone"`
	Mobile                string  `gorm:"column:mobile" json:"mobile"`
	Email                 string  `gorm:"column:email" json:"email"`
	Address               string  `gorm:"column:address" json:"address"`
	City                  string  `gorm:"column:city" json:"city"`
	State                 string  `gorm:"column:state" json:"state"`
	ZipCode               string  `gorm:"column:zip_code" json:"zip_code"`
	Occupation            string  `gorm:"column:occupation" json:"occupation"`
	EmergencyContactName  string  `gorm:"column:emergency_contact_name" json:"emergency_contact_name"`
	EmergencyContactPhone string  `gorm:"column:emergency_contact_phone" json:"emergency_contact_phone"`
	BloodType             string  `gorm:"column:blood_type" json:"blood_type"`
	Notes                 string  `gorm:"column:notes;type:text" json:"notes"`
	Active                bool    `gorm:"column:active;type:boolean;not null" json:"active"`
}

func (Patient) TableName() string {
	return "patients"
}

// PatientInput is used for both creation and partial updates.
type PatientInput struct {
	Name                  *string `json:"name"`
	NationalID            *string `json:"national_id"`
	BirthDate             *Date   `json:"birth_date"`
	Phone                 *string `json:"phone"`
	Mobile                *string `json:"mobile"`
	Email                 *string `json:"email"`
	Address               *string `json:"address"`
	City                  *string `json:"city"`
	State                 *string `json:"state"`
	ZipCode               *string `json:"zip_code"`
	Occupation            *string `json:"occupation"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	BloodType             *string `json:"blood_type"`
	Notes                 *string `json:"notes"`
	Active                *bool   `json:"active"`
}

func (in PatientInput) ValidateCreate() error {
	return in.validate(true)
}

func (in PatientInput) ValidateUpdate() error {
	return in.validate(false)
}

func (in PatientInput) validate(creating bool) error {
	presence := presenceRule(creating)
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, presence, validation.Length(1, 150)),
		validation.Field(&in.Phone, presence, validation.Length(1, 30)),
		validation.Field(&in.Email, is.EmailFormat),
		validation.Field(&in.BloodType, validation.In(BloodTypes...).Error("invalid blood type")),
		validation.Field(&in.State, validation.Length(0, 2)),
	)
}

// ApplyTo copies the supplied fields onto p.
func (in PatientInput) ApplyTo(p *Patient) {
	setString(&p.Name, in.Name)
	if in.NationalID != nil && *in.NationalID != "" {
		id := *in.NationalID
		p.NationalID = &id
	}
	if in.BirthDate != nil && *in.BirthDate != "" {
		d := *in.BirthDate
		p.BirthDate = &d
	}
	setString(&p.Phone, in.Phone)
	setString(&p.Mobile, in.Mobile)
	setString(&p.Email, in.Email)
	setString(&p.Address, in.Address)
	setString(&p.City, in.City)
	setString(&p.State, in.State)
	setString(&p.ZipCode, in.ZipCode)
	setString(&p.Occupation, in.Occupation)
	setString(&p.EmergencyContactName, in.EmergencyContactName)
	setString(&p.EmergencyContactPhone, in.EmergencyContactPhone)
	setString(&p.BloodType, in.BloodType)
	setString(&p.Notes, in.Notes)
	if in.Active != nil {
		p.Active = *in.Active
	}
}

// Dentist model.
type Dentist struct {
	ID            string `gorm:"primaryKey;column:id" json:"id"`
	Name          string `gorm:"column:name;not null;index" json:"name"`
	LicenseNumber string `gorm:"column:license_number;not null;uniqueIndex" json:"license_number"`
	Specialty     string `gorm:"column:specialty" json:"specialty"`
	Phone         string `gorm:"column:phone" json:"phone"`
	Email         string `gorm:"column:email" json:"email"`
	Active        bool   `gorm:"column:active;type:boolean;not null" json:"active"`
}

func (Dentist) TableName() string {
	return "dentists"
}

type DentistInput struct {
	Name          *string `json:"name"`
	LicenseNumber *string `json:"license_number"`
	Specialty     *string `json:"specialty"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Active        *bool   `json:"active"`
}

func (in DentistInput) ValidateCreate() error {
	return in.validate(true)
}

func (in DentistInput) ValidateUpdate() error {
	return in.validate(false)
}

func (in DentistInput) validate(creating bool) error {
	presence := presenceRule(creating)
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, presence, validation.Length(1, 150)),
		validation.Field(&in.LicenseNumber, presence, validation.Length(1, 30)),
		validation.Field(&in.Email, is.EmailFormat),
	)
}

func (in DentistInput) ApplyTo(d *Dentist) {
	setString(&d.Name, in.Name)
	setString(&d.LicenseNumber, in.LicenseNumber)
	setString(&d.Specialty, in.Specialty)
	setString(&d.Phone, in.Phone)
	setString(&d.Email, in.Email)
	if in.Active != nil {
		d.Active = *in.Active
	}
}

// Procedure is a catalog entry with a default price. Procedures may be hard-deleted.
type Procedure struct {
	ID              string          `gorm:"primaryKey;column:id" json:"id"`
	Name            string          `gorm:"column:name;not null;index" json:"name"`
	Description     string          `gorm:"column:description;type:text" json:"description"`
	DefaultPrice    decimal.Decimal `gorm:"column:default_price;type:numeric(10,2);not null" json:"default_price"`
	DurationMinutes int             `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	Active          bool            `gorm:"column:active;type:boolean;not null" json:"active"`
}

func (Procedure) TableName() string {
	return "procedures"
}

type ProcedureInput struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	DefaultPrice    *decimal.Decimal `json:"default_price"`
	DurationMinutes *int             `json:"duration_minutes"`
	Active          *bool            `json:"active"`
}

func (in ProcedureInput) ValidateCreate() error {
	return in.validate(true)
}

func (in ProcedureInput) ValidateUpdate() error {
	return in.validate(false)
}

func (in ProcedureInput) validate(creating bool) error {
	presence := presenceRule(creating)
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, presence, validation.Length(1, 150)),
		validation.Field(&in.DefaultPrice, presence, validation.By(NonNegative)),
		validation.Field(&in.DurationMinutes, validation.Min(1)),
	)
}

func (in ProcedureInput) ApplyTo(p *Procedure) {
	setString(&p.Name, in.Name)
	setString(&p.Description, in.Description)
	if in.DefaultPrice != nil {
		p.DefaultPrice = *in.DefaultPrice
	}
	if in.DurationMinutes != nil {
		p.DurationMinutes = *in.DurationMinutes
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
}

// Appointment model. (dentist_id, starts_at) is unique among non-canceled rows.
type Appointment struct {
	ID              string   `gorm:"primaryKey;column:id" json:"id"`
	PatientID       string   `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DentistID       string   `gorm:"column:dentist_id;not null;uniqueIndex:idx_appointments_dentist_start,where:status <> 'canceled'" json:"dentist_id"`
	StartsAt        DateTime `gorm:"column:starts_at;type:timestamptz;not null;uniqueIndex:idx_appointments_dentist_start,where:status <> 'canceled'" json:"starts_at"`
	DurationMinutes int      `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	Status          string   `gorm:"column:status;not null;index" json:"status"`
	Notes           string   `gorm:"column:notes;type:text" json:"notes"`
}

func (Appointment) TableName() string {
	return "appointments"
}

type AppointmentInput struct {
	PatientID       *string   `json:"patient_id"`
	DentistID       *string   `json:"dentist_id"`
	StartsAt        *DateTime `json:"starts_at"`
	DurationMinutes *int      `json:"duration_minutes"`
	Status          *string   `json:"status"`
	Notes           *string   `json:"notes"`
}

func (in AppointmentInput) ValidateCreate() error {
	return in.validate(true)
}

func (in AppointmentInput) ValidateUpdate() error {
	return in.validate(false)
}

func (in AppointmentInput) validate(creating bool) error {
	presence := presenceRule(creating)
	return validation.ValidateStruct(&in,
		validation.Field(&in.PatientID, presence),
		validation.Field(&in.DentistID, presence),
		validation.Field(&in.StartsAt, presence),
		validation.Field(&in.DurationMinutes, validation.Min(1)),
		validation.Field(&in.Status, validation.NilOrNotEmpty, validation.In(AppointmentStatuses...).Error("invalid status")),
	)
}

func (in AppointmentInput) ApplyTo(a *Appointment) {
	setString(&a.PatientID, in.PatientID)
	setString(&a.DentistID, in.DentistID)
	if in.StartsAt != nil {
		a.StartsAt = *in.StartsAt
	}
	if in.DurationMinutes != nil {
		a.DurationMinutes = *in.DurationMinutes
	}
	setString(&a.Status, in.Status)
	setString(&a.Notes, in.Notes)
}

// NonNegative is an ozzo rule for monetary amounts.
func NonNegative(value any) error {
	var amount decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		amount = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		amount = *v
	default:
		return errors.New("must be a number")
	}
	if amount.IsNegative() {
		return errors.New("must be no less than 0")
	}
	return nil
}

func presenceRule(creating bool) validation.Rule {
	if creating {
		return validation.Required
	}
	return validation.NilOrNotEmpty
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
