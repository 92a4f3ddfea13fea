package repositories

import (
	"context"
	"time"

	"OdontoSystem/database"
	"OdontoSystem/models"
	"OdontoSystem/utils"
)

// AppointmentFilter narrows appointment listings. Day selects the half-open
// window [Day, Day+24h).
type AppointmentFilter struct {
	DentistID string
	PatientID string
	Status    string
	Day       *time.Time
}

type AppointmentRepository struct {
	rows tableRepository[models.Appointment]
}

func NewAppointmentRepository(store database.Store) *AppointmentRepository {
	return &AppointmentRepository{rows: newTableRepository[models.Appointment](store, database.TableAppointments)}
}

func (r *AppointmentRepository) GetAll(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	q := database.NewQuery()
	if filter.DentistID != "" {
		q.Eq("dentist_id", filter.DentistID)
	}
	if filter.PatientID != "" {
		q.Eq("patient_id", filter.PatientID)
	}
	if filter.Status != "" {
		q.Eq("status", filter.Status)
	}
	if filter.Day != nil {
		start, end := utils.DayWindow(*filter.Day)
		q.Gte("starts_at", models.NewDateTime(start)).Lt("starts_at", models.NewDateTime(end))
	}
	return r.rows.list(ctx, q.OrderBy("starts_at", true))
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return r.rows.get(ctx, id)
}

// FindActiveSlot returns the non-canceled appointments of a dentist starting
// exactly at startsAt.
func (r *AppointmentRepository) FindActiveSlot(ctx context.Context, dentistID string, startsAt models.DateTime) ([]models.Appointment, error) {
	q := database.NewQuery().
		Eq("dentist_id", dentistID).
		Eq("starts_at", startsAt).
		Neq("status", models.StatusCanceled)
	return r.rows.list(ctx, q)
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.rows.insert(ctx, appointment)
}

func (r *AppointmentRepository) Update(ctx context.Context, id string, patch map[string]any) (*models.Appointment, error) {
	return r.rows.update(ctx, id, patch)
}
