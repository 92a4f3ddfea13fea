package services

import (
	"context"

	"OdontoSystem/apperrors"
	"OdontoSystem/models"
	"OdontoSystem/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var errSlotTaken = apperrors.Conflict("dentist already has an appointment at this time")

type AppointmentService struct {
	repository *repositories.AppointmentRepository
}

func NewAppointmentService(repository *repositories.AppointmentRepository) *AppointmentService {
	return &AppointmentService{repository: repository}
}

func (s *AppointmentService) GetAll(ctx context.Context, filter repositories.AppointmentFilter) ([]models.Appointment, error) {
	if err := validation.Validate(filter.Status, validation.In(models.AppointmentStatuses...).Error("invalid status")); err != nil {
		return nil, invalid(err)
	}
	appointments, err := s.repository.GetAll(ctx, filter)
	return appointments, storeError(err, "appointment")
}

func (s *AppointmentService) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	appointment, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "appointment")
	}
	return appointment, nil
}

func (s *AppointmentService) Create(ctx context.Context, input models.AppointmentInput) (*models.Appointment, error) {
	if err := input.ValidateCreate(); err != nil {
		return nil, invalid(err)
	}
	appointment := &models.Appointment{
		ID:              uuid.NewString(),
		DurationMinutes: models.DefaultDurationMinutes,
		Status:          models.StatusScheduled,
	}
	input.ApplyTo(appointment)

	if appointment.Status != models.StatusCanceled {
		if err := s.checkSlot(ctx, appointment.DentistID, appointment.StartsAt, ""); err != nil {
			return nil, err
		}
	}
	if err := s.repository.Create(ctx, appointment); err != nil {
		return nil, s.writeError(err)
	}
	return appointment, nil
}

func (s *AppointmentService) Update(ctx context.Context, id string, input models.AppointmentInput) (*models.Appointment, error) {
	if err := input.ValidateUpdate(); err != nil {
		return nil, invalid(err)
	}
	patch := models.Patch(input)
	if len(patch) == 0 {
		return nil, errEmptyUpdate
	}

	if input.DentistID != nil || input.StartsAt != nil || input.Status != nil {
		current, err := s.repository.GetByID(ctx, id)
		if err != nil {
			return nil, storeError(err, "appointment")
		}
		next := *current
		input.ApplyTo(&next)
		occupiesNewSlot := next.DentistID != current.DentistID ||
			next.StartsAt != current.StartsAt ||
			current.Status == models.StatusCanceled
		if next.Status != models.StatusCanceled && occupiesNewSlot {
			if err := s.checkSlot(ctx, next.DentistID, next.StartsAt, id); err != nil {
				return nil, err
			}
		}
	}

	appointment, err := s.repository.Update(ctx, id, patch)
	if err != nil {
		return nil, s.writeError(err)
	}
	return appointment, nil
}

// Cancel moves an appointment to the canceled status, freeing its slot.
func (s *AppointmentService) Cancel(ctx context.Context, id string) error {
	_, err := s.repository.Update(ctx, id, map[string]any{"status": models.StatusCanceled})
	return storeError(err, "appointment")
}

// checkSlot rejects a start already held by another non-canceled appointment
// of the same dentist.
func (s *AppointmentService) checkSlot(ctx context.Context, dentistID string, startsAt models.DateTime, exceptID string) error {
	taken, err := s.repository.FindActiveSlot(ctx, dentistID, startsAt)
	if err != nil {
		return storeError(err, "appointment")
	}
	for _, other := range taken {
		if other.ID != exceptID {
			return errSlotTaken
		}
	}
	return nil
}

func (s *AppointmentService) writeError(err error) error {
	mapped := storeError(err, "appointment")
	if apperrors.Is(mapped, apperrors.CodeConflict) {
		return errSlotTaken
	}
	return mapped
}
