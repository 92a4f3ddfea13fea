package services

import (
	"context"
	"testing"

	"OdontoSystem/apperrors"
	"OdontoSystem/models"
	"OdontoSystem/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewPatientService(repositories.NewPatientRepository(newTestStore(t)))

	_, err := svc.Create(ctx, models.PatientInput{Name: ptr("Ana")})
	requireCode(t, err, apperrors.CodeValidation)

	p, err := svc.Create(ctx, models.PatientInput{
		Name: ptr("Ana"), Phone: ptr("555-0101"), NationalID: ptr("123"),
		BirthDate: ptr(models.Date("1990-05-04")),
	})
	require.NoError(t, err)
	assert.True(t, p.Active)
	assert.NotEmpty(t, p.ID)

	_, err = svc.Create(ctx, models.PatientInput{Name: ptr("Bia"), Phone: ptr("1"), NationalID: ptr("123")})
	requireCode(t, err, apperrors.CodeConflict)

	_, err = svc.Update(ctx, p.ID, models.PatientInput{})
	requireCode(t, err, apperrors.CodeValidation)

	updated, err := svc.Update(ctx, p.ID, models.PatientInput{City: ptr("Recife"), NationalID: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Recife", updated.City)
	assert.Nil(t, updated.NationalID)
	assert.Equal(t, "555-0101", updated.Phone)

	require.NoError(t, svc.Deactivate(ctx, p.ID))
	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	active := true
	list, err := svc.GetAll(ctx, repositories.ActiveFilter{Active: &active})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.GetByID(ctx, "missing")
	requireCode(t, err, apperrors.CodeNotFound)
	requireCode(t, svc.Deactivate(ctx, "missing"), apperrors.CodeNotFound)
}

func TestDentistLicenseIsUnique(t *testing.T) {
	ctx := context.Background()
	svc := NewDentistService(repositories.NewDentistRepository(newTestStore(t)))

	d, err := svc.Create(ctx, models.DentistInput{Name: ptr("Dr. Lima"), LicenseNumber: ptr("CRO-1")})
	require.NoError(t, err)
	assert.True(t, d.Active)

	_, err = svc.Create(ctx, models.DentistInput{Name: ptr("Dr. Reis"), LicenseNumber: ptr("CRO-1")})
	requireCode(t, err, apperrors.CodeConflict)

	require.NoError(t, svc.Deactivate(ctx, d.ID))
	got, err := svc.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestProcedureDefaultsAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewProcedureService(repositories.NewProcedureRepository(newTestStore(t)))

	_, err := svc.Create(ctx, models.ProcedureInput{Name: ptr("Cleaning"), DefaultPrice: ptr(decimal.NewFromInt(-1))})
	requireCode(t, err, apperrors.CodeValidation)

	p, err := svc.Create(ctx, models.ProcedureInput{Name: ptr("Cleaning"), DefaultPrice: ptr(decimal.RequireFromString("150.50"))})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDurationMinutes, p.DurationMinutes)
	assert.True(t, p.Active)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.GetByID(ctx, p.ID)
	requireCode(t, err, apperrors.CodeNotFound)
	requireCode(t, svc.Delete(ctx, p.ID), apperrors.CodeNotFound)
}

func TestAppointmentSlotConflicts(t *testing.T) {
	ctx := context.Background()
	svc := NewAppointmentService(repositories.NewAppointmentRepository(newTestStore(t)))

	first, err := svc.Create(ctx, models.AppointmentInput{
		PatientID: ptr("p1"), DentistID: ptr("d1"), StartsAt: ptr(models.DateTime("2025-03-01T10:00:00Z")),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, first.Status)
	assert.Equal(t, models.DefaultDurationMinutes, first.DurationMinutes)

	_, err = svc.Create(ctx, models.AppointmentInput{
		PatientID: ptr("p2"), DentistID: ptr("d1"), StartsAt: ptr(models.DateTime("2025-03-01T10:00:00Z")),
	})
	requireCode(t, err, apperrors.CodeConflict)

	other, err := svc.Create(ctx, models.AppointmentInput{
		PatientID: ptr("p2"), DentistID: ptr("d1"), StartsAt: ptr(models.DateTime("2025-03-01T11:00:00Z")),
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, models.AppointmentInput{StartsAt: ptr(models.DateTime("2025-03-01T10:00:00Z"))})
	requireCode(t, err, apperrors.CodeConflict)

	// Rewriting an appointment's own slot is not a conflict.
	_, err = svc.Update(ctx, first.ID, models.AppointmentInput{StartsAt: ptr(models.DateTime("2025-03-01T10:00:00Z")), Notes: ptr("x")})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, first.ID))
	canceled, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, canceled.Status)

	moved, err := svc.Update(ctx, other.ID, models.AppointmentInput{StartsAt: ptr(models.DateTime("2025-03-01T10:00:00Z"))})
	require.NoError(t, err)
	assert.Equal(t, models.DateTime("2025-03-01T10:00:00Z"), moved.StartsAt)

	_, err = svc.Update(ctx, first.ID, models.AppointmentInput{Status: ptr(models.StatusConfirmed)})
	requireCode(t, err, apperrors.CodeConflict)

	_, err = svc.GetAll(ctx, repositories.AppointmentFilter{Status: "done"})
	requireCode(t, err, apperrors.CodeValidation)
}
