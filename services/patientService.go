package services

import (
	"context"

	"OdontoSystem/models"
	"OdontoSystem/repositories"

	"github.com/google/uuid"
)

type PatientService struct {
	repository *repositories.PatientRepository
}

func NewPatientService(repository *repositories.PatientRepository) *PatientService {
	return &PatientService{repository: repository}
}

func (s *PatientService) GetAll(ctx context.Context, filter repositories.ActiveFilter) ([]models.Patient, error) {
	patients, err := s.repository.GetAll(ctx, filter)
	return patients, storeError(err, "patient")
}

func (s *PatientService) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "patient")
	}
	return patient, nil
}

func (s *PatientService) Create(ctx context.Context, input models.PatientInput) (*models.Patient, error) {
	if err := input.ValidateCreate(); err != nil {
		return nil, invalid(err)
	}
	patient := &models.Patient{ID: uuid.NewString(), Active: true}
	input.ApplyTo(patient)
	if err := s.repository.Create(ctx, patient); err != nil {
		return nil, storeError(err, "patient")
	}
	return patient, nil
}

func (s *PatientService) Update(ctx context.Context, id string, input models.PatientInput) (*models.Patient, error) {
	if err := input.ValidateUpdate(); err != nil {
		return nil, invalid(err)
	}
	patch := models.Patch(input)
	if len(patch) == 0 {
		return nil, errEmptyUpdate
	}
	dropEmpty(patch, "national_id", "birth_date")
	patient, err := s.repository.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "patient")
	}
	return patient, nil
}

// Deactivate hides a patient from active listings. The record stays retrievable.
func (s *PatientService) Deactivate(ctx context.Context, id string) error {
	_, err := s.repository.Update(ctx, id, map[string]any{"active": false})
	return storeError(err, "patient")
}
