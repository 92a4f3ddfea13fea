package services

import (
	"context"

	"OdontoSystem/models"
	"OdontoSystem/repositories"

	"github.com/google/uuid"
)

type DentistService struct {
	repository *repositories.DentistRepository
}

func NewDentistService(repository *repositories.DentistRepository) *DentistService {
	return &DentistService{repository: repository}
}

func (s *DentistService) GetAll(ctx context.Context, filter repositories.ActiveFilter) ([]models.Dentist, error) {
	dentists, err := s.repository.GetAll(ctx, filter)
	return dentists, storeError(err, "dentist")
}

func (s *DentistService) GetByID(ctx context.Context, id string) (*models.Dentist, error) {
	dentist, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "dentist")
	}
	return dentist, nil
}

func (s *DentistService) Create(ctx context.Context, input models.DentistInput) (*models.Dentist, error) {
	if err := input.ValidateCreate(); err != nil {
		return nil, invalid(err)
	}
	dentist := &models.Dentist{ID: uuid.NewString(), Active: true}
	input.ApplyTo(dentist)
	if err := s.repository.Create(ctx, dentist); err != nil {
		return nil, storeError(err, "dentist")
	}
	return dentist, nil
}

func (s *DentistService) Update(ctx context.Context, id string, input models.DentistInput) (*models.Dentist, error) {
	if err := input.ValidateUpdate(); err != nil {
		return nil, invalid(err)
	}
	patch := models.Patch(input)
	if len(patch) == 0 {
		return nil, errEmptyUpdate
	}
	dentist, err := s.repository.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "dentist")
	}
	return dentist, nil
}

func (s *DentistService) Deactivate(ctx context.Context, id string) error {
	_, err := s.repository.Update(ctx, id, map[string]any{"active": false})
	return storeError(err, "dentist")
}
