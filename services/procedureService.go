package services

import (
	"context"

	"OdontoSystem/models"
	"OdontoSystem/repositories"

	"github.com/google/uuid"
)

type ProcedureService struct {
	repository *repositories.ProcedureRepository
}

func NewProcedureService(repository *repositories.ProcedureRepository) *ProcedureService {
	return &ProcedureService{repository: repository}
}

func (s *ProcedureService) GetAll(ctx context.Context, filter repositories.ActiveFilter) ([]models.Procedure, error) {
	procedures, err := s.repository.GetAll(ctx, filter)
	return procedures, storeError(err, "procedure")
}

func (s *ProcedureService) GetByID(ctx context.Context, id string) (*models.Procedure, error) {
	procedure, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "procedure")
	}
	return procedure, nil
}

func (s *ProcedureService) Create(ctx context.Context, input models.ProcedureInput) (*models.Procedure, error) {
	if err := input.ValidateCreate(); err != nil {
		return nil, invalid(err)
	}
	procedure := &models.Procedure{
		ID:              uuid.NewString(),
		DurationMinutes: models.DefaultDurationMinutes,
		Active:          true,
	}
	input.ApplyTo(procedure)
	if err := s.repository.Create(ctx, procedure); err != nil {
		return nil, storeError(err, "procedure")
	}
	return procedure, nil
}

func (s *ProcedureService) Update(ctx context.Context, id string, input models.ProcedureInput) (*models.Procedure, error) {
	if err := input.ValidateUpdate(); err != nil {
		return nil, invalid(err)
	}
	patch := models.Patch(input)
	if len(patch) == 0 {
		return nil, errEmptyUpdate
	}
	procedure, err := s.repository.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "procedure")
	}
	return procedure, nil
}

// Delete removes a procedure permanently.
func (s *ProcedureService) Delete(ctx context.Context, id string) error {
	return storeError(s.repository.Delete(ctx, id), "procedure")
}
