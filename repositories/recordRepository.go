package repositories

import (
	"context"

	"OdontoSystem/database"
	"OdontoSystem/models"
)

// ActiveFilter narrows patient, dentist and procedure listings.
type ActiveFilter struct {
	Active *bool
}

func (f ActiveFilter) query() *database.Query {
	q := database.NewQuery()
	if f.Active != nil {
		q.Eq("active", *f.Active)
	}
	return q.OrderBy("name", false)
}

type PatientRepository struct {
	rows tableRepository[models.Patient]
}

func NewPatientRepository(store database.Store) *PatientRepository {
	return &PatientRepository{rows: newTableRepository[models.Patient](store, database.TablePatients)}
}

func (r *PatientRepository) GetAll(ctx context.Context, filter ActiveFilter) ([]models.Patient, error) {
	return r.rows.list(ctx, filter.query())
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	return r.rows.get(ctx, id)
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return r.rows.insert(ctx, patient)
}

func (r *PatientRepository) Update(ctx context.Context, id string, patch map[string]any) (*models.Patient, error) {
	return r.rows.update(ctx, id, patch)
}

type DentistRepository struct {
	rows tableRepository[models.Dentist]
}

func NewDentistRepository(store database.Store) *DentistRepository {
	return &DentistRepository{rows: newTableRepository[models.Dentist](store, database.TableDentists)}
}

func (r *DentistRepository) GetAll(ctx context.Context, filter ActiveFilter) ([]models.Dentist, error) {
	return r.rows.list(ctx, filter.query())
}

func (r *DentistRepository) GetByID(ctx context.Context, id string) (*models.Dentist, error) {
	return r.rows.get(ctx, id)
}

func (r *DentistRepository) Create(ctx context.Context, dentist *models.Dentist) error {
	return r.rows.insert(ctx, dentist)
}

func (r *DentistRepository) Update(ctx context.Context, id string, patch map[string]any) (*models.Dentist, error) {
	return r.rows.update(ctx, id, patch)
}

type ProcedureRepository struct {
	rows tableRepository[models.Procedure]
}

func NewProcedureRepository(store database.Store) *ProcedureRepository {
	return &ProcedureRepository{rows: newTableRepository[models.Procedure](store, database.TableProcedures)}
}

func (r *ProcedureRepository) GetAll(ctx context.Context, filter ActiveFilter) ([]models.Procedure, error) {
	return r.rows.list(ctx, filter.query())
}

func (r *ProcedureRepository) GetByID(ctx context.Context, id string) (*models.Procedure, error) {
	return r.rows.get(ctx, id)
}

func (r *ProcedureRepository) Create(ctx context.Context, procedure *models.Procedure) error {
	return r.rows.insert(ctx, procedure)
}

func (r *ProcedureRepository) Update(ctx context.Context, id string, patch map[string]any) (*models.Procedure, error) {
	return r.rows.update(ctx, id, patch)
}

func (r *ProcedureRepository) Delete(ctx context.Context, id string) error {
	return r.rows.delete(ctx, id)
}
