package licensing

import (
	"context"
	"errors"

	"github.com/agentops/licensetrack/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a licensing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindSalesman(ctx context.Context, id uuid.UUID) (*models.Salesman, error) {
	var salesman models.Salesman
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&salesman).Error; err != nil {
		return nil, err
	}
	return &salesman, nil
}

// FindOrCreateSalesmanByNPN reports whether the row was created.
func (r *repository) FindOrCreateSalesmanByNPN(ctx context.Context, npn string) (*models.Salesman, bool, error) {
	var salesman models.Salesman
	err := r.db.WithContext(ctx).Where("npn = ?", npn).First(&salesman).Error
	if err == nil {
		return &salesman, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	salesman = models.Salesman{NPN: models.StringPtr(npn)}
	if err := r.db.WithContext(ctx).Create(&salesman).Error; err != nil {
		return nil, false, err
	}
	return &salesman, true, nil
}

func (r *repository) UpdateSalesman(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Salesman{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindOrCreateState(ctx context.Context, salesmanID uuid.UUID, name string) (*models.State, bool, error) {
	var state models.State
	err := r.db.WithContext(ctx).Where("salesman_id = ? AND name = ?", salesmanID, name).First(&state).Error
	if err == nil {
		return &state, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	state = models.State{SalesmanID: salesmanID, Name: name}
	if err := r.db.WithContext(ctx).Create(&state).Error; err != nil {
		return nil, false, err
	}
	return &state, true, nil
}

// UpsertLicense matches on (state_id, license_num).
func (r *repository) UpsertLicense(ctx context.Context, license *models.License, columns []string) (bool, error) {
	var existing models.License
	err := r.db.WithContext(ctx).
		Where("state_id = ? AND license_num = ?", license.StateID, license.LicenseNum).
		First(&existing).Error
	if err == nil {
		license.ID, license.CreatedAt = existing.ID, existing.CreatedAt
	}
	return r.upsert(ctx, license, columns, err)
}

// UpsertLicenseDetail matches on (license_id, loa).
func (r *repository) UpsertLicenseDetail(ctx context.Context, detail *models.LicenseDetail, columns []string) (bool, error) {
	var existing models.LicenseDetail
	err := r.db.WithContext(ctx).
		Where("license_id = ? AND loa = ?", detail.LicenseID, detail.LOA).
		First(&existing).Error
	if err == nil {
		detail.ID, detail.CreatedAt = existing.ID, existing.CreatedAt
	}
	return r.upsert(ctx, detail, columns, err)
}

// UpsertAppointment matches on (state_id, company_name).
func (r *repository) UpsertAppointment(ctx context.Context, appointment *models.Appointment, columns []string) (bool, error) {
	var existing models.Appointment
	err := r.db.WithContext(ctx).
		Where("state_id = ? AND company_name = ?", appointment.StateID, appointment.CompanyName).
		First(&existing).Error
	if err == nil {
		appointment.ID, appointment.CreatedAt = existing.ID, existing.CreatedAt
	}
	return r.upsert(ctx, appointment, columns, err)
}

// upsert expects row to carry the existing primary key when lookupErr is nil.
func (r *repository) upsert(ctx context.Context, row any, columns []string, lookupErr error) (bool, error) {
	switch {
	case lookupErr == nil:
		q := r.db.WithContext(ctx)
		if len(columns) == 0 {
			return false, q.Save(row).Error
		}
		selected := append(append([]string{}, columns...), "updated_at")
		return false, q.Model(row).Select(selected).Updates(row).Error
	case errors.Is(lookupErr, gorm.ErrRecordNotFound):
		return true, r.db.WithContext(ctx).Create(row).Error
	default:
		return false, lookupErr
	}
}
