package roster

import (
	"context"
	"errors"

	"github.com/agentops/licensetrack/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists roster rows onto salesmen. Lookups include soft-deleted
// rows so natural keys never collide with a hidden record.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, salesman *models.Salesman) error
	Save(ctx context.Context, salesman *models.Salesman) error
	FindByNPN(ctx context.Context, npn string) (*models.Salesman, error)
	FindOrCreateByAssociateOID(ctx context.Context, oid string) (*models.Salesman, bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, salesman *models.Salesman) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(salesman).Error
}

func (r *repository) Save(ctx context.Context, salesman *models.Salesman) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(salesman).Error
}

func (r *repository) FindByNPN(ctx context.Context, npn string) (*models.Salesman, error) {
	var salesman models.Salesman
	if err := r.db.WithContext(ctx).Where("npn = ?", npn).First(&salesman).Error; err != nil {
		return nil, err
	}
	return &salesman, nil
}

func (r *repository) FindOrCreateByAssociateOID(ctx context.Context, oid string) (*models.Salesman, bool, error) {
	var salesman models.Salesman
	err := r.db.WithContext(ctx).Where("associate_oid = ?", oid).First(&salesman).Error
	if err == nil {
		return &salesman, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	salesman = models.Salesman{AssociateOID: models.StringPtr(oid)}
	if err := r.Create(ctx, &salesman); err != nil {
		return nil, false, err
	}
	return &salesman, true, nil
}
