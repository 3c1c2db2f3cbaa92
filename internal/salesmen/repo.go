package salesmen

import (
	"context"
	"strings"

	"github.com/agentops/licensetrack/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// searchColumns are OR'd for every search term.
var searchColumns = []string{
	"LOWER(salesmen.first_name) LIKE ?",
	"LOWER(salesmen.last_name) LIKE ?",
	"LOWER(salesmen.agent_supervisor) LIKE ?",
	"LOWER(salesmen.agent_site) LIKE ?",
	"LOWER(salesmen.npn) LIKE ?",
}

// Repository exposes salesman persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a salesman repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Salesman{}).Where("salesmen.deleted = ?", false)
}

func (r *Repository) List(ctx context.Context, q listQuery) ([]models.Salesman, error) {
	query := r.active(ctx)
	for _, term := range q.terms {
		args := make([]any, len(searchColumns))
		for i := range args {
			args[i] = term
		}
		query = query.Where("("+strings.Join(searchColumns, " OR ")+")", args...)
	}
	if q.positionStartFrom != nil {
		query = query.Where("salesmen.position_start_date >= ?", *q.positionStartFrom)
	}

	var rows []models.Salesman
	err := query.
		Order(q.sort.OrderClause()).
		Order("salesmen.id ASC").
		Limit(q.limit).
		Offset(q.offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Salesman, error) {
	var salesman models.Salesman
	if err := r.active(ctx).Where("salesmen.id = ?", id).First(&salesman).Error; err != nil {
		return nil, err
	}
	return &salesman, nil
}

func (r *Repository) Create(ctx context.Context, salesman *models.Salesman) error {
	return r.db.WithContext(ctx).Create(salesman).Error
}

func (r *Repository) Save(ctx context.Context, salesman *models.Salesman) error {
	return r.db.WithContext(ctx).Omit("States").Save(salesman).Error
}

// SoftDelete flags the salesman as deleted.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.active(ctx).Where("salesmen.id = ?", id).Update("deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) UpdateNeededStates(ctx context.Context, id uuid.UUID, needed string) error {
	return r.db.WithContext(ctx).Model(&models.Salesman{}).Where("id = ?", id).Update("needed_states", needed).Error
}

// States loads the salesman's state tree ordered by jurisdiction.
func (r *Repository) States(ctx context.Context, salesmanID uuid.UUID) ([]models.State, error) {
	var states []models.State
	err := r.db.WithContext(ctx).
		Preload("Licenses", func(db *gorm.DB) *gorm.DB { return db.Order("license_num ASC") }).
		Preload("Licenses.Details", func(db *gorm.DB) *gorm.DB { return db.Order("loa ASC") }).
		Preload("Appointments", func(db *gorm.DB) *gorm.DB { return db.Order("company_name ASC") }).
		Where("salesman_id = ?", salesmanID).
		Order("name ASC").
		Find(&states).Error
	if err != nil {
		return nil, err
	}
	return states, nil
}

func (r *Repository) StateNames(ctx context.Context, salesmanID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.State{}).Where("salesman_id = ?", salesmanID).Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ListActiveWithStateNames returns every active salesman with bare State rows.
func (r *Repository) ListActiveWithStateNames(ctx context.Context) ([]models.Salesman, error) {
	var rows []models.Salesman
	err := r.active(ctx).
		Preload("States", func(db *gorm.DB) *gorm.DB { return db.Select("id", "salesman_id", "name") }).
		Order("salesmen.last_name ASC").
		Order("salesmen.first_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveIDs returns the ids of active salesmen, optionally only those with an NPN.
func (r *Repository) ListActiveIDs(ctx context.Context, withNPN bool) ([]uuid.UUID, error) {
	query := r.active(ctx)
	if withNPN {
		query = query.Where("salesmen.npn IS NOT NULL AND salesmen.npn <> ''")
	}
	var ids []uuid.UUID
	if err := query.Order("salesmen.created_at ASC").Pluck("salesmen.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
