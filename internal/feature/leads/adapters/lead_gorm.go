// Package adapters はleadsフィーチャーのリポジトリ実装（GORM / MongoDB）を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leadhub/internal/feature/leads/domain/entity"
	"leadhub/internal/feature/leads/usecase"
)

type leadGorm struct {
	db *gorm.DB
}

var _ usecase.LeadRepository = (*leadGorm)(nil)

// NewLeadGorm は指定されたgorm.DB接続でリードリポジトリを生成します。
func NewLeadGorm(db *gorm.DB) *leadGorm {
	return &leadGorm{db: db}
}

// LeadModel はleadsテーブルの行です。
type LeadModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Name       string    `gorm:"size:255;not null"`
	Email      string    `gorm:"size:255;not null"`
	Phone      string    `gorm:"size:64;not null"`
	Company    string    `gorm:"size:255;not null"`
	LeadStatus string    `gorm:"size:16;not null;default:New;index:idx_leads_status_source,priority:1"`
	LeadSource string    `gorm:"size:16;not null;index:idx_leads_status_source,priority:2"`
	CreatedBy  string    `gorm:"size:36;not null;index:idx_leads_owner_created,priority:1"`
	CreatedAt  time.Time `gorm:"not null;index:idx_leads_owner_created,priority:2;index"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (LeadModel) TableName() string {
	return "leads"
}

func toModel(e *entity.Lead) LeadModel {
	return LeadModel{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		Company:    e.Company,
		LeadStatus: string(e.LeadStatus),
		LeadSource: string(e.LeadSource),
		CreatedBy:  e.CreatedBy,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (m LeadModel) toEntity() entity.Lead {
	return entity.Lead{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Company:    m.Company,
		LeadStatus: entity.LeadStatus(m.LeadStatus),
		LeadSource: entity.LeadSource(m.LeadSource),
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

// sortColumns はソートキーから列名への対応です。ここにない列ではソートしません。
var sortColumns = map[usecase.SortField]string{
	usecase.SortByName:       "name",
	usecase.SortByEmail:      "email",
	usecase.SortByPhone:      "phone",
	usecase.SortByCompany:    "company",
	usecase.SortByLeadStatus: "lead_status",
	usecase.SortByLeadSource: "lead_source",
	usecase.SortByCreatedAt:  "created_at",
	usecase.SortByUpdatedAt:  "updated_at",
}

func (r *leadGorm) Create(ctx context.Context, lead *entity.Lead) error {
	m := toModel(lead)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *leadGorm) FindByID(ctx context.Context, owner, id string) (*entity.Lead, error) {
	var m LeadModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, owner).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrLeadNotFound
		}
		return nil, err
	}
	e := m.toEntity()
	return &e, nil
}

func (r *leadGorm) Update(ctx context.Context, lead *entity.Lead) error {
	res := r.db.WithContext(ctx).
		Model(&LeadModel{}).
		Where("id = ? AND created_by = ?", lead.ID, lead.CreatedBy).
		Updates(map[string]any{
			"name":        lead.Name,
			"email":       lead.Email,
			"phone":       lead.Phone,
			"company":     lead.Company,
			"lead_status": string(lead.LeadStatus),
			"lead_source": string(lead.LeadSource),
			"updated_at":  lead.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrLeadNotFound
	}
	return nil
}

func (r *leadGorm) Delete(ctx context.Context, owner, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, owner).
		Delete(&LeadModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrLeadNotFound
	}
	return nil
}

// List は件数取得とページ取得で同じ条件を2回適用します。
func (r *leadGorm) List(ctx context.Context, owner string, q usecase.ListQuery) ([]entity.Lead, int64, error) {
	scope := listScope(owner, q)

	var total int64
	if err := r.db.WithContext(ctx).Model(&LeadModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entity.Lead{}, 0, nil
	}

	var rows []LeadModel
	err := r.db.WithContext(ctx).
		Model(&LeadModel{}).
		Scopes(scope).
		Order(orderBy(q)).
		Offset(q.Skip()).
		Limit(q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]entity.Lead, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, total, nil
}

func listScope(owner string, q usecase.ListQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("created_by = ?", owner)
		if q.Search != "" {
			p := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
			tx = tx.Where(
				"(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\' OR LOWER(company) LIKE ? ESCAPE '\\')",
				p, p, p,
			)
		}
		if q.Status != "" {
			tx = tx.Where("lead_status = ?", string(q.Status))
		}
		if q.Source != "" {
			tx = tx.Where("lead_source = ?", string(q.Source))
		}
		return tx
	}
}

func orderBy(q usecase.ListQuery) clause.OrderBy {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = sortColumns[usecase.SortByCreatedAt]
	}
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: col}, Desc: !q.Ascending},
		{Column: clause.Column{Name: "id"}},
	}}
}

// escapeLike はLIKEのワイルドカードを文字どおりに扱うためエスケープします。
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
