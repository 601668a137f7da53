// Package adapters はanalyticsフィーチャーの集計クエリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"leadhub/internal/feature/analytics/domain/entity"
	"leadhub/internal/feature/analytics/usecase"
	leads "leadhub/internal/feature/leads/domain/entity"
)

const leadsTable = "leads"

type statsGorm struct {
	db *gorm.DB
}

var _ usecase.LeadStatsRepository = (*statsGorm)(nil)

// NewStatsGorm はleadsテーブルを集計するリポジトリを生成します。
func NewStatsGorm(db *gorm.DB) *statsGorm {
	return &statsGorm{db: db}
}

// keyCountRow は GROUP BY の結果行です。
type keyCountRow struct {
	Label string
	Total int64
}

func (r *statsGorm) owned(ctx context.Context, owner string) *gorm.DB {
	return r.db.WithContext(ctx).Table(leadsTable).Where("created_by = ?", owner)
}

func (r *statsGorm) CountAll(ctx context.Context, owner string) (int64, error) {
	var n int64
	err := r.owned(ctx, owner).Count(&n).Error
	return n, err
}

func (r *statsGorm) CountByStatus(ctx context.Context, owner string, status leads.LeadStatus) (int64, error) {
	var n int64
	err := r.owned(ctx, owner).Where("lead_status = ?", string(status)).Count(&n).Error
	return n, err
}

func (r *statsGorm) GroupByStatus(ctx context.Context, owner string) ([]entity.KeyCount, error) {
	return r.groupBy(r.owned(ctx, owner), "lead_status")
}

func (r *statsGorm) GroupBySource(ctx context.Context, owner string) ([]entity.KeyCount, error) {
	return r.groupBy(r.owned(ctx, owner), "lead_source")
}

func (r *statsGorm) DailyCounts(ctx context.Context, owner string, since time.Time) ([]entity.KeyCount, error) {
	tx := r.owned(ctx, owner).Where("created_at >= ?", since.UTC())
	return r.groupBy(tx, dayExpr(r.db.Dialector.Name()))
}

// groupBy は expr ごとの件数をラベル昇順で返します。expr は内部定数のみを受け取ります。
func (r *statsGorm) groupBy(tx *gorm.DB, expr string) ([]entity.KeyCount, error) {
	var rows []keyCountRow
	err := tx.
		Select(expr + " AS label, COUNT(*) AS total").
		Group(expr).
		Order("label ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.KeyCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.KeyCount{Key: row.Label, Count: row.Total})
	}
	return out, nil
}

// dayExpr はcreated_atをUTCのYYYY-MM-DDに変換するSQL式を返します。
func dayExpr(dialect string) string {
	switch dialect {
	case "postgres":
		return "to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
	default:
		return "strftime('%Y-%m-%d', created_at)"
	}
}
