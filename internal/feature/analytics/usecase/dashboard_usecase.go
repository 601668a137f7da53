// Package usecase はダッシュボード集計のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"leadhub/internal/feature/analytics/domain/entity"
	leads "leadhub/internal/feature/leads/domain/entity"
)

// TrendWindow はトレンド集計の対象期間です。
const TrendWindow = 30 * 24 * time.Hour

// LeadStatsRepository はリードの集計クエリを抽象化します。
// すべてのメソッドは owner のリードだけを対象にします。
type LeadStatsRepository interface {
	// CountAll は owner のリード総数を返します。
	CountAll(ctx context.Context, owner string) (int64, error)
	// CountByStatus は指定ステータスのリード数を返します。
	CountByStatus(ctx context.Context, owner string, status leads.LeadStatus) (int64, error)
	// GroupByStatus はステータスごとの件数をキー昇順で返します。
	GroupByStatus(ctx context.Context, owner string) ([]entity.KeyCount, error)
	// GroupBySource はソースごとの件数をキー昇順で返します。
	GroupBySource(ctx context.Context, owner string) ([]entity.KeyCount, error)
	// DailyCounts は since 以降に作成されたリードをUTC日付ごとに数え、日付昇順で返します。
	DailyCounts(ctx context.Context, owner string, since time.Time) ([]entity.KeyCount, error)
}

type dashboardUsecase struct {
	stats LeadStatsRepository
	now   func() time.Time
}

// Option はdashboardUsecaseの設定を変更します。
type Option func(*dashboardUsecase)

// WithClock は現在時刻の取得関数を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(u *dashboardUsecase) { u.now = now }
}

// NewDashboardUsecase はdashboardUsecaseの新しいインスタンスを生成します。
func NewDashboardUsecase(stats LeadStatsRepository, opts ...Option) *dashboardUsecase {
	u := &dashboardUsecase{stats: stats, now: time.Now}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Dashboard は呼び出しごとに集計を実行します（キャッシュしません）。
// 各クエリは独立しており、同時に書き込みがあると合計が一致しない場合があります。
func (u *dashboardUsecase) Dashboard(ctx context.Context, owner string) (*entity.Dashboard, error) {
	var d entity.Dashboard
	since := u.now().UTC().Add(-TrendWindow)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.TotalLeads, err = u.stats.CountAll(ctx, owner)
		return wrap("count leads", err)
	})
	g.Go(func() (err error) {
		d.LeadsByStatus, err = u.stats.GroupByStatus(ctx, owner)
		return wrap("group by status", err)
	})
	g.Go(func() (err error) {
		d.LeadsBySource, err = u.stats.GroupBySource(ctx, owner)
		return wrap("group by source", err)
	})
	g.Go(func() (err error) {
		d.LeadsTrend, err = u.stats.DailyCounts(ctx, owner, since)
		return wrap("daily counts", err)
	})
	for status, dst := range map[leads.LeadStatus]*int64{
		leads.StatusConverted: &d.ConvertedLeads,
		leads.StatusNew:       &d.NewLeads,
		leads.StatusContacted: &d.ContactedLeads,
		leads.StatusQualified: &d.QualifiedLeads,
		leads.StatusLost:      &d.LostLeads,
	} {
		g.Go(func() (err error) {
			*dst, err = u.stats.CountByStatus(ctx, owner, status)
			return wrap("count "+string(status), err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.ConversionRate = ConversionRate(d.ConvertedLeads, d.TotalLeads)
	if d.LeadsByStatus == nil {
		d.LeadsByStatus = []entity.KeyCount{}
	}
	if d.LeadsBySource == nil {
		d.LeadsBySource = []entity.KeyCount{}
	}
	if d.LeadsTrend == nil {
		d.LeadsTrend = []entity.KeyCount{}
	}
	return &d, nil
}

// ConversionRate は converted/total をパーセントで小数第2位に丸めて返します。total が 0 なら 0 です。
func ConversionRate(converted, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(converted)/float64(total)*100*100) / 100
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
