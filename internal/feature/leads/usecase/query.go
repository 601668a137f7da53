package usecase

import (
	"math"
	"strings"

	"leadhub/internal/feature/leads/domain/entity"
)

const (
	// DefaultPage はページ番号未指定時の値です。
	DefaultPage = 1
	// DefaultLimit は1ページあたりのデフォルト件数です。
	DefaultLimit = 10
	// MaxLimit は1ページあたりの最大件数です。
	MaxLimit = 100
	// MaxPage は (page-1)*limit が int をオーバーフローしない最大のページ番号です。
	MaxPage = math.MaxInt / MaxLimit
)

// SortField はリスト取得で許可されたソートキーです（JSONフィールド名）。
type SortField string

const (
	SortByName       SortField = "name"
	SortByEmail      SortField = "email"
	SortByPhone      SortField = "phone"
	SortByCompany    SortField = "company"
	SortByLeadStatus SortField = "leadStatus"
	SortByLeadSource SortField = "leadSource"
	SortByCreatedAt  SortField = "createdAt"
	SortByUpdatedAt  SortField = "updatedAt"
)

var sortFields = map[SortField]struct{}{
	SortByName: {}, SortByEmail: {}, SortByPhone: {}, SortByCompany: {},
	SortByLeadStatus: {}, SortByLeadSource: {}, SortByCreatedAt: {}, SortByUpdatedAt: {},
}

// ListParams はクエリ文字列から受け取った生のリスト条件です。
type ListParams struct {
	Search    string
	Status    string
	Source    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// ListQuery は正規化済みのリスト条件です。アダプターはこの値だけを信頼します。
type ListQuery struct {
	Search    string
	Status    entity.LeadStatus
	Source    entity.LeadSource
	SortBy    SortField
	Ascending bool
	Page      int
	Limit     int
}

// Skip は読み飛ばす件数を返します。
func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

// NormalizeQuery はページング値をクランプし、ソートキーをホワイトリストで検証します。
//   - page < 1 は 1、MaxPage 超は MaxPage
//   - limit < 1 は DefaultLimit、MaxLimit 超は MaxLimit
//   - 未知の sortBy は createdAt、sortOrder は "asc" 以外すべて降順
func NormalizeQuery(p ListParams) ListQuery {
	q := ListQuery{
		Search:    strings.TrimSpace(p.Search),
		Status:    entity.LeadStatus(strings.TrimSpace(p.Status)),
		Source:    entity.LeadSource(strings.TrimSpace(p.Source)),
		SortBy:    SortField(p.SortBy),
		Ascending: p.SortOrder == "asc",
		Page:      p.Page,
		Limit:     p.Limit,
	}
	return q.clamp()
}

func (q ListQuery) clamp() ListQuery {
	if _, ok := sortFields[q.SortBy]; !ok {
		q.SortBy = SortByCreatedAt
	}
	switch {
	case q.Page < 1:
		q.Page = DefaultPage
	case q.Page > MaxPage:
		q.Page = MaxPage
	}
	switch {
	case q.Limit < 1:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	return q
}

// LeadPage は1ページ分のリードと総件数です。
type LeadPage struct {
	Items      []entity.Lead
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// totalPages は ceil(total/limit) を返します。total が 0 のときは 0 です。
func totalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}
