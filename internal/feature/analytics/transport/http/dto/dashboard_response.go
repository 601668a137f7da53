// Package dto はanalyticsフィーチャーのHTTPレスポンスを定義します。
package dto

import "leadhub/internal/feature/analytics/domain/entity"

type StatusCountRes struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type SourceCountRes struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

type DayCountRes struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DashboardRes is the JSON form of the dashboard snapshot.
type DashboardRes struct {
	TotalLeads     int64            `json:"totalLeads"`
	ConvertedLeads int64            `json:"convertedLeads"`
	NewLeads       int64            `json:"newLeads"`
	ContactedLeads int64            `json:"contactedLeads"`
	QualifiedLeads int64            `json:"qualifiedLeads"`
	LostLeads      int64            `json:"lostLeads"`
	ConversionRate float64          `json:"conversionRate"`
	LeadsByStatus  []StatusCountRes `json:"leadsByStatus"`
	LeadsBySource  []SourceCountRes `json:"leadsBySource"`
	LeadsTrend     []DayCountRes    `json:"leadsTrend"`
}

// NewDashboardRes converts the dashboard entity. Slices are never nil.
func NewDashboardRes(d *entity.Dashboard) DashboardRes {
	res := DashboardRes{
		TotalLeads:     d.TotalLeads,
		ConvertedLeads: d.ConvertedLeads,
		NewLeads:       d.NewLeads,
		ContactedLeads: d.ContactedLeads,
		QualifiedLeads: d.QualifiedLeads,
		LostLeads:      d.LostLeads,
		ConversionRate: d.ConversionRate,
		LeadsByStatus:  make([]StatusCountRes, 0, len(d.LeadsByStatus)),
		LeadsBySource:  make([]SourceCountRes, 0, len(d.LeadsBySource)),
		LeadsTrend:     make([]DayCountRes, 0, len(d.LeadsTrend)),
	}
	for _, kc := range d.LeadsByStatus {
		res.LeadsByStatus = append(res.LeadsByStatus, StatusCountRes{Status: kc.Key, Count: kc.Count})
	}
	for _, kc := range d.LeadsBySource {
		res.LeadsBySource = append(res.LeadsBySource, SourceCountRes{Source: kc.Key, Count: kc.Count})
	}
	for _, kc := range d.LeadsTrend {
		res.LeadsTrend = append(res.LeadsTrend, DayCountRes{Date: kc.Key, Count: kc.Count})
	}
	return res
}
