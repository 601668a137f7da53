// Package entity defines the read models for the analytics feature.
package entity

// KeyCount is one row of a group-by count.
type KeyCount struct {
	Key   string
	Count int64
}

// Dashboard is the aggregate snapshot of one user's leads.
// It is computed from several independent reads and is not a point-in-time snapshot.
type Dashboard struct {
	TotalLeads     int64
	ConvertedLeads int64
	NewLeads       int64
	ContactedLeads int64
	QualifiedLeads int64
	LostLeads      int64
	// ConversionRate is converted/total as a percentage rounded to two decimals.
	ConversionRate float64
	LeadsByStatus  []KeyCount // ascending by status
	LeadsBySource  []KeyCount // ascending by source
	LeadsTrend     []KeyCount // YYYY-MM-DD (UTC), ascending, days without leads omitted
}
