// Package entity defines the domain models for the leads feature.
package entity

import "time"

// LeadStatus is the pipeline stage of a lead.
type LeadStatus string

const (
	StatusNew       LeadStatus = "New"
	StatusContacted LeadStatus = "Contacted"
	StatusQualified LeadStatus = "Qualified"
	StatusConverted LeadStatus = "Converted"
	StatusLost      LeadStatus = "Lost"
)

// Statuses lists every LeadStatus in pipeline order.
var Statuses = []LeadStatus{StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost}

// IsValid reports whether s is one of the known statuses.
func (s LeadStatus) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// LeadSource is the acquisition channel of a lead.
type LeadSource string

const (
	SourceWebsite  LeadSource = "Website"
	SourceReferral LeadSource = "Referral"
	SourceAds      LeadSource = "Ads"
	SourceEmail    LeadSource = "Email"
)

// Sources lists every LeadSource.
var Sources = []LeadSource{SourceWebsite, SourceReferral, SourceAds, SourceEmail}

// IsValid reports whether s is one of the known sources.
func (s LeadSource) IsValid() bool {
	for _, v := range Sources {
		if s == v {
			return true
		}
	}
	return false
}

// StatusNames returns the status values as plain strings.
func StatusNames() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}

// SourceNames returns the source values as plain strings.
func SourceNames() []string {
	out := make([]string, len(Sources))
	for i, s := range Sources {
		out[i] = string(s)
	}
	return out
}

// Lead is a prospective customer record owned by exactly one user.
type Lead struct {
	ID         string     // UUID string
	Name       string     // Contact name
	Email      string     // Contact email, stored lowercased
	Phone      string     // Contact phone number
	Company    string     // Company name
	LeadStatus LeadStatus // Pipeline stage, New when not given
	LeadSource LeadSource // Acquisition channel
	CreatedBy  string     // Owner user ID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
