package domain

import (
	"errors"
	"time"
)

// Gender is the reported gender of a child.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// HealthStatus represents the checkup outcome of a health record.
type HealthStatus string

const (
	StatusPending          HealthStatus = "Pending"
	StatusChecked          HealthStatus = "Checked"
	StatusReferred         HealthStatus = "Referred"
	StatusTreated          HealthStatus = "Treated"
	StatusFollowUpRequired HealthStatus = "Follow-up Required"
)

var ErrRecordNotFound = errors.New("record not found")

// HealthStatuses lists every valid checkup status, in display order.
var HealthStatuses = []HealthStatus{
	StatusPending,
	StatusChecked,
	StatusReferred,
	StatusTreated,
	StatusFollowUpRequired,
}

// ValidHealthStatus reports whether s is a known checkup status.
func ValidHealthStatus(s HealthStatus) bool {
	for _, v := range HealthStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidGender reports whether g is a known gender value.
func ValidGender(g Gender) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// HealthRecord is the core aggregate: one child health checkup submission.
type HealthRecord struct {
	ID                string       `json:"id" bson:"_id,omitempty"`
	ChildName         string       `json:"child_name" bson:"child_name"`
	Age               int          `json:"age" bson:"age"`
	Gender            Gender       `json:"gender" bson:"gender"`
	WeightKg          float64      `json:"weight_kg" bson:"weight_kg"`
	Symptoms          string       `json:"symptoms,omitempty" bson:"symptoms,omitempty"`
	SchoolName        string       `json:"school_name" bson:"school_name"`
	AnganwadiKendra   string       `json:"anganwadi_kendra" bson:"anganwadi_kendra"`
	HealthStatus      HealthStatus `json:"health_status" bson:"health_status"`
	SubmittedByUserID string       `json:"submitted_by_user_id" bson:"submitted_by_user_id"`
	SubmittedBy       string       `json:"submitted_by" bson:"submitted_by"`
	CreatedAt         time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at" bson:"updated_at"`
}
