package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueType enum
type IssueType string

const (
	IssueWater       IssueType = "water"
	IssueWaste       IssueType = "waste"
	IssueRoads       IssueType = "roads"
	IssueElectricity IssueType = "electricity"
	IssueOthers      IssueType = "others"
)

// ComplaintStatus enum
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusVerified   ComplaintStatus = "verified"
	StatusForwarded  ComplaintStatus = "forwarded"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusEscalated  ComplaintStatus = "escalated"
)

// Severity enum
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// DefaultDepartment is the pre-assignment placeholder; EscalationDepartment
// receives every escalated complaint.
const (
	DefaultDepartment    = "unassigned"
	EscalationDepartment = "General Administration"
)

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Media is an append-only evidence attachment.
type Media struct {
	URL  string `bson:"url" json:"url"`
	Type string `bson:"type" json:"type"`
}

// Rating holds one citizen's 1-5 resolution rating; at most one per citizen.
type Rating struct {
	User  primitive.ObjectID `bson:"user" json:"user"`
	Value int                `bson:"value" json:"value"`
}

// Complaint represents a citizen-filed record of a civic issue.
type Complaint struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ComplaintID        string               `bson:"complaintId" json:"complaintId"`
	Reporter           primitive.ObjectID   `bson:"reporter" json:"reporter"`
	IssueType          IssueType            `bson:"issueType" json:"issueType"`
	Description        string               `bson:"description" json:"description"`
	LocationText       string               `bson:"locationText" json:"locationText"`
	LocationGeo        GeoPoint             `bson:"locationGeo" json:"locationGeo"`
	Media              []Media              `bson:"media" json:"media"`
	Status             ComplaintStatus      `bson:"status" json:"status"`
	Severity           Severity             `bson:"severity" json:"severity"`
	AssignedDepartment string               `bson:"assignedDepartment" json:"assignedDepartment"`
	Upvotes            int                  `bson:"upvotes" json:"upvotes"`
	Upvoters           []primitive.ObjectID `bson:"upvoters" json:"upvoters"`
	Ratings            []Rating             `bson:"ratings" json:"ratings"`
	Summary            string               `bson:"summary,omitempty" json:"summary,omitempty"`
	LastEscalatedAt    *time.Time           `bson:"lastEscalatedAt,omitempty" json:"lastEscalatedAt,omitempty"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func ValidIssueType(s string) bool {
	switch IssueType(s) {
	case IssueWater, IssueWaste, IssueRoads, IssueElectricity, IssueOthers:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch ComplaintStatus(s) {
	case StatusPending, StatusVerified, StatusForwarded, StatusInProgress, StatusResolved, StatusEscalated:
		return true
	}
	return false
}

func ValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}
