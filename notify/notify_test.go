package notify

import (
	"strings"
	"testing"

	"civicvoice-be/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDirectory(t *testing.T) {
	d := NewDirectory("fallback@example.com", map[string]string{
		"Water Supply Department": "water@example.com",
	})

	assert.True(t, d.Recognized("Water Supply Department"))
	assert.True(t, d.Recognized(models.EscalationDepartment))
	assert.False(t, d.Recognized("Ministry of Silly Walks"))

	assert.Equal(t, "water@example.com", d.EmailFor("Water Supply Department"))
	assert.Equal(t, "fallback@example.com", d.EmailFor("Roads & Traffic"))
}

func TestFormatMobile(t *testing.T) {
	assert.Equal(t, "+919876543210", formatMobile("9876543210"))
	assert.Equal(t, "+919876543210", formatMobile(" 9876543210 "))
	assert.Equal(t, "+14155550100", formatMobile("+14155550100"))
}

func TestDepartmentAssignmentEmailPrefixesRelativeMedia(t *testing.T) {
	c := &models.Complaint{
		ComplaintID:  "CV-000042",
		IssueType:    models.IssueWater,
		Description:  "Pipe burst",
		LocationText: "MG Road",
		LocationGeo:  models.NewGeoPoint(78.48, 17.41),
		Media: []models.Media{
			{URL: "/uploads/a.jpg", Type: "image/jpeg"},
			{URL: "https://cdn.example.com/b.jpg", Type: "image/jpeg"},
		},
	}

	subject, body := DepartmentAssignmentEmail(c, "Water Supply Department", "http://localhost:5001")
	assert.Contains(t, subject, "CV-000042")
	assert.Contains(t, body, "http://localhost:5001/uploads/a.jpg")
	assert.Contains(t, body, "https://cdn.example.com/b.jpg")
	assert.False(t, strings.Contains(body, "http://localhost:5001https://"))
}

func TestReporterTemplates(t *testing.T) {
	c := &models.Complaint{
		ComplaintID:  "CV-000042",
		Reporter:     primitive.NewObjectID(),
		IssueType:    models.IssueRoads,
		LocationText: "MG Road",
	}

	subject, _ := ResolutionEmail(c)
	assert.Contains(t, subject, "CV-000042")
	assert.Contains(t, ResolutionSMS(c), "RESOLVED")

	subject, body := EscalationEmail(c)
	assert.Contains(t, subject, "escalated")
	assert.Contains(t, body, "MG Road")
	assert.Contains(t, EscalationSMS(c), models.EscalationDepartment)
}
