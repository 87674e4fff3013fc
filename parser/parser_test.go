package parser

import (
	"testing"

	"civicvoice-be/models"

	"github.com/stretchr/testify/assert"
)

func TestParseClassifiesIssueType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.IssueType
	}{
		{"water keyword", "There is a huge pipe leak on my street", models.IssueWater},
		{"waste keyword", "Garbage has not been collected for a week", models.IssueWaste},
		{"roads keyword", "A pothole damaged my bike", models.IssueRoads},
		{"electricity keyword", "The transformer keeps sparking at night", models.IssueElectricity},
		{"case insensitive", "WATER everywhere after the rain", models.IssueWater},
		{"no keyword falls back to others", "Stray dogs are a menace here", models.IssueOthers},
		{"water wins over roads when both match", "Water leaking onto the road", models.IssueWater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text).IssueType)
		})
	}
}

func TestParseExtractsLocation(t *testing.T) {
	p := Parse("Streetlight broken near city park entrance")
	assert.Equal(t, "city park entrance", p.LocationText)

	p = Parse("Garbage piling up everywhere")
	assert.Equal(t, "Location not specified", p.LocationText)
}

func TestParseDefaults(t *testing.T) {
	p := Parse("Power Cut Since Morning")
	assert.Equal(t, models.SeverityMedium, p.Severity)
	assert.Equal(t, "power cut since morning", p.Description)
}
