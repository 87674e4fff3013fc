// Package parser derives structured complaint fields from free text by
// keyword matching against fixed vocabularies.
package parser

import (
	"regexp"
	"strings"

	"civicvoice-be/models"
)

var issueKeywords = []struct {
	issueType models.IssueType
	words     []string
}{
	{models.IssueWater, []string{"leak", "pipe", "water", "sewage", "drain"}},
	{models.IssueWaste, []string{"garbage", "trash", "waste", "dustbin", "cleaning"}},
	{models.IssueRoads, []string{"pothole", "road", "streetlight", "traffic", "signal"}},
	{models.IssueElectricity, []string{"power", "light", "electric", "transformer"}},
}

var locationPattern = regexp.MustCompile(`near\s([\w\s]+)`)

// Parsed is the structured form of a raw complaint text.
type Parsed struct {
	IssueType    models.IssueType
	Description  string
	LocationText string
	Severity     models.Severity
}

// Parse classifies the text into an issue type, pulls a "near <place>"
// location phrase when present, and defaults severity to medium.
func Parse(text string) Parsed {
	lower := strings.ToLower(text)

	issueType := models.IssueOthers
	for _, entry := range issueKeywords {
		for _, w := range entry.words {
			if strings.Contains(lower, w) {
				issueType = entry.issueType
				break
			}
		}
		if issueType != models.IssueOthers {
			break
		}
	}

	locationText := "Location not specified"
	if m := locationPattern.FindStringSubmatch(lower); m != nil {
		locationText = strings.TrimSpace(m[1])
	}

	return Parsed{
		IssueType:    issueType,
		Description:  lower,
		LocationText: locationText,
		Severity:     models.SeverityMedium,
	}
}
