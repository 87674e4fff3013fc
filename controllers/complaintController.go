package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"civicvoice-be/geocode"
	"civicvoice-be/lifecycle"
	"civicvoice-be/middlewares"
	"civicvoice-be/models"
	"civicvoice-be/parser"
	"civicvoice-be/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComplaintStore is the persistence surface the complaint handlers need.
type ComplaintStore interface {
	Create(ctx context.Context, c *models.Complaint) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error)
	All(ctx context.Context) ([]models.Complaint, error)
	Public(ctx context.Context) ([]store.PublicComplaint, error)
	ByReporter(ctx context.Context, reporter primitive.ObjectID) ([]store.ComplaintSummary, error)
}

type ComplaintController struct {
	store    ComplaintStore
	engine   *lifecycle.Engine
	geocoder geocode.Geocoder
}

func NewComplaintController(s ComplaintStore, engine *lifecycle.Engine, geocoder geocode.Geocoder) *ComplaintController {
	return &ComplaintController{store: s, engine: engine, geocoder: geocoder}
}

// Create files a new complaint. Either structured fields or rawText must be
// present; coordinates resolve with priority explicit point > explicit
// lon/lat > geocoded location text.
func (cc *ComplaintController) Create(c *gin.Context) {
	identity, _ := middlewares.IdentityFrom(c)
	if identity.Citizen == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		IssueType    string           `json:"issueType"`
		Description  string           `json:"description"`
		RawText      string           `json:"rawText"`
		LocationText string           `json:"locationText"`
		LocationGeo  *models.GeoPoint `json:"locationGeo"`
		Longitude    *float64         `json:"longitude"`
		Latitude     *float64         `json:"latitude"`
		Evidence     []string         `json:"evidence"`
		Severity     string           `json:"severity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Structured fields win; free text goes through the keyword parser.
	var issueType models.IssueType
	var description, locationText string
	severity := models.SeverityMedium

	switch {
	case input.IssueType != "" && input.Description != "":
		if !models.ValidIssueType(input.IssueType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue type"})
			return
		}
		issueType = models.IssueType(input.IssueType)
		description = input.Description
		locationText = input.LocationText
		if input.Severity != "" {
			if !models.ValidSeverity(input.Severity) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid severity"})
				return
			}
			severity = models.Severity(input.Severity)
		}
	case input.RawText != "":
		parsed := parser.Parse(input.RawText)
		issueType = parsed.IssueType
		description = parsed.Description
		locationText = parsed.LocationText
		severity = parsed.Severity
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Complaint text or fields are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	lng, lat, ok := cc.resolveCoordinates(ctx, input.LocationGeo, input.Longitude, input.Latitude, firstNonEmpty(locationText, input.LocationText))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not determine coordinates for this location"})
		return
	}

	if locationText == "" {
		locationText = firstNonEmpty(input.LocationText, "Location pinned on map")
	}

	media := make([]models.Media, 0, len(input.Evidence))
	for _, url := range input.Evidence {
		media = append(media, models.Media{URL: url, Type: guessMediaType(url)})
	}

	complaint := models.Complaint{
		Reporter:           identity.Citizen.ID,
		IssueType:          issueType,
		Description:        description,
		LocationText:       locationText,
		LocationGeo:        models.NewGeoPoint(lng, lat),
		Media:              media,
		Status:             models.StatusPending,
		Severity:           severity,
		AssignedDepartment: models.DefaultDepartment,
		Upvoters:           []primitive.ObjectID{},
		Ratings:            []models.Rating{},
		Summary:            fmt.Sprintf("Citizen reported a %s issue: %q at %s.", issueType, description, locationText),
	}

	if err := cc.store.Create(ctx, &complaint); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Complaint created successfully",
		"complaint": complaint,
	})
}

// resolveCoordinates applies the priority order: explicit GeoJSON point,
// then explicit lon/lat, then geocoding the location text. A zero
// coordinate marks an unset value on every path, so a zero pair falls
// through to the next source.
func (cc *ComplaintController) resolveCoordinates(ctx context.Context, point *models.GeoPoint, lng, lat *float64, locationText string) (float64, float64, bool) {
	if point != nil && point.Type == "Point" && len(point.Coordinates) == 2 &&
		!(point.Coordinates[0] == 0 && point.Coordinates[1] == 0) {
		return point.Coordinates[0], point.Coordinates[1], true
	}
	if lng != nil && lat != nil && !(*lng == 0 && *lat == 0) {
		return *lng, *lat, true
	}
	if locationText != "" {
		gLng, gLat, err := cc.geocoder.Coordinates(ctx, locationText)
		if err != nil {
			log.Printf("geocoding failed for %q: %v", locationText, err)
			return 0, 0, false
		}
		if gLng == 0 && gLat == 0 {
			return 0, 0, false
		}
		return gLng, gLat, true
	}
	return 0, 0, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func guessMediaType(url string) string {
	if strings.HasSuffix(url, "mp4") || strings.HasSuffix(url, "mov") {
		return "video/mp4"
	}
	return "image/jpeg"
}

// GetAll returns every complaint, newest first.
func (cc *ComplaintController) GetAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	complaints, err := cc.store.All(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// GetPublic returns the projection used by the public map.
func (cc *ComplaintController) GetPublic(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	complaints, err := cc.store.Public(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// GetMine lists the authenticated citizen's own complaints.
func (cc *ComplaintController) GetMine(c *gin.Context) {
	identity, _ := middlewares.IdentityFrom(c)
	if identity.Citizen == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	complaints, err := cc.store.ByReporter(ctx, identity.Citizen.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// GetByID fetches a single complaint.
func (cc *ComplaintController) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	complaint, err := cc.store.Get(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// Upvote records the citizen's one-time interest signal.
func (cc *ComplaintController) Upvote(c *gin.Context) {
	identity, _ := middlewares.IdentityFrom(c)
	if identity.Citizen == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	upvotes, err := cc.engine.Upvote(ctx, id, identity.Citizen.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Upvoted successfully", "upvotes": upvotes})
}

// Rate upserts the citizen's 1-5 rating for the complaint's resolution.
func (cc *ComplaintController) Rate(c *gin.Context) {
	identity, _ := middlewares.IdentityFrom(c)
	if identity.Citizen == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	var input struct {
		Rating int `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := cc.engine.Rate(ctx, id, identity.Citizen.ID, input.Rating); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating submitted successfully"})
}
