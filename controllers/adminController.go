package controllers

import (
	"context"
	"net/http"
	"time"

	"civicvoice-be/lifecycle"
	"civicvoice-be/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminController struct {
	store  *store.ComplaintStore
	engine *lifecycle.Engine
}

func NewAdminController(s *store.ComplaintStore, engine *lifecycle.Engine) *AdminController {
	return &AdminController{store: s, engine: engine}
}

func (ac *AdminController) GetAllComplaints(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	complaints, err := ac.store.All(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// Verify moves a pending complaint to verified.
func (ac *AdminController) Verify(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	complaint, err := ac.engine.Verify(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint verified successfully", "complaint": complaint})
}

// Assign forwards the complaint to a department; the department email is
// best-effort and never blocks the response.
func (ac *AdminController) Assign(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	var input struct {
		Department string `json:"department" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	complaint, err := ac.engine.Assign(ctx, id, input.Department)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Complaint forwarded to " + input.Department,
		"complaint": complaint,
	})
}

// Escalate is the manual admin shortcut to General Administration.
func (ac *AdminController) Escalate(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	complaint, err := ac.engine.Escalate(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint manually escalated", "complaint": complaint})
}

// Resolve closes the complaint and notifies the reporter.
func (ac *AdminController) Resolve(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	complaint, err := ac.engine.Resolve(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint resolved successfully", "complaint": complaint})
}

// Analytics returns the dashboard aggregates.
func (ac *AdminController) Analytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	analytics, err := ac.store.Analytics(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
