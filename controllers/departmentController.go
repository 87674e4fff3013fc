package controllers

import (
	"context"
	"net/http"
	"time"

	"civicvoice-be/lifecycle"
	"civicvoice-be/middlewares"
	"civicvoice-be/models"
	"civicvoice-be/store"
	authUtils "civicvoice-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DepartmentController struct {
	departments *store.DepartmentStore
	complaints  *store.ComplaintStore
	engine      *lifecycle.Engine
	jwtSecret   []byte
}

func NewDepartmentController(departments *store.DepartmentStore, complaints *store.ComplaintStore, engine *lifecycle.Engine, jwtSecret []byte) *DepartmentController {
	return &DepartmentController{
		departments: departments,
		complaints:  complaints,
		engine:      engine,
		jwtSecret:   jwtSecret,
	}
}

// Register provisions a department login. Staff only; duplicate email is a
// Conflict.
func (dc *DepartmentController) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	department := models.Department{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
		Role:     models.RoleDepartment,
	}
	if err := department.HashPassword(); err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := dc.departments.Create(ctx, &department); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Department created successfully",
		"department": department,
	})
}

// Login authenticates a department account and issues its bearer token.
func (dc *DepartmentController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	department, err := dc.departments.GetByEmail(ctx, input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !department.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := authUtils.GenerateToken(department.ID.Hex(), department.Role, dc.jwtSecret)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

// Complaints lists the complaints assigned to the caller's department, or
// to the department named in the path for admins.
func (dc *DepartmentController) Complaints(c *gin.Context) {
	identity, _ := middlewares.IdentityFrom(c)
	if identity.Department == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Staff access required"})
		return
	}

	name := c.Param("dept")
	if name == "" {
		name = identity.Department.Name
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	complaints, err := dc.complaints.ByDepartment(ctx, name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// UpdateStatus lets a department move its complaint to in_progress or
// resolved; the transition table is enforced by the lifecycle engine.
func (dc *DepartmentController) UpdateStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	if !models.ValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	complaint, err := dc.engine.UpdateStatus(ctx, id, models.ComplaintStatus(input.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Status updated to " + input.Status,
		"complaint": complaint,
	})
}

// List returns all departments for the admin dashboard.
func (dc *DepartmentController) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	departments, err := dc.departments.List(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}
