package controllers

import (
	"context"
	"net/http"
	"time"

	"civicvoice-be/ai"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	client *ai.Client
}

func NewAIController(client *ai.Client) *AIController {
	return &AIController{client: client}
}

// Summarize relays a raw report to the model and returns its structured
// JSON verdict unchanged.
func (ac *AIController) Summarize(c *gin.Context) {
	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	result, err := ac.client.Summarize(ctx, input.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

// Chat advances the guided intake conversation.
func (ac *AIController) Chat(c *gin.Context) {
	var input struct {
		History      []ai.ChatMessage `json:"history"`
		CurrentInput string           `json:"currentInput" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No input provided"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	result, err := ac.client.Chat(ctx, input.History, input.CurrentInput)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}
