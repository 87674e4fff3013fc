// Package ai is a thin passthrough to the Gemini generateContent API for
// complaint summarization and the guided intake chat.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"civicvoice-be/apperr"
)

const geminiBase = "https://generativelanguage.googleapis.com/v1beta/models"

// Newer models are tried first; older ones cover keys without access.
var modelFallbacks = []string{
	"gemini-2.0-flash",
	"gemini-flash-latest",
	"gemini-1.5-flash",
	"gemini-pro",
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    geminiBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBase exists for tests pointing at a local server.
func NewClientWithBase(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate posts the prompt, walking the model fallback list until one
// answers. The model's reply is expected to be a JSON object, possibly
// wrapped in markdown fences.
func (c *Client) generate(ctx context.Context, prompt string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, apperr.New(apperr.Upstream, "AI provider key not configured")
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, model := range modelFallbacks {
		text, err := c.callModel(ctx, model, payload)
		if err != nil {
			lastErr = err
			continue
		}

		text = strings.TrimSpace(strings.ReplaceAll(text, "```json", ""))
		text = strings.TrimSpace(strings.ReplaceAll(text, "```", ""))
		if !json.Valid([]byte(text)) {
			lastErr = apperr.Newf(apperr.Upstream, "Model %s returned invalid JSON", model)
			continue
		}
		return json.RawMessage(text), nil
	}
	return nil, apperr.Wrap(apperr.Upstream, "AI processing failed", lastErr)
}

func (c *Client) callModel(ctx context.Context, model string, payload []byte) (string, error) {
	u := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model %s returned status %d", model, resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model %s returned no candidates", model)
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

// Summarize asks the model for a summary, issue type, formatted description
// and bot reply for a raw complaint report.
func (c *Client) Summarize(ctx context.Context, text string) (json.RawMessage, error) {
	prompt := fmt.Sprintf(`You are an AI assistant for a civic complaint system.
Analyze the following structured report from a user:

"%s"

Return a JSON object with exactly these fields:
1. "summary": A short, professional summary for the admin (max 20 words).
2. "issueType": One of ["water", "waste", "roads", "electricity", "others"]. Choose the best fit.
3. "formattedDescription": A polite, well-structured version of the complaint suitable for official records. Combine the problem, location, duration, severity, safety concerns, and affected details into a coherent paragraph.
4. "botReply": A short, empathetic reply to the user confirming you have received all details.

Do not include markdown formatting. Just return the raw JSON string.`, text)

	return c.generate(ctx, prompt)
}

// ChatMessage is one turn of the intake conversation.
type ChatMessage struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// Chat advances the guided complaint-intake conversation.
func (c *Client) Chat(ctx context.Context, history []ChatMessage, currentInput string) (json.RawMessage, error) {
	var b strings.Builder
	for _, msg := range history {
		speaker := "User"
		if msg.From == "bot" {
			speaker = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, msg.Text)
	}

	prompt := fmt.Sprintf(`You are a helpful and empathetic Civic Assistant for a complaint reporting system.
Your goal is to gather specific information from the user to create a structured complaint report.

REQUIRED INFORMATION:
1. Problem Description (What is the issue?)
2. Location (Where is it?)
3. Duration (How long has it been happening?)
4. Severity (Low, Medium, High, Critical)
5. Safety (Is there immediate danger?)
6. Affected (Who/what is affected?)

CURRENT CONVERSATION HISTORY:
%sUser: %s

INSTRUCTIONS:
1. Analyze the user's latest input and the history.
2. Extract any new information provided by the user.
3. Determine what information is still missing from the REQUIRED INFORMATION list.
4. If the user's input is OFF-TOPIC, politely guide them back to the report.
5. If the user has provided all necessary information, mark the conversation as COMPLETED.
6. Generate the next best question to ask the user. Do not ask for information that has already been provided.
7. Be conversational. Acknowledge what they said before asking the next question.

RETURN JSON ONLY:
{
  "nextMessage": "Your response to the user",
  "gatheredInfo": {
    "problem": "extracted problem or null",
    "location": "extracted location or null",
    "duration": "extracted duration or null",
    "severity": "extracted severity or null",
    "safety": "extracted safety or null",
    "affected": "extracted affected or null",
    "additional": "any extra info or null"
  },
  "missingFields": ["list", "of", "missing", "fields"],
  "offTopic": false,
  "completed": false
}`, b.String(), currentInput)

	return c.generate(ctx, prompt)
}
