package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries every environment-level setting. It is loaded once in main
// and injected into the components that need it.
type Config struct {
	Port           string
	FrontendOrigin string
	PublicBaseURL  string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string

	JWTSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	GeminiAPIKey string

	UploadDir string

	// Bootstrap credentials for the General Administration admin account,
	// created at startup when the departments collection is empty.
	AdminEmail    string
	AdminPassword string
	AdminPhone    string

	// Per-citizen complaint creations allowed per day; 0 disables limiting.
	ComplaintDailyLimit int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "5001"),
		FrontendOrigin: getenv("FRONTEND_ORIGIN", "http://localhost:5173"),
		PublicBaseURL:  getenv("PUBLIC_BASE_URL", "http://localhost:5001"),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDatabase:  getenv("MONGO_DB", "civicvoice"),
		RedisAddr:      os.Getenv("REDIS_ADDRESS"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SMTPHost:       getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPUser:       os.Getenv("EMAIL_USER"),
		SMTPPassword:   os.Getenv("EMAIL_PASS"),
		TwilioSID:      os.Getenv("TWILIO_SID"),
		TwilioToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:     os.Getenv("TWILIO_PHONE"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AdminPhone:     os.Getenv("ADMIN_PHONE"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	port, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTPPort = port

	limit, err := strconv.Atoi(getenv("COMPLAINT_DAILY_LIMIT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMPLAINT_DAILY_LIMIT: %w", err)
	}
	cfg.ComplaintDailyLimit = limit

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
