package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"civicvoice-be/ai"
	"civicvoice-be/apperr"
	"civicvoice-be/config"
	"civicvoice-be/controllers"
	"civicvoice-be/geocode"
	"civicvoice-be/lifecycle"
	"civicvoice-be/middlewares"
	"civicvoice-be/models"
	"civicvoice-be/notify"
	"civicvoice-be/routes"
	"civicvoice-be/scheduler"
	"civicvoice-be/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	client, db, err := config.ConnectMongo(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	log.Println("MongoDB connection established successfully!")

	redisClient, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if redisClient == nil {
		log.Println("Redis not configured; rate limiting disabled")
	}

	complaints := store.NewComplaintStore(db)
	users := store.NewUserStore(db)
	departments := store.NewDepartmentStore(db)

	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	for _, ensure := range []func(context.Context) error{
		complaints.EnsureIndexes, users.EnsureIndexes, departments.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
	}

	if err := seedAdmin(indexCtx, cfg, departments); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	notifier := notify.NewService(
		notify.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		notify.NewSMSSender(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom),
	)
	directory := notify.NewDirectory(cfg.SMTPUser, nil)

	engine := lifecycle.New(complaints, users, notifier, directory, cfg.PublicBaseURL)

	escalator := scheduler.NewEscalator(complaints, engine)
	if err := escalator.Start(); err != nil {
		log.Fatalf("Failed to start escalation scheduler: %v", err)
	}
	defer escalator.Stop()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload dir: %v", err)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "X-Requested-With"},
		AllowCredentials: true,
	}))
	r.Static("/uploads", cfg.UploadDir)

	secret := []byte(cfg.JWTSecret)
	auth := middlewares.Auth(secret, users, departments)
	staff := middlewares.RequireStaff()
	creationLimiter := middlewares.RateLimiter(redisClient, "complaint_limit", cfg.ComplaintDailyLimit, 24*time.Hour)
	otpLimiter := middlewares.IPRateLimiter(redisClient, "otp_limit", 5, time.Hour)

	routes.AuthRoutes(r, controllers.NewAuthController(users, notifier, secret), auth, otpLimiter)
	routes.ComplaintRoutes(r, controllers.NewComplaintController(complaints, engine, geocode.NewClient()), auth, creationLimiter)
	routes.AdminRoutes(r, controllers.NewAdminController(complaints, engine), auth, staff)
	routes.DepartmentRoutes(r, controllers.NewDepartmentController(departments, complaints, engine, secret), auth, staff)
	routes.MediaRoutes(r, controllers.NewMediaController(cfg.UploadDir), auth)
	routes.AIRoutes(r, controllers.NewAIController(ai.NewClient(cfg.GeminiAPIKey)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedAdmin bootstraps the General Administration admin account so the
// staff-only department registration route is reachable on a fresh
// database.
func seedAdmin(ctx context.Context, cfg *config.Config, departments *store.DepartmentStore) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	count, err := departments.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.Department{
		Name:     models.EscalationDepartment,
		Email:    cfg.AdminEmail,
		Phone:    cfg.AdminPhone,
		Password: cfg.AdminPassword,
		Role:     models.RoleAdmin,
	}
	if err := admin.HashPassword(); err != nil {
		return err
	}
	if err := departments.Create(ctx, &admin); err != nil {
		if apperr.IsKind(err, apperr.Conflict) {
			return nil
		}
		return err
	}

	log.Printf("Seeded admin account %s", cfg.AdminEmail)
	return nil
}
