package controllers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"regexp"
	"time"

	"civicvoice-be/notify"
	authUtils "civicvoice-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicvoice-be/middlewares"
	"civicvoice-be/models"
)

var mobileRegex = regexp.MustCompile(`^(\+91)?\s?\d{10}$`)

const otpTTL = 5 * time.Minute

// UserStore is the citizen persistence surface the OTP flow needs.
type UserStore interface {
	GetOrCreate(ctx context.Context, mobile string) (*models.User, error)
	GetByMobile(ctx context.Context, mobile string) (*models.User, error)
	SetOTP(ctx context.Context, id primitive.ObjectID, hash string, expires time.Time) error
	ClearOTP(ctx context.Context, id primitive.ObjectID) error
}

type AuthController struct {
	users     UserStore
	notifier  notify.Notifier
	jwtSecret []byte
}

func NewAuthController(users UserStore, notifier notify.Notifier, jwtSecret []byte) *AuthController {
	return &AuthController{users: users, notifier: notifier, jwtSecret: jwtSecret}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func hashOTP(otp string) string {
	sum := sha256.Sum256([]byte(otp))
	return hex.EncodeToString(sum[:])
}

// RequestOTP creates the citizen on first contact, stores a hashed one-time
// code with a 5-minute expiry, and texts the code. An SMS delivery failure
// is the caller's problem here: without it the citizen cannot log in.
func (ac *AuthController) RequestOTP(c *gin.Context) {
	var input struct {
		Mobile string `json:"mobile" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mobile number required"})
		return
	}
	if !mobileRegex.MatchString(input.Mobile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mobile number format"})
		return
	}
	if input.Mobile == "1234567890" || input.Mobile == "0000000000" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a real mobile number."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := ac.users.GetOrCreate(ctx, input.Mobile)
	if err != nil {
		writeError(c, err)
		return
	}

	otp, err := generateOTP()
	if err != nil {
		writeError(c, err)
		return
	}
	if err := ac.users.SetOTP(ctx, user.ID, hashOTP(otp), time.Now().Add(otpTTL)); err != nil {
		writeError(c, err)
		return
	}

	if err := ac.notifier.SendSMS(ctx, input.Mobile, notify.OTPSMS(otp)); err != nil {
		log.Printf("OTP SMS failed for %s: %v", input.Mobile, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not send SMS. Is the number correct?"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully", "mobile": input.Mobile})
}

// VerifyOTP checks the submitted code against the stored hash and expiry,
// clears the ephemeral fields, and issues a citizen bearer token.
func (ac *AuthController) VerifyOTP(c *gin.Context) {
	var input struct {
		Mobile string `json:"mobile" binding:"required"`
		OTP    string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mobile and OTP required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := ac.users.GetByMobile(ctx, input.Mobile)
	if err != nil {
		writeError(c, err)
		return
	}

	valid := user.OTPHash != "" &&
		user.OTPHash == hashOTP(input.OTP) &&
		user.OTPExpires != nil &&
		user.OTPExpires.After(time.Now())
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
		return
	}

	if err := ac.users.ClearOTP(ctx, user.ID); err != nil {
		writeError(c, err)
		return
	}

	token, err := authUtils.GenerateToken(user.ID.Hex(), models.RoleCitizen, ac.jwtSecret)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "OTP verified successfully",
		"token":   token,
		"user":    gin.H{"id": user.ID, "mobile": user.Mobile},
	})
}

// GetMe returns the authenticated citizen's account.
func (ac *AuthController) GetMe(c *gin.Context) {
	identity, _ := middlewares.IdentityFrom(c)
	if identity.Citizen == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, identity.Citizen)
}
