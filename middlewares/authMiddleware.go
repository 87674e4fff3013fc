package middlewares

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"civicvoice-be/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the resolved caller: exactly one of Citizen or Department is
// set. Handlers receive it instead of re-inspecting claims.
type Identity struct {
	Citizen    *models.User
	Department *models.Department
}

// IsStaff reports whether the caller is a department or admin account.
func (i Identity) IsStaff() bool { return i.Department != nil }

const identityKey = "identity"

// IdentityFrom returns the identity the auth middleware attached.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// UserResolver and DepartmentResolver look up the account a token claims to
// be; a credential whose identity no longer resolves is rejected.
type UserResolver interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type DepartmentResolver interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Department, error)
}

// Auth validates the bearer token and attaches the resolved Identity to the
// request context.
func Auth(secret []byte, users UserResolver, departments DepartmentResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		tokenString := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader[7:]
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			log.Printf("Token validation failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalid or expired"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		idStr, _ := claims["id"].(string)
		role, _ := claims["role"].(string)

		accountID, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var identity Identity
		switch role {
		case models.RoleDepartment, models.RoleAdmin:
			dept, err := departments.Get(ctx, accountID)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
				c.Abort()
				return
			}
			identity.Department = dept
		default:
			user, err := users.Get(ctx, accountID)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
				c.Abort()
				return
			}
			identity.Citizen = user
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireStaff rejects citizen callers on admin/department routes.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok || !identity.IsStaff() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Staff access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCitizen rejects staff callers on citizen-only routes.
func RequireCitizen() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok || identity.Citizen == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Citizen access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
