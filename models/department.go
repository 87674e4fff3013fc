package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Department roles carried in the JWT role claim.
const (
	RoleCitizen    = "citizen"
	RoleDepartment = "department"
	RoleAdmin      = "admin"
)

// Department is an admin-provisioned login to which complaints are routed,
// distinct from citizen accounts.
type Department struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (d *Department) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	d.Password = string(hashed)
	return nil
}

func (d *Department) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(d.Password), []byte(candidate))
	return err == nil
}
