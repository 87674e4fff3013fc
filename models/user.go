package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a citizen account keyed by mobile number. The OTP hash and expiry
// are ephemeral and cleared after a successful verification.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Mobile     string             `bson:"mobile" json:"mobile"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	OTPHash    string             `bson:"otpHash,omitempty" json:"-"`
	OTPExpires *time.Time         `bson:"otpExpires,omitempty" json:"-"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
