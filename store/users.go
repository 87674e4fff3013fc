package store

import (
	"context"
	"time"

	"civicvoice-be/apperr"
	"civicvoice-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStore wraps the citizens collection.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "mobile", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *UserStore) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByMobile(ctx context.Context, mobile string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"mobile": mobile}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreate returns the citizen for the mobile number, creating the
// account on first contact.
func (s *UserStore) GetOrCreate(ctx context.Context, mobile string) (*models.User, error) {
	user, err := s.GetByMobile(ctx, mobile)
	if err == nil {
		return user, nil
	}
	if !apperr.IsKind(err, apperr.NotFound) {
		return nil, err
	}

	now := time.Now()
	created := &models.User{
		ID:        primitive.NewObjectID(),
		Mobile:    mobile,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.col.InsertOne(ctx, created); err != nil {
		// A concurrent first contact can win the unique-index race.
		if mongo.IsDuplicateKeyError(err) {
			return s.GetByMobile(ctx, mobile)
		}
		return nil, err
	}
	return created, nil
}

// SetOTP stores the hashed one-time password and its expiry.
func (s *UserStore) SetOTP(ctx context.Context, id primitive.ObjectID, hash string, expires time.Time) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"otpHash":    hash,
		"otpExpires": expires,
		"updatedAt":  time.Now(),
	}})
	return err
}

// ClearOTP removes the ephemeral OTP fields after use.
func (s *UserStore) ClearOTP(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$unset": bson.M{"otpHash": "", "otpExpires": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	})
	return err
}
