package store

import (
	"context"
	"strings"
	"time"

	"civicvoice-be/apperr"
	"civicvoice-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DepartmentStore wraps the department accounts collection.
type DepartmentStore struct {
	col *mongo.Collection
}

func NewDepartmentStore(db *mongo.Database) *DepartmentStore {
	return &DepartmentStore{col: db.Collection("departments")}
}

func (s *DepartmentStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts a department account; the email is normalized first.
// A duplicate email yields Conflict.
func (s *DepartmentStore) Create(ctx context.Context, d *models.Department) error {
	now := time.Now()
	d.ID = primitive.NewObjectID()
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.New(apperr.Conflict, "Department already exists")
		}
		return err
	}
	return nil
}

func (s *DepartmentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Department, error) {
	var d models.Department
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "Department not found")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DepartmentStore) GetByEmail(ctx context.Context, email string) (*models.Department, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var d models.Department
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "Department not found")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DepartmentInfo is the dashboard projection.
type DepartmentInfo struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Phone string             `bson:"phone" json:"phone"`
}

func (s *DepartmentStore) List(ctx context.Context) ([]DepartmentInfo, error) {
	projection := bson.M{"name": 1, "email": 1, "phone": 1}
	cursor, err := s.col.Find(ctx, bson.M{}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var departments []DepartmentInfo
	if err := cursor.All(ctx, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

func (s *DepartmentStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
