package store

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"civicvoice-be/apperr"
	"civicvoice-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ComplaintStore wraps the complaints collection. All status/counter
// mutations are single atomic field-level updates so concurrent requests
// against the same record cannot lose writes.
type ComplaintStore struct {
	col *mongo.Collection
}

func NewComplaintStore(db *mongo.Database) *ComplaintStore {
	return &ComplaintStore{col: db.Collection("complaints")}
}

// EnsureIndexes creates the 2dsphere index on locationGeo and the unique
// index on complaintId.
func (s *ComplaintStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "locationGeo", Value: "2dsphere"}},
		},
		{
			Keys:    bson.D{{Key: "complaintId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

// newComplaintID builds a short human-readable identifier from the clock,
// like the original CV-nnnnnn scheme.
func newComplaintID() string {
	return fmt.Sprintf("CV-%06d", time.Now().UnixMilli()%1_000_000)
}

// Create inserts the complaint, generating ID, complaintId and timestamps.
// A complaintId collision retries with a random suffix against the unique
// index.
func (s *ComplaintStore) Create(ctx context.Context, c *models.Complaint) error {
	now := time.Now()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.ComplaintID = newComplaintID()

	for attempt := 0; ; attempt++ {
		_, err := s.col.InsertOne(ctx, c)
		if err == nil {
			return nil
		}
		if mongo.IsDuplicateKeyError(err) && attempt < 5 {
			c.ComplaintID = fmt.Sprintf("CV-%06d", rand.Intn(1_000_000))
			continue
		}
		return err
	}
}

func (s *ComplaintStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	var c models.Complaint
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.New(apperr.NotFound, "Complaint not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// All returns every complaint, newest first.
func (s *ComplaintStore) All(ctx context.Context) ([]models.Complaint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var complaints []models.Complaint
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

// PublicComplaint is the projection exposed on the public map listing.
type PublicComplaint struct {
	ID           primitive.ObjectID     `bson:"_id" json:"id"`
	ComplaintID  string                 `bson:"complaintId" json:"complaintId"`
	IssueType    models.IssueType       `bson:"issueType" json:"issueType"`
	LocationText string                 `bson:"locationText" json:"locationText"`
	LocationGeo  models.GeoPoint        `bson:"locationGeo" json:"locationGeo"`
	Status       models.ComplaintStatus `bson:"status" json:"status"`
	Upvotes      int                    `bson:"upvotes" json:"upvotes"`
	CreatedAt    time.Time              `bson:"createdAt" json:"createdAt"`
}

func (s *ComplaintStore) Public(ctx context.Context) ([]PublicComplaint, error) {
	projection := bson.M{
		"complaintId":  1,
		"issueType":    1,
		"locationText": 1,
		"locationGeo":  1,
		"status":       1,
		"upvotes":      1,
		"createdAt":    1,
	}
	cursor, err := s.col.Find(ctx, bson.M{}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var complaints []PublicComplaint
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

// ComplaintSummary is the projection returned on a citizen's own listing.
type ComplaintSummary struct {
	ID          primitive.ObjectID     `bson:"_id" json:"id"`
	ComplaintID string                 `bson:"complaintId" json:"complaintId"`
	IssueType   models.IssueType       `bson:"issueType" json:"issueType"`
	Description string                 `bson:"description" json:"description"`
	Status      models.ComplaintStatus `bson:"status" json:"status"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
}

func (s *ComplaintStore) ByReporter(ctx context.Context, reporter primitive.ObjectID) ([]ComplaintSummary, error) {
	projection := bson.M{
		"complaintId": 1,
		"issueType":   1,
		"description": 1,
		"status":      1,
		"createdAt":   1,
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(projection)

	cursor, err := s.col.Find(ctx, bson.M{"reporter": reporter}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var complaints []ComplaintSummary
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

func (s *ComplaintStore) ByDepartment(ctx context.Context, department string) ([]models.Complaint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"assignedDepartment": department}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var complaints []models.Complaint
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

func (s *ComplaintStore) SetStatus(ctx context.Context, id primitive.ObjectID, status models.ComplaintStatus) error {
	return s.update(ctx, id, bson.M{"status": status})
}

// Assign moves the complaint to forwarded and records the department.
func (s *ComplaintStore) Assign(ctx context.Context, id primitive.ObjectID, department string) error {
	return s.update(ctx, id, bson.M{
		"status":             models.StatusForwarded,
		"assignedDepartment": department,
	})
}

// MarkEscalated is the sweep transition: escalated status, reassignment to
// General Administration, lastEscalatedAt stamped.
func (s *ComplaintStore) MarkEscalated(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return s.update(ctx, id, bson.M{
		"status":             models.StatusEscalated,
		"assignedDepartment": models.EscalationDepartment,
		"lastEscalatedAt":    at,
	})
}

func (s *ComplaintStore) update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Complaint not found")
	}
	return nil
}

// AddUpvote increments the counter and records the citizen in one guarded
// update; a citizen already present in upvoters yields Conflict. Returns the
// updated upvote count.
func (s *ComplaintStore) AddUpvote(ctx context.Context, id, citizen primitive.ObjectID) (int, error) {
	filter := bson.M{"_id": id, "upvoters": bson.M{"$ne": citizen}}
	update := bson.M{
		"$inc":      bson.M{"upvotes": 1},
		"$addToSet": bson.M{"upvoters": citizen},
		"$set":      bson.M{"updatedAt": time.Now()},
	}

	var updated models.Complaint
	err := s.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == nil {
		return updated.Upvotes, nil
	}
	if err != mongo.ErrNoDocuments {
		return 0, err
	}

	count, err := s.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, apperr.New(apperr.NotFound, "Complaint not found")
	}
	return 0, apperr.New(apperr.Conflict, "Already upvoted")
}

// UpsertRating updates the citizen's existing rating entry in place, or
// appends one guarded against duplicates. Each step is a single atomic
// update.
func (s *ComplaintStore) UpsertRating(ctx context.Context, id, citizen primitive.ObjectID, value int) error {
	now := time.Now()
	setExisting := func() (bool, error) {
		res, err := s.col.UpdateOne(ctx,
			bson.M{"_id": id, "ratings.user": citizen},
			bson.M{"$set": bson.M{"ratings.$.value": value, "updatedAt": now}})
		if err != nil {
			return false, err
		}
		return res.MatchedCount > 0, nil
	}

	if ok, err := setExisting(); err != nil || ok {
		return err
	}

	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "ratings.user": bson.M{"$ne": citizen}},
		bson.M{
			"$push": bson.M{"ratings": models.Rating{User: citizen, Value: value}},
			"$set":  bson.M{"updatedAt": now},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// The push can lose a race against a concurrent first rating from the
	// same citizen; the entry exists now, so the positional set applies.
	if ok, err := setExisting(); err != nil || ok {
		return err
	}
	return apperr.New(apperr.NotFound, "Complaint not found")
}

// FindStale returns complaints sitting in forwarded/in_progress whose last
// modification predates the cutoff. Escalated records never match, so a
// sweep cannot re-escalate within one cycle.
func (s *ComplaintStore) FindStale(ctx context.Context, before time.Time) ([]models.Complaint, error) {
	filter := bson.M{
		"status":    bson.M{"$in": []models.ComplaintStatus{models.StatusForwarded, models.StatusInProgress}},
		"updatedAt": bson.M{"$lte": before},
	}
	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var complaints []models.Complaint
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

// Bucket is one aggregation group in the analytics breakdowns.
type Bucket struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// Analytics is the admin dashboard payload.
type Analytics struct {
	TotalComplaints       int64    `json:"totalComplaints"`
	StatusBreakdown       []Bucket `json:"statusBreakdown"`
	DepartmentBreakdown   []Bucket `json:"departmentBreakdown"`
	EscalatedComplaints   int64    `json:"escalatedComplaints"`
	AverageResolutionDays float64  `json:"averageResolutionDays"`
}

func (s *ComplaintStore) Analytics(ctx context.Context) (*Analytics, error) {
	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	statusBreakdown, err := s.groupBy(ctx, "$status")
	if err != nil {
		return nil, err
	}
	departmentBreakdown, err := s.groupBy(ctx, "$assignedDepartment")
	if err != nil {
		return nil, err
	}

	escalated, err := s.col.CountDocuments(ctx, bson.M{"status": models.StatusEscalated})
	if err != nil {
		return nil, err
	}

	avgDays, err := s.averageResolutionDays(ctx)
	if err != nil {
		return nil, err
	}

	return &Analytics{
		TotalComplaints:       total,
		StatusBreakdown:       statusBreakdown,
		DepartmentBreakdown:   departmentBreakdown,
		EscalatedComplaints:   escalated,
		AverageResolutionDays: avgDays,
	}, nil
}

func (s *ComplaintStore) groupBy(ctx context.Context, field string) ([]Bucket, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
	}
	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buckets []Bucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (s *ComplaintStore) averageResolutionDays(ctx context.Context) (float64, error) {
	projection := bson.M{"createdAt": 1, "updatedAt": 1}
	cursor, err := s.col.Find(ctx, bson.M{"status": models.StatusResolved},
		options.Find().SetProjection(projection))
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var resolved []struct {
		CreatedAt time.Time `bson:"createdAt"`
		UpdatedAt time.Time `bson:"updatedAt"`
	}
	if err := cursor.All(ctx, &resolved); err != nil {
		return 0, err
	}
	if len(resolved) == 0 {
		return 0, nil
	}

	var totalDays float64
	for _, c := range resolved {
		totalDays += c.UpdatedAt.Sub(c.CreatedAt).Hours() / 24
	}
	return totalDays / float64(len(resolved)), nil
}
