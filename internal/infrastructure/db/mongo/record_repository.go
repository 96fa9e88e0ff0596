package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swasthya/child-health-system/internal/core/domain"
	"github.com/swasthya/child-health-system/internal/core/ports"
)

const recordsCollection = "child_health_records"

// RecordRepository persists health records in MongoDB.
type RecordRepository struct {
	coll *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{coll: db.Collection(recordsCollection)}
}

type mongoRecord struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	ChildName         string             `bson:"child_name"`
	Age               int                `bson:"age"`
	Gender            string             `bson:"gender"`
	WeightKg          float64            `bson:"weight_kg"`
	Symptoms          string             `bson:"symptoms,omitempty"`
	SchoolName        string             `bson:"school_name"`
	AnganwadiKendra   string             `bson:"anganwadi_kendra"`
	HealthStatus      string             `bson:"health_status"`
	SubmittedByUserID string             `bson:"submitted_by_user_id"`
	SubmittedBy       string             `bson:"submitted_by"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

// Create inserts a new health record document.
func (r *RecordRepository) Create(ctx context.Context, rec *domain.HealthRecord) (*domain.HealthRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoRecord(rec))
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	created := *rec
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *RecordRepository) FindByID(ctx context.Context, id string) (*domain.HealthRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRecord
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	return toDomainRecord(mr), nil
}

// List returns one page of records matching filter plus the total count,
// newest first.
func (r *RecordRepository) List(ctx context.Context, filter ports.ListRecordsFilter) ([]*domain.HealthRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildRecordFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Page-1) * int64(filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer cur.Close(ctx)

	records := make([]*domain.HealthRecord, 0, filter.Limit)
	for cur.Next(ctx) {
		var mr mongoRecord
		if err := cur.Decode(&mr); err != nil {
			return nil, 0, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, toDomainRecord(mr))
	}
	return records, total, cur.Err()
}

// Stats runs the dashboard aggregations: total count, per-status breakdown,
// top kendras by volume, and daily submission counts since the given time.
func (r *RecordRepository) Stats(ctx context.Context, topN int, since time.Time) (*ports.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("stats total: %w", err)
	}

	stats := &ports.DashboardStats{TotalRecords: total}

	statusPipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$health_status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	if err := r.aggregate(ctx, statusPipeline, &stats.StatusBreakdown); err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
	}

	kendraPipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$anganwadi_kendra"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		bson.D{{Key: "$limit", Value: topN}},
	}
	if err := r.aggregate(ctx, kendraPipeline, &stats.TopKendras); err != nil {
		return nil, fmt.Errorf("stats by kendra: %w", err)
	}

	dailyPipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$created_at"},
			}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
	}
	if err := r.aggregate(ctx, dailyPipeline, &stats.RecentSubmissions); err != nil {
		return nil, fmt.Errorf("stats by day: %w", err)
	}

	return stats, nil
}

// EnsureIndexes creates the indexes the list filters and stats rely on.
func (r *RecordRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "submitted_by_user_id", Value: 1}}},
		{Keys: bson.D{{Key: "health_status", Value: 1}}},
		{Keys: bson.D{{Key: "anganwadi_kendra", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *RecordRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

func buildRecordFilter(filter ports.ListRecordsFilter) bson.M {
	query := bson.M{}
	if filter.SubmittedByUserID != "" {
		query["submitted_by_user_id"] = filter.SubmittedByUserID
	}
	if filter.AnganwadiKendra != "" {
		query["anganwadi_kendra"] = primitive.Regex{Pattern: filter.AnganwadiKendra, Options: "i"}
	}
	if filter.HealthStatus != "" {
		query["health_status"] = filter.HealthStatus
	}

	created := bson.M{}
	if !filter.DateFrom.IsZero() {
		created["$gte"] = filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		created["$lte"] = filter.DateTo
	}
	if len(created) > 0 {
		query["created_at"] = created
	}
	return query
}

func toMongoRecord(rec *domain.HealthRecord) mongoRecord {
	return mongoRecord{
		ChildName:         rec.ChildName,
		Age:               rec.Age,
		Gender:            string(rec.Gender),
		WeightKg:          rec.WeightKg,
		Symptoms:          rec.Symptoms,
		SchoolName:        rec.SchoolName,
		AnganwadiKendra:   rec.AnganwadiKendra,
		HealthStatus:      string(rec.HealthStatus),
		SubmittedByUserID: rec.SubmittedByUserID,
		SubmittedBy:       rec.SubmittedBy,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}

func toDomainRecord(mr mongoRecord) *domain.HealthRecord {
	return &domain.HealthRecord{
		ID:                mr.ID.Hex(),
		ChildName:         mr.ChildName,
		Age:               mr.Age,
		Gender:            domain.Gender(mr.Gender),
		WeightKg:          mr.WeightKg,
		Symptoms:          mr.Symptoms,
		SchoolName:        mr.SchoolName,
		AnganwadiKendra:   mr.AnganwadiKendra,
		HealthStatus:      domain.HealthStatus(mr.HealthStatus),
		SubmittedByUserID: mr.SubmittedByUserID,
		SubmittedBy:       mr.SubmittedBy,
		CreatedAt:         mr.CreatedAt.UTC(),
		UpdatedAt:         mr.UpdatedAt.UTC(),
	}
}
