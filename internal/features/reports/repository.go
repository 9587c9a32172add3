package reports

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flashreport/api/internal/pkg/apperror"
)

// Store is the persistence collaborator for reports. Absent reports come
// back as (nil, nil) from FindByID.
type Store interface {
	Insert(ctx context.Context, report *Report) error
	FindByID(ctx context.Context, id string) (*Report, error)
	Find(ctx context.Context, filter Filter) ([]Report, error)
	UpdateDetails(ctx context.Context, id string, update DetailsUpdate) (*Report, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Report, error)
	Delete(ctx context.Context, id string) error
}

// Repository is the MongoDB-backed report store.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("reports")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdOn", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Insert(ctx context.Context, report *Report) error {
	report.CreatedOn = time.Now()
	if report.Images == nil {
		report.Images = []Media{}
	}
	if report.Videos == nil {
		report.Videos = []Media{}
	}

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*Report, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "invalid report id")
	}

	var report Report
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&report); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *Repository) Find(ctx context.Context, filter Filter) ([]Report, error) {
	query := bson.M{}
	if !filter.Owner.IsZero() {
		query["createdBy"] = filter.Owner
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := r.collection.Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdOn", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []Report{}
	}
	return reports, nil
}

func (r *Repository) UpdateDetails(ctx context.Context, id string, update DetailsUpdate) (*Report, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "invalid report id")
	}

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Type != nil {
		set["type"] = *update.Type
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Comment != nil {
		set["comment"] = *update.Comment
	}
	if len(set) == 0 {
		return r.findExisting(ctx, oid)
	}

	return r.findOneAndUpdate(ctx, oid, bson.M{"$set": set})
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status) (*Report, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "invalid report id")
	}

	return r.findOneAndUpdate(ctx, oid, bson.M{"$set": bson.M{"status": status}})
}

func (r *Repository) findExisting(ctx context.Context, oid primitive.ObjectID) (*Report, error) {
	var report Report
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&report); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "Report not found")
		}
		return nil, err
	}
	return &report, nil
}

func (r *Repository) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (*Report, error) {
	var report Report
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "Report not found")
		}
		return nil, err
	}
	return &report, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperror.Wrap(apperror.ErrValidation, "invalid report id")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperror.Wrap(apperror.ErrNotFound, "Report not found")
	}
	return nil
}
