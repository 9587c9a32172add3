package auth

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

// ProfileUpdate carries the user fields mutable through profile/manage
// endpoints. Role is deliberately absent: it only moves through
// promote/demote.
type ProfileUpdate struct {
	Firstname   *string `json:"firstname" binding:"omitempty,max=50"`
	Lastname    *string `json:"lastname" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=50"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,max=15"`
}

// CredentialStore is the credential collaborator: user identity, password
// hash and role lookups. Absent users come back as (nil, nil).
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	FindByRole(ctx context.Context, role Role) ([]User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	Create(ctx context.Context, user *User) error
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	UpdateRole(ctx context.Context, id string, role Role) (*User, error)
	Delete(ctx context.Context, id string) error
}

// Repository is the MongoDB-backed credential store.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository and creates the unique indexes
// backing the username/email invariants.
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("users")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
	})

	return &Repository{collection: collection}
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "invalid user id")
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CountByRole(ctx context.Context, role Role) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"role": role})
}

func (r *Repository) FindByRole(ctx context.Context, role Role) ([]User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"role": role},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (r *Repository) List(ctx context.Context, offset, limit int) ([]User, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	if users == nil {
		users = []User{}
	}
	return users, total, nil
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Wrap(apperror.ErrConflict, "username or email is already taken")
		}
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *Repository) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "invalid user id")
	}

	set := bson.M{"updatedAt": time.Now()}
	if update.Firstname != nil {
		set["firstname"] = *update.Firstname
	}
	if update.Lastname != nil {
		set["lastname"] = *update.Lastname
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.PhoneNumber != nil {
		set["phoneNumber"] = *update.PhoneNumber
	}

	return r.findOneAndUpdate(ctx, oid, bson.M{"$set": set})
}

func (r *Repository) UpdateRole(ctx context.Context, id string, role Role) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "invalid user id")
	}

	return r.findOneAndUpdate(ctx, oid, bson.M{
		"$set": bson.M{"role": role, "updatedAt": time.Now()},
	})
}

func (r *Repository) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (*User, error) {
	var user User
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "User not found")
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.Wrap(apperror.ErrConflict, "email is already in use")
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperror.Wrap(apperror.ErrValidation, "invalid user id")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperror.Wrap(apperror.ErrNotFound, "User not found")
	}
	return nil
}
