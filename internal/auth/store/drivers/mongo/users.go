package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type userDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	FirstName    string        `bson:"first_name"`
	LastName     string        `bson:"last_name"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash"`
	IsConfirmed  bool          `bson:"is_confirmed"`
	ConfirmOTP   *string       `bson:"confirm_otp"`
	Status       bool          `bson:"status"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

type usersRepo struct {
	coll *mongo.Collection
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, store.ErrNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *usersRepo) findOne(ctx context.Context, filter bson.D) (domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, store.ErrNotFound
		}
		return domain.User{}, err
	}
	return mapUser(doc), nil
}

func (r *usersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:           bson.NewObjectID(),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsConfirmed:  u.IsConfirmed,
		ConfirmOTP:   u.ConfirmOTP,
		Status:       u.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
		}
		return domain.User{}, err
	}
	return mapUser(doc), nil
}

func (r *usersRepo) ConfirmUser(ctx context.Context, userID, otp string) error {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return store.ErrNotFound
	}

	filter := bson.D{
		{Key: "_id", Value: oid},
		{Key: "is_confirmed", Value: false},
		{Key: "confirm_otp", Value: otp},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_confirmed", Value: true},
		{Key: "confirm_otp", Value: nil},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	return r.conditionalUpdate(ctx, oid, filter, update)
}

func (r *usersRepo) SetConfirmOTP(ctx context.Context, userID, otp string) error {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return store.ErrNotFound
	}

	filter := bson.D{
		{Key: "_id", Value: oid},
		{Key: "is_confirmed", Value: false},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_confirmed", Value: false},
		{Key: "confirm_otp", Value: otp},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	return r.conditionalUpdate(ctx, oid, filter, update)
}

func (r *usersRepo) SetStatus(ctx context.Context, userID string, active bool) error {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return store.ErrNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: active},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// conditionalUpdate applies update when filter matches, and otherwise reports
// ErrNotFound or ErrConflict depending on whether the user exists at all.
func (r *usersRepo) conditionalUpdate(ctx context.Context, oid bson.ObjectID, filter, update bson.D) error {
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrConflict
}

func mapUser(doc userDocument) domain.User {
	return domain.User{
		ID:           doc.ID.Hex(),
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		IsConfirmed:  doc.IsConfirmed,
		ConfirmOTP:   doc.ConfirmOTP,
		Status:       doc.Status,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
