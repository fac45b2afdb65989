package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/loginshield/auth-api/internal/core/domain"
)

const userCollection = "auth_users"

// MongoUserRepository persists accounts in the auth_users collection.
// Case-insensitive uniqueness is enforced by a unique index on the
// lowercased username, written alongside the display form.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

// EnsureIndexes creates the unique username index. Call once at startup.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username_lower", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Username        string             `bson:"username"`
	UsernameLower   string             `bson:"username_lower"`
	PasswordHash    string             `bson:"password_hash"`
	IsMFAActive     bool               `bson:"is_mfa_active"`
	TwoFactorSecret string             `bson:"two_factor_secret,omitempty"`
	CreatedAt       int64              `bson:"created_at"`
	UpdatedAt       int64              `bson:"updated_at"`
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Username:      user.Username,
		UsernameLower: domain.NormalizeUsername(user.Username),
		PasswordHash:  user.PasswordHash,
		IsMFAActive:   user.IsMFAActive,
		CreatedAt:     user.CreatedAt.Unix(),
		UpdatedAt:     user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username_lower": domain.NormalizeUsername(username)})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &domain.User{
		ID:              mu.ID.Hex(),
		Username:        mu.Username,
		PasswordHash:    mu.PasswordHash,
		IsMFAActive:     mu.IsMFAActive,
		TwoFactorSecret: mu.TwoFactorSecret,
		CreatedAt:       unixToTime(mu.CreatedAt),
		UpdatedAt:       unixToTime(mu.UpdatedAt),
	}, nil
}

// SetTwoFactorSecret commits a fresh secret and the flag state in a single
// update so no reader ever observes one without the other.
func (r *MongoUserRepository) SetTwoFactorSecret(ctx context.Context, id, secret string, active bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"two_factor_secret": secret,
		"is_mfa_active":     active,
		"updated_at":        time.Now().UTC().Unix(),
	}})
	if err != nil {
		return fmt.Errorf("set 2fa secret: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ActivateMFA flips the flag only while the stored secret is still the one
// the caller verified a code against. A reset or re-setup that raced in
// between changes the secret and the update matches nothing.
func (r *MongoUserRepository) ActivateMFA(ctx context.Context, id, secret string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "two_factor_secret": secret},
		bson.M{"$set": bson.M{
			"is_mfa_active": true,
			"updated_at":    time.Now().UTC().Unix(),
		}})
	if err != nil {
		return fmt.Errorf("activate mfa: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMFAStateConflict
	}
	return nil
}

func (r *MongoUserRepository) ClearTwoFactor(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$unset": bson.M{"two_factor_secret": ""},
		"$set": bson.M{
			"is_mfa_active": false,
			"updated_at":    time.Now().UTC().Unix(),
		},
	})
	if err != nil {
		return fmt.Errorf("clear 2fa: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
