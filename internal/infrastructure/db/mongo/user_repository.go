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

	"github.com/taskhive/taskhive/internal/core/domain"
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository backed by MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty"`
	Email                   string             `bson:"email"`
	Username                string             `bson:"username"`
	PasswordHash            string             `bson:"password_hash"`
	IsEmailVerified         bool               `bson:"is_email_verified"`
	EmailVerificationToken  string             `bson:"email_verification_token,omitempty"`
	EmailVerificationExpiry time.Time          `bson:"email_verification_expiry,omitempty"`
	PasswordResetToken      string             `bson:"password_reset_token,omitempty"`
	PasswordResetExpiry     time.Time          `bson:"password_reset_expiry,omitempty"`
	RefreshToken            string             `bson:"refresh_token,omitempty"`
	RefreshTokenExpiry      time.Time          `bson:"refresh_token_expiry,omitempty"`
	CreatedAt               time.Time          `bson:"created_at"`
	UpdatedAt               time.Time          `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		Email:                   u.Email,
		Username:                u.Username,
		PasswordHash:            u.PasswordHash,
		IsEmailVerified:         u.IsEmailVerified,
		EmailVerificationToken:  u.EmailVerificationToken,
		EmailVerificationExpiry: u.EmailVerificationExpiry,
		PasswordResetToken:      u.PasswordResetToken,
		PasswordResetExpiry:     u.PasswordResetExpiry,
		RefreshToken:            u.RefreshToken,
		RefreshTokenExpiry:      u.RefreshTokenExpiry,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                      mu.ID.Hex(),
		Email:                   mu.Email,
		Username:                mu.Username,
		PasswordHash:            mu.PasswordHash,
		IsEmailVerified:         mu.IsEmailVerified,
		EmailVerificationToken:  mu.EmailVerificationToken,
		EmailVerificationExpiry: mu.EmailVerificationExpiry,
		PasswordResetToken:      mu.PasswordResetToken,
		PasswordResetExpiry:     mu.PasswordResetExpiry,
		RefreshToken:            mu.RefreshToken,
		RefreshTokenExpiry:      mu.RefreshTokenExpiry,
		CreatedAt:               mu.CreatedAt,
		UpdatedAt:               mu.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByVerificationToken(ctx context.Context, tokenHash string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email_verification_token": tokenHash})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"password_reset_token": tokenHash})
}

func (r *UserRepository) FindByRefreshToken(ctx context.Context, tokenHash string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"refresh_token": tokenHash})
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	doc := toMongoUser(user)
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": doc})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// EnsureIndexes creates the uniqueness and token lookup indexes.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "refresh_token", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
