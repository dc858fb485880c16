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

const projectsCollection = "projects"

// ProjectRepository implements ports.ProjectRepository backed by MongoDB.
// Documents store the _id as a hex string generated at insert time so the
// domain layer never sees driver types.
type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection(projectsCollection)}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Project
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"members.user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cur.Close(ctx)

	var projects []*domain.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return projects, nil
}

// Update persists the mutable fields of a loaded project. The filter includes
// the loaded version; a miss on an existing document means a concurrent
// writer got there first.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": p.ID, "version": p.Version}
	update := bson.M{
		"$set": bson.M{
			"name":        p.Name,
			"description": p.Description,
			"members":     p.Members,
			"updated_at":  p.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missError(ctx, p.ID)
	}
	p.Version++
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// missError distinguishes a vanished document from a version conflict.
func (r *ProjectRepository) missError(ctx context.Context, id string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err == nil && n > 0 {
		return domain.ErrVersionConflict
	}
	return domain.ErrProjectNotFound
}

// EnsureIndexes creates the roster lookup index used by ListByMember.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "members.user_id", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
