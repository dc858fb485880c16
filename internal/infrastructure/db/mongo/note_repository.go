package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/taskhive/internal/core/domain"
)

const notesCollection = "notes"

// NoteRepository implements ports.NoteRepository backed by MongoDB.
type NoteRepository struct {
	coll *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{coll: db.Collection(notesCollection)}
}

func (r *NoteRepository) Create(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if n.ID == "" {
		n.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

// FindByID looks the note up by id alone; the service layer verifies the
// project reference afterwards.
func (r *NoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n domain.Note
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return &n, nil
}

func (r *NoteRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cur.Close(ctx)

	var notes []*domain.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, n *domain.Note) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":      n.Title,
		"content":    n.Content,
		"updated_at": n.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": n.ID}, update)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) DeleteByProject(ctx context.Context, projectID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return fmt.Errorf("delete project notes: %w", err)
	}
	return nil
}
