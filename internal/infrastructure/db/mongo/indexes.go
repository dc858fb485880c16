package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the indexes of every collection. Called once at
// startup; index creation is idempotent on the server side.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := NewProjectRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("project indexes: %w", err)
	}
	if err := NewTaskRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("task indexes: %w", err)
	}
	return nil
}
