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
	"github.com/taskhive/taskhive/internal/core/ports"
)

const tasksCollection = "tasks"

// TaskRepository implements ports.TaskRepository backed by MongoDB. Subtasks
// and attachments live as embedded arrays on the task document; element
// operations address them by their task-scoped _id.
type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if t.ID == "" {
		t.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	return r.findOne(ctx, bson.M{"_id": taskID, "project_id": projectID}, domain.ErrTaskNotFound)
}

func (r *TaskRepository) FindBySubtask(ctx context.Context, projectID, subtaskID string) (*domain.Task, error) {
	return r.findOne(ctx, bson.M{"project_id": projectID, "subtasks._id": subtaskID}, domain.ErrSubtaskNotFound)
}

func (r *TaskRepository) List(ctx context.Context, filter ports.ListTasksFilter) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"project_id": filter.ProjectID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.AssignedTo != "" {
		query["assigned_to"] = filter.AssignedTo
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}

	order := 1
	if filter.SortDesc {
		order = -1
	}
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: order}})

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)

	var tasks []*domain.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": t.ID, "version": t.Version}
	set := bson.M{
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status,
		"priority":    t.Priority,
		"updated_at":  t.UpdatedAt,
	}
	unset := bson.M{}
	if t.AssignedTo != "" {
		set["assigned_to"] = t.AssignedTo
	} else {
		unset["assigned_to"] = ""
	}
	if t.DueDate != nil {
		set["due_date"] = t.DueDate
	} else {
		unset["due_date"] = ""
	}

	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missError(ctx, t.ID)
	}
	t.Version++
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, projectID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": taskID, "project_id": projectID})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return fmt.Errorf("delete project tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) AddSubtask(ctx context.Context, taskID string, version int64, st domain.Subtask) error {
	return r.versionedUpdate(ctx, taskID, version, bson.M{
		"$push": bson.M{"subtasks": st},
	})
}

func (r *TaskRepository) UpdateSubtask(ctx context.Context, taskID string, version int64, st domain.Subtask) error {
	return r.versionedUpdate(ctx, taskID, version, bson.M{
		"$set": bson.M{
			"subtasks.$[st].title":        st.Title,
			"subtasks.$[st].is_completed": st.IsCompleted,
			"subtasks.$[st].updated_at":   st.UpdatedAt,
		},
	}, options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"st._id": st.ID}},
	}))
}

func (r *TaskRepository) RemoveSubtask(ctx context.Context, taskID string, version int64, subtaskID string) error {
	return r.versionedUpdate(ctx, taskID, version, bson.M{
		"$pull": bson.M{"subtasks": bson.M{"_id": subtaskID}},
	})
}

func (r *TaskRepository) AddAttachment(ctx context.Context, taskID string, version int64, a domain.Attachment) error {
	return r.versionedUpdate(ctx, taskID, version, bson.M{
		"$push": bson.M{"attachments": a},
	})
}

func (r *TaskRepository) RemoveAttachment(ctx context.Context, taskID string, version int64, attachmentID string) error {
	return r.versionedUpdate(ctx, taskID, version, bson.M{
		"$pull": bson.M{"attachments": bson.M{"_id": attachmentID}},
	})
}

// versionedUpdate applies update to the task guarded by the loaded version,
// bumping both the version and updated_at.
func (r *TaskRepository) versionedUpdate(ctx context.Context, taskID string, version int64, update bson.M, opts ...*options.UpdateOptions) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update["$inc"] = bson.M{"version": 1}
	if set, ok := update["$set"].(bson.M); ok {
		set["updated_at"] = time.Now().UTC()
	} else {
		update["$set"] = bson.M{"updated_at": time.Now().UTC()}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": taskID, "version": version}, update, opts...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missError(ctx, taskID)
	}
	return nil
}

func (r *TaskRepository) findOne(ctx context.Context, filter bson.M, notFound error) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Task
	if err := r.coll.FindOne(ctx, filter).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &t, nil
}

func (r *TaskRepository) missError(ctx context.Context, id string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err == nil && n > 0 {
		return domain.ErrVersionConflict
	}
	return domain.ErrTaskNotFound
}

// EnsureIndexes creates the query path indexes for task listings and nested
// element lookups.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "assigned_to", Value: 1}}},
		{Keys: bson.D{{Key: "subtasks._id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
