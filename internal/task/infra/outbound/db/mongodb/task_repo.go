// en internal/task/infra/outbound/db/mongodb/task_repo.go
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedDomain "github.com/davicafu/mstask/internal/shared/domain"
	sharedQuery "github.com/davicafu/mstask/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/mstask/internal/task/domain"
)

const TasksCollection = "tasks"

// TaskRepoMongoDB implementa la interfaz TaskRepository para MongoDB.
type TaskRepoMongoDB struct {
	tasksColl *mongo.Collection
	now       func() time.Time
}

// NewTaskRepoMongoDB es el constructor del repositorio.
func NewTaskRepoMongoDB(db *mongo.Database) *TaskRepoMongoDB {
	return &TaskRepoMongoDB{
		tasksColl: db.Collection(TasksCollection),
		// Mongo guarda milisegundos; truncamos para devolver lo mismo que se lee después.
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	User        string             `bson:"user"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	State       string             `bson:"state"`
	Priority    string             `bson:"priority"`
	DueDate     string             `bson:"dueDate"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// bsonFields traduce los nombres lógicos del dominio a los del documento.
var bsonFields = map[string]string{
	taskDomain.FieldUser:        "user",
	taskDomain.FieldName:        "name",
	taskDomain.FieldDescription: "description",
	taskDomain.FieldState:       "state",
	taskDomain.FieldPriority:    "priority",
	taskDomain.FieldDueDate:     "dueDate",
	taskDomain.FieldCreatedAt:   "createdAt",
	taskDomain.FieldUpdatedAt:   "updatedAt",
}

// EnsureIndexes crea el índice de los listados por usuario.
func (r *TaskRepoMongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := r.tasksColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "state", Value: 1},
			{Key: "priority", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	})
	return err
}

// --- Escritura ---

func (r *TaskRepoMongoDB) Create(ctx context.Context, t *taskDomain.Task) error {
	now := r.now()
	mt := toMongoTask(t)
	mt.ID = primitive.NewObjectID()
	mt.CreatedAt = now
	mt.UpdatedAt = now

	if _, err := r.tasksColl.InsertOne(ctx, mt); err != nil {
		return err
	}

	t.ID = mt.ID.Hex()
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (r *TaskRepoMongoDB) Update(ctx context.Context, id string, patch taskDomain.TaskPatch) (*taskDomain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, taskDomain.ErrTaskNotFound
	}

	set := bson.M{"updatedAt": r.now()}
	for _, u := range patch.Updates() {
		set[bsonFields[u.Field]] = u.Value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mt mongoTask
	err = r.tasksColl.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return fromMongoTask(&mt), nil
}

func (r *TaskRepoMongoDB) DeleteByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, taskDomain.ErrTaskNotFound
	}

	var mt mongoTask
	if err := r.tasksColl.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		return nil, notFoundOr(err)
	}
	return fromMongoTask(&mt), nil
}

// --- Lectura ---

func (r *TaskRepoMongoDB) GetByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	// Un id que no es ObjectID no puede existir en la colección.
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, taskDomain.ErrTaskNotFound
	}

	var mt mongoTask
	if err := r.tasksColl.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		return nil, notFoundOr(err)
	}
	return fromMongoTask(&mt), nil
}

func (r *TaskRepoMongoDB) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort) ([]*taskDomain.Task, error) {
	filter, err := criteriaToMongoFilter(criteria)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if sort.Field != "" {
		sortDir := 1 // Ascendente por defecto
		if sort.Desc {
			sortDir = -1
		}
		// _id como desempate: los ObjectID crecen con la inserción.
		opts.SetSort(bson.D{{Key: bsonFields[sort.Field], Value: sortDir}, {Key: "_id", Value: sortDir}})
	}

	cursor, err := r.tasksColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []*taskDomain.Task{}
	for cursor.Next(ctx) {
		var mt mongoTask
		if err := cursor.Decode(&mt); err != nil {
			return nil, err
		}
		tasks = append(tasks, fromMongoTask(&mt))
	}

	return tasks, cursor.Err()
}

// --- Helpers de Mapeo y Conversión ---

func notFoundOr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return taskDomain.ErrTaskNotFound
	}
	return err
}

func toMongoTask(t *taskDomain.Task) *mongoTask {
	return &mongoTask{
		User: t.User, Name: t.Name, Description: t.Description,
		State: string(t.State), Priority: string(t.Priority), DueDate: t.DueDate,
		CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
}

func fromMongoTask(mt *mongoTask) *taskDomain.Task {
	return &taskDomain.Task{
		ID: mt.ID.Hex(), User: mt.User, Name: mt.Name, Description: mt.Description,
		State: taskDomain.TaskState(mt.State), Priority: taskDomain.TaskPriority(mt.Priority), DueDate: mt.DueDate,
		CreatedAt: mt.CreatedAt.UTC(), UpdatedAt: mt.UpdatedAt.UTC(),
	}
}

func criteriaToMongoFilter(criteria sharedDomain.Criteria) (bson.D, error) {
	filter := bson.D{}
	if criteria == nil {
		return filter, nil
	}

	for _, c := range criteria.ToConditions() {
		field, ok := bsonFields[c.Field]
		if !ok {
			return nil, fmt.Errorf("unsupported filter field %q", c.Field)
		}
		switch c.Op {
		case sharedDomain.OpEq:
			filter = append(filter, bson.E{Key: field, Value: bson.M{"$eq": c.Value}})
		default:
			return nil, fmt.Errorf("unsupported operator %q", c.Op)
		}
	}
	return filter, nil
}

var _ taskDomain.TaskRepository = (*TaskRepoMongoDB)(nil)
