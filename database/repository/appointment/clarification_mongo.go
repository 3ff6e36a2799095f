package appointmentRepo

import (
	"context"
	"time"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoClarificationRepo keeps the log of requests that ended in a clarification.
type MongoClarificationRepo struct {
	coll *mongo.Collection
}

func NewMongoClarificationRepo(db *mongo.Database) (*MongoClarificationRepo, error) {
	r := &MongoClarificationRepo{coll: db.Collection(ClarificationsCollection)}
	if err := r.ensureIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *MongoClarificationRepo) Create(ctx context.Context, entry *models.ClarificationLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, entry)
	return err
}
