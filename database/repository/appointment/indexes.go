package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes covers lookup by id and the newest-first listing.
func (r *MongoAppointmentRepo) ensureIndexes() error {
	return createIndexes(r.coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "department", Value: 1}, {Key: "date", Value: 1}}},
	})
}

func (r *MongoClarificationRepo) ensureIndexes() error {
	return createIndexes(r.coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "reason", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
}

func createIndexes(coll *mongo.Collection, indexModels []mongo.IndexModel) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
	}
	return nil
}
