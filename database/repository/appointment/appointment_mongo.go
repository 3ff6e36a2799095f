package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAppointmentRepo stores appointments keyed by their UUID "id" field.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo wraps db's appointments collection and ensures its indexes.
func NewMongoAppointmentRepo(db *mongo.Database) (*MongoAppointmentRepo, error) {
	r := &MongoAppointmentRepo{coll: db.Collection(AppointmentsCollection)}
	if err := r.ensureIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}

// Create assigns an id and timestamps when missing, then inserts appt.
func (r *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	stampAppointment(appt, time.Now())
	_, err := r.coll.InsertOne(ctx, appt)
	return err
}

func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// List returns the most recent appointments first.
func (r *MongoAppointmentRepo) List(ctx context.Context, limit int) ([]models.Appointment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(ClampLimit(limit)))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func stampAppointment(appt *models.Appointment, now time.Time) {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now
}
