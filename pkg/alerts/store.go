package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/roadwatch/roadwatch/pkg/database"
	"github.com/roadwatch/roadwatch/pkg/elastic_client"
	"github.com/roadwatch/roadwatch/pkg/geo"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "traffic_alerts"

// PersistenceError wraps a failed write to the alert history store.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist alert: %s", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Record is the stored shape of a dispatched alert.
type Record struct {
	PrimaryIdentifier string `groups:"detailed" json:"id" bson:"primaryidentifier"`

	Type         AlertType       `groups:"basic" json:"type" bson:"type"`
	LocationName string          `groups:"basic" json:"location_name" bson:"location_name"`
	TimeAway     string          `groups:"basic" json:"time_away" bson:"time_away"`
	Coordinates  geo.Coordinates `groups:"basic" json:"coordinates" bson:"coordinates"`
	Severity     Severity        `groups:"basic" json:"severity" bson:"severity"`
	Description  string          `groups:"basic" json:"description" bson:"description"`

	UserID string `groups:"detailed" json:"user_id,omitempty" bson:"user_id,omitempty"`

	CreatedAt time.Time `groups:"basic" json:"created_at" bson:"created_at"`
}

// Store is the append-only history of dispatched alerts. There is no
// update or delete path.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Insert(ctx context.Context, alert Alert, userID string) error {
	record := Record{
		PrimaryIdentifier: alert.PrimaryIdentifier,

		Type:         alert.Type,
		LocationName: alert.LocationName,
		TimeAway:     alert.TimeAway(),
		Coordinates:  alert.Coordinates,
		Severity:     alert.Severity,
		Description:  alert.Description,

		UserID: userID,

		CreatedAt: time.Now(),
	}

	collection := database.GetCollection(collectionName)
	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		return &PersistenceError{Err: err}
	}

	elastic_client.IndexAlert(record.PrimaryIdentifier, record)

	log.Debug().
		Str("id", record.PrimaryIdentifier).
		Str("type", string(record.Type)).
		Msg("Saved alert")

	return nil
}

// List returns stored alerts newest first, optionally for a single user.
func (s *Store) List(ctx context.Context, userID string) ([]Record, error) {
	searchQuery := bson.M{}
	if userID != "" {
		searchQuery["user_id"] = userID
	}

	collection := database.GetCollection(collectionName)
	cursor, err := collection.Find(ctx, searchQuery,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	return records, nil
}

// Nearby returns alerts from the last 24 hours within radiusMiles of the
// given point. The radius filter runs over the recent window in-process
// rather than as a geospatial query - the window is small.
func (s *Store) Nearby(ctx context.Context, point geo.Coordinates, radiusMiles float64) ([]Record, error) {
	cutOffTime := time.Now().Add(-24 * time.Hour)

	collection := database.GetCollection(collectionName)
	cursor, err := collection.Find(ctx,
		bson.M{"created_at": bson.M{"$gte": cutOffTime}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	var nearby []Record
	for _, record := range records {
		if geo.DistanceMiles(point, record.Coordinates) <= radiusMiles {
			nearby = append(nearby, record)
		}
	}

	return nearby, nil
}
