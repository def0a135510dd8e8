package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createIndexes() {
	createTrafficAlertsIndexes()
}

func createTrafficAlertsIndexes() {
	trafficAlertsCollection := GetCollection("traffic_alerts")
	trafficAlertsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "type", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := trafficAlertsCollection.Indexes().CreateMany(context.Background(), trafficAlertsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
