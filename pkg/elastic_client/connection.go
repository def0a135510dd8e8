package elastic_client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/roadwatch/roadwatch/pkg/util"
	"github.com/rs/zerolog/log"
)

var Client *elasticsearch.Client
var bulkIndexer esutil.BulkIndexer

const alertIndexName = "roadwatch-alerts-1"

func Connect(required bool) error {
	env := util.GetEnvironmentVariables()

	if env["ROADWATCH_ELASTICSEARCH_ADDRESS"] == "" && !required {
		log.Info().Msg("Skipping Elasticsearch setup")
		return nil
	} else if env["ROADWATCH_ELASTICSEARCH_ADDRESS"] == "" && required {
		log.Fatal().Msg("Elasticsearch configuration not set")
	}

	retryBackoff := backoff.NewExponentialBackOff()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{env["ROADWATCH_ELASTICSEARCH_ADDRESS"]},
		Username:  env["ROADWATCH_ELASTICSEARCH_USERNAME"],
		Password:  env["ROADWATCH_ELASTICSEARCH_PASSWORD"],

		RetryOnStatus: []int{502, 503, 504, 429},

		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},
		MaxRetries: 5,
	})
	if err != nil {
		return err
	}

	_, err = es.Info()
	if err != nil {
		return err
	}

	Client = es

	bulkIndexer, err = esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        es,
		FlushInterval: 15 * time.Second,
	})
	if err != nil {
		return err
	}

	log.Info().Msgf("Elasticsearch client setup for %s", env["ROADWATCH_ELASTICSEARCH_ADDRESS"])

	return nil
}

func IndexRequest(indexName string, document io.ReadSeeker) {
	if Client == nil {
		return
	}

	bulkIndexer.Add(
		context.Background(),
		esutil.BulkIndexerItem{
			Index:  indexName,
			Action: "index",
			Body:   document,
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					log.Error().Err(err).Str("indexName", indexName).Msg("Failed to index document")
				} else {
					log.Error().Str("type", res.Error.Type).Str("reason", res.Error.Reason).Msg("Failed to index document")
				}
			},
		},
	)
}

// IndexAlert queues a dispatched alert record for indexing. A no-op when
// Elasticsearch isn't configured.
func IndexAlert(id string, document any) {
	if Client == nil {
		return
	}

	documentJSON, err := json.Marshal(document)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to marshal alert for indexing")
		return
	}

	IndexRequest(alertIndexName, bytes.NewReader(documentJSON))
}

func WaitUntilQueueEmpty() {
	if Client == nil {
		return
	}

	bulkIndexer.Close(context.Background())
}
