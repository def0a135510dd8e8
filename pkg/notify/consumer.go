package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
)

type DispatchBatchConsumer struct {
	Dispatcher *Dispatcher
}

func NewDispatchBatchConsumer(dispatcher *Dispatcher) *DispatchBatchConsumer {
	return &DispatchBatchConsumer{Dispatcher: dispatcher}
}

func (c *DispatchBatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	for _, payload := range payloads {
		var job DispatchJob
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			log.Error().Err(err).Msg("Failed to decode dispatch job")
			continue
		}

		log.Debug().Msg(pretty.Sprint(job))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		deliveryErr, persistenceErr := c.Dispatcher.Dispatch(ctx, job)
		cancel()

		if deliveryErr != nil {
			log.Error().Err(deliveryErr).Str("id", job.Alert.PrimaryIdentifier).Msg("Failed to deliver alert")
		}
		if persistenceErr != nil {
			log.Error().Err(persistenceErr).Str("id", job.Alert.PrimaryIdentifier).Msg("Failed to save alert")
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to ack dispatch job")
		}
	}
}
