package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// deadJob wraps the failed job with the error that killed it, for operator
// inspection via redis-cli.
type deadJob struct {
	Job      Job       `json:"job"`
	Error    string    `json:"error"`
	MuertoAt time.Time `json:"muerto_at"`
}

func sendToDLQ(ctx context.Context, rdb *redis.Client, job Job, cause error) {
	data, err := json.Marshal(deadJob{Job: job, Error: cause.Error(), MuertoAt: time.Now()})
	if err != nil {
		log.Error().Err(err).Msg("no se pudo serializar el job muerto")
		return
	}
	if err := rdb.LPush(context.WithoutCancel(ctx), QueueDLQ, data).Err(); err != nil {
		log.Error().Err(err).Str("job_id", job.ID.String()).Msg("no se pudo encolar en DLQ")
	}
}
