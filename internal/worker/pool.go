package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueJobs = "toroloco:jobs"
	QueueDLQ  = "toroloco:jobs:dlq"

	TipoEmitirComprobante = "emitir_comprobante"
	TipoEnviarEmail       = "enviar_email"
)

// Job is the envelope every queued task travels in. Payload is type-specific
// JSON decoded by the handler that owns the Tipo.
type Job struct {
	ID         uuid.UUID       `json:"id"`
	Tipo       string          `json:"tipo"`
	Payload    json.RawMessage `json:"payload"`
	Intentos   int             `json:"intentos"`
	EncoladoAt time.Time       `json:"encolado_at"`
}

// Encolador is the enqueue side of the queue; workers that spawn follow-up
// jobs (e.g. the receipt email after an accepted comprobante) depend on it.
type Encolador interface {
	Enqueue(ctx context.Context, tipo string, payload any) error
}

// Dispatcher enqueues jobs onto the shared Redis list. Services hold a
// dispatcher; only the pool consumes.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Enqueue marshals the payload and pushes a job. Enqueue failures are the
// caller's to decide on: sale registration treats them as non-fatal.
func (d *Dispatcher) Enqueue(ctx context.Context, tipo string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{
		ID:         uuid.New(),
		Tipo:       tipo,
		Payload:    raw,
		EncoladoAt: time.Now(),
	}
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueJobs, data).Err()
}

// Handlers maps a job Tipo to the function that executes it.
type Handlers map[string]func(ctx context.Context, job Job) error

// StartPool launches size goroutines that block-pop jobs from the queue and
// dispatch them to their handlers. A job whose handler fails goes to the DLQ;
// the pool itself never dies on a bad job. Workers drain when ctx is
// cancelled.
func StartPool(ctx context.Context, rdb *redis.Client, size int, handlers Handlers) {
	for i := 0; i < size; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Int("workers", size).Msg("pool de workers iniciado")
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers Handlers) {
	logger := log.With().Int("worker", id).Logger()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker detenido")
			return
		default:
		}

		res, err := rdb.BRPop(ctx, 5*time.Second, QueueJobs).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			logger.Error().Err(err).Msg("BRPOP falló")
			time.Sleep(time.Second)
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			logger.Error().Err(err).Str("raw", res[1]).Msg("job ilegible, descartado")
			continue
		}

		handler, ok := handlers[job.Tipo]
		if !ok {
			logger.Error().Str("tipo", job.Tipo).Msg("job sin handler, enviado a DLQ")
			sendToDLQ(ctx, rdb, job, errors.New("sin handler"))
			continue
		}

		if err := handler(ctx, job); err != nil {
			logger.Error().Err(err).Str("tipo", job.Tipo).Str("job_id", job.ID.String()).Msg("job falló")
			sendToDLQ(ctx, rdb, job, err)
			continue
		}
		logger.Debug().Str("tipo", job.Tipo).Str("job_id", job.ID.String()).Msg("job completado")
	}
}
