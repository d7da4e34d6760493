package worker

import (
	"context"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryCronInterval = time.Minute
	retryCronBatch    = 50
)

// StartRetryCron periodically re-enqueues comprobantes whose next_retry_at
// has passed. It fires only when the SUNAT breaker would admit a call, so a
// down sidecar does not generate a minute-by-minute failure storm.
func StartRetryCron(ctx context.Context, comprobantes repository.ComprobanteRepository, dispatcher *Dispatcher, allow func() bool) {
	go func() {
		ticker := time.NewTicker(retryCronInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry cron detenido")
				return
			case <-ticker.C:
				if !allow() {
					continue
				}
				runRetryBatch(ctx, comprobantes, dispatcher)
			}
		}
	}()
}

func runRetryBatch(ctx context.Context, comprobantes repository.ComprobanteRepository, dispatcher *Dispatcher) {
	pendientes, err := comprobantes.ListPendingRetries(ctx, time.Now(), retryCronBatch)
	if err != nil {
		log.Error().Err(err).Msg("retry cron: no se pudieron listar pendientes")
		return
	}
	for _, comp := range pendientes {
		payload := EmitirComprobantePayload{ComprobanteID: comp.ID}
		if err := dispatcher.Enqueue(ctx, TipoEmitirComprobante, payload); err != nil {
			log.Error().Err(err).Str("comprobante_id", comp.ID.String()).Msg("retry cron: encolado falló")
			continue
		}
	}
	if len(pendientes) > 0 {
		log.Info().Int("reintentos", len(pendientes)).Msg("retry cron: comprobantes re-encolados")
	}
}
