package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/infra"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	maxIntentosEmision = 5
	retryBase          = 2 * time.Minute
)

// EmitirComprobantePayload identifies the comprobante to push through the
// SUNAT sidecar.
type EmitirComprobantePayload struct {
	ComprobanteID uuid.UUID `json:"comprobante_id"`
}

// ComprobanteWorker resolves pending comprobantes against SUNAT. Emission is
// fully asynchronous: the sale is already committed, the worker only updates
// the comprobante state and stamps the venta when SUNAT accepts.
type ComprobanteWorker struct {
	comprobantes repository.ComprobanteRepository
	ventas       repository.VentaRepository
	sunat        *infra.SUNATClient
	jobs         Encolador
}

func NewComprobanteWorker(comprobantes repository.ComprobanteRepository, ventas repository.VentaRepository, sunat *infra.SUNATClient, jobs Encolador) *ComprobanteWorker {
	return &ComprobanteWorker{comprobantes: comprobantes, ventas: ventas, sunat: sunat, jobs: jobs}
}

// Handle processes one emission job. Transient failures reschedule the
// comprobante for the retry cron instead of dead-lettering; only exhausting
// maxIntentosEmision sends the job to the DLQ.
func (w *ComprobanteWorker) Handle(ctx context.Context, job Job) error {
	var payload EmitirComprobantePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("payload inválido: %w", err)
	}

	comp, err := w.comprobantes.FindByID(ctx, payload.ComprobanteID)
	if err != nil {
		return err
	}
	if comp.Estado != "pendiente" {
		log.Warn().Str("comprobante_id", comp.ID.String()).Str("estado", comp.Estado).Msg("comprobante ya resuelto, job ignorado")
		return nil
	}

	req := infra.ComprobanteRequest{
		Tipo:         comp.Tipo,
		Serie:        comp.Serie,
		Correlativo:  comp.Correlativo,
		FechaEmision: comp.CreatedAt.Format("2006-01-02"),
		MontoGravado: comp.MontoGravado,
		MontoIGV:     comp.MontoIGV,
		MontoTotal:   comp.MontoTotal,
	}
	if comp.ReceptorTipoDoc != nil {
		req.ReceptorTipoDoc = *comp.ReceptorTipoDoc
	}
	if comp.ReceptorNumDoc != nil {
		req.ReceptorNumDoc = *comp.ReceptorNumDoc
	}
	if comp.ReceptorNombre != nil {
		req.ReceptorNombre = *comp.ReceptorNombre
	}

	var result *infra.ComprobanteResult
	err = withRetry(ctx, 3, 2*time.Second, func() error {
		var callErr error
		result, callErr = w.sunat.Emitir(ctx, req)
		return callErr
	})
	if err != nil {
		return w.reprogramar(ctx, comp.ID, comp.RetryCount, err)
	}

	if !result.Aceptado {
		comp.Estado = "rechazado"
		obs := result.Observacion
		comp.Observaciones = &obs
		if err := w.comprobantes.Update(ctx, comp); err != nil {
			return err
		}
		log.Warn().Str("comprobante_id", comp.ID.String()).Str("observacion", obs).Msg("comprobante rechazado por SUNAT")
		return nil
	}

	comp.Estado = "aceptado"
	comp.HashCPE = &result.HashCPE
	if result.Observacion != "" {
		obs := result.Observacion
		comp.Observaciones = &obs
	}
	comp.LastError = nil
	comp.NextRetryAt = nil
	if err := w.comprobantes.Update(ctx, comp); err != nil {
		return err
	}
	if err := w.ventas.SetComprobanteEmitido(ctx, comp.VentaID); err != nil {
		return err
	}
	log.Info().Str("comprobante_id", comp.ID.String()).Str("serie", comp.Serie).Int64("correlativo", comp.Correlativo).Msg("comprobante aceptado")

	w.enviarReciboCliente(ctx, comp)
	return nil
}

// enviarReciboCliente queues the receipt email when the sale carried a client
// address. Best-effort: the comprobante is already accepted, a queue hiccup
// must not fail the job.
func (w *ComprobanteWorker) enviarReciboCliente(ctx context.Context, comp *model.Comprobante) {
	if comp.ReceptorEmail == nil || w.jobs == nil {
		return
	}
	nombre := "cliente"
	if comp.ReceptorNombre != nil {
		nombre = *comp.ReceptorNombre
	}
	payload := EnviarEmailPayload{
		Para:   []string{*comp.ReceptorEmail},
		Asunto: fmt.Sprintf("Tu comprobante %s-%d de Toro Loco Cayma", comp.Serie, comp.Correlativo),
		Cuerpo: fmt.Sprintf(
			"Hola %s,\n\nTu %s %s-%d por S/ %s fue aceptada por SUNAT.\n\nGracias por tu visita.\nToro Loco Cayma",
			nombre, comp.Tipo, comp.Serie, comp.Correlativo, comp.MontoTotal.StringFixed(2),
		),
	}
	if err := w.jobs.Enqueue(ctx, TipoEnviarEmail, payload); err != nil {
		log.Warn().Err(err).Str("comprobante_id", comp.ID.String()).Msg("no se pudo encolar el recibo por email")
	}
}

// reprogramar schedules the next attempt with exponential spacing, or gives
// up after maxIntentosEmision and marks the comprobante as errored.
func (w *ComprobanteWorker) reprogramar(ctx context.Context, id uuid.UUID, intentos int, cause error) error {
	comp, err := w.comprobantes.FindByID(ctx, id)
	if err != nil {
		return err
	}

	comp.RetryCount = intentos + 1
	msg := cause.Error()
	comp.LastError = &msg

	if comp.RetryCount >= maxIntentosEmision {
		comp.Estado = "error"
		comp.NextRetryAt = nil
		if uerr := w.comprobantes.Update(ctx, comp); uerr != nil {
			return uerr
		}
		return fmt.Errorf("emisión agotó %d intentos: %w", maxIntentosEmision, cause)
	}

	next := time.Now().Add(retryBase * time.Duration(1<<comp.RetryCount))
	comp.NextRetryAt = &next
	if uerr := w.comprobantes.Update(ctx, comp); uerr != nil {
		return uerr
	}
	log.Warn().Str("comprobante_id", comp.ID.String()).Int("intento", comp.RetryCount).Time("next_retry_at", next).Err(cause).Msg("emisión reprogramada")
	return nil
}

// withRetry runs fn up to attempts times with exponential backoff. A context
// cancellation aborts immediately; an open circuit breaker is not retried
// inline because the sidecar will stay down for the whole window.
func withRetry(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if errors.Is(err, infra.ErrCircuitOpen) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(base * time.Duration(1<<i)):
		}
	}
	return err
}
