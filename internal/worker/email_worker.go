package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/infra"

	"github.com/rs/zerolog/log"
)

// EnviarEmailPayload describes an outbound mail, optionally with generated
// report files attached by path.
type EnviarEmailPayload struct {
	Para     []string `json:"para"`
	Asunto   string   `json:"asunto"`
	Cuerpo   string   `json:"cuerpo"`
	Adjuntos []string `json:"adjuntos,omitempty"`
}

// EmailWorker delivers queued mail through the SMTP relay.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Handle(ctx context.Context, job Job) error {
	var payload EnviarEmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("payload inválido: %w", err)
	}
	if len(payload.Para) == 0 {
		log.Warn().Str("job_id", job.ID.String()).Msg("email sin destinatarios, descartado")
		return nil
	}
	if err := w.mailer.Send(payload.Para, payload.Asunto, payload.Cuerpo, payload.Adjuntos...); err != nil {
		return fmt.Errorf("envío SMTP: %w", err)
	}
	log.Info().Strs("para", payload.Para).Str("asunto", payload.Asunto).Msg("email enviado")
	return nil
}
