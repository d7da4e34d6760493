package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// SUNATClient talks to the local facturación sidecar, which signs the CPE and
// forwards it to SUNAT. All calls go through the circuit breaker so an outage
// of the sidecar degrades to queued comprobantes instead of blocked workers.
type SUNATClient struct {
	baseURL   string
	rucEmisor string
	http      *http.Client
	breaker   *CircuitBreaker
}

func NewSUNATClient(baseURL, rucEmisor string, breaker *CircuitBreaker) *SUNATClient {
	return &SUNATClient{
		baseURL:   baseURL,
		rucEmisor: rucEmisor,
		http:      &http.Client{Timeout: 30 * time.Second},
		breaker:   breaker,
	}
}

// ComprobanteRequest is the sidecar's emission payload.
type ComprobanteRequest struct {
	RUCEmisor       string          `json:"ruc_emisor"`
	Tipo            string          `json:"tipo"`
	Serie           string          `json:"serie"`
	Correlativo     int64           `json:"correlativo"`
	FechaEmision    string          `json:"fecha_emision"`
	ReceptorTipoDoc string          `json:"receptor_tipo_doc,omitempty"`
	ReceptorNumDoc  string          `json:"receptor_num_doc,omitempty"`
	ReceptorNombre  string          `json:"receptor_nombre,omitempty"`
	MontoGravado    decimal.Decimal `json:"monto_gravado"`
	MontoIGV        decimal.Decimal `json:"monto_igv"`
	MontoTotal      decimal.Decimal `json:"monto_total"`
}

// ComprobanteResult is the sidecar's answer once SUNAT has resolved the CPE.
type ComprobanteResult struct {
	Aceptado    bool   `json:"aceptado"`
	HashCPE     string `json:"hash_cpe"`
	Observacion string `json:"observacion"`
}

// Emitir submits a comprobante for electronic emission. Transport errors and
// 5xx responses count as breaker failures; a SUNAT rejection (4xx with a
// parsed body) is a definitive business answer and does not trip the breaker.
func (c *SUNATClient) Emitir(ctx context.Context, req ComprobanteRequest) (*ComprobanteResult, error) {
	if !c.breaker.Allow() {
		return nil, ErrCircuitOpen
	}

	req.RUCEmisor = c.rucEmisor
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/comprobantes", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.breaker.Failure()
		return nil, fmt.Errorf("sidecar SUNAT: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		c.breaker.Failure()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sidecar SUNAT: status %d: %s", resp.StatusCode, raw)
	}

	c.breaker.Success()

	var result ComprobanteResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("sidecar SUNAT: respuesta inválida: %w", err)
	}
	return &result, nil
}

// Health pings the sidecar, used by the readiness probe.
func (c *SUNATClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sidecar SUNAT: status %d", resp.StatusCode)
	}
	return nil
}
