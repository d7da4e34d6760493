package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerarHistorialCierresPDF renders the closure history for a date range as
// a PDF report and returns the path of the generated file. The file lands in
// storageDir, which is created on demand.
func GenerarHistorialCierresPDF(cierres []model.CierreCaja, desde, hasta, storageDir string) (string, error) {
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio de reportes: %w", err)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Historial de cierres de caja", false)
	pdf.AddPage()
	// core fonts are cp1252: acentos pasan por el traductor
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Toro Loco Cayma", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Historial de cierres de caja: %s al %s", desde, hasta), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Fecha", "Cajero", "Transacciones", "Efectivo contado", "Saldo esperado", "Diferencia", "Clasificación"}
	widths := []float64{28, 55, 30, 38, 38, 32, 45}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	totalContado := decimal.Zero
	totalDiferencia := decimal.Zero
	for _, c := range cierres {
		cajero := c.CajeroID.String()[:8]
		if c.Cajero != nil {
			cajero = c.Cajero.Nombre
		}
		row := []string{
			c.Fecha.Format("2006-01-02"),
			cajero,
			fmt.Sprintf("%d", c.NumTransacciones),
			"S/ " + c.EfectivoContado.StringFixed(2),
			"S/ " + c.SaldoEsperado.StringFixed(2),
			"S/ " + c.Diferencia.StringFixed(2),
			c.Clasificacion,
		}
		for i, cell := range row {
			align := "L"
			if i >= 2 && i <= 5 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)

		totalContado = totalContado.Add(c.EfectivoContado)
		totalDiferencia = totalDiferencia.Add(c.Diferencia)
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "Totales", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 8, "S/ "+totalContado.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 8, "", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 8, "S/ "+totalDiferencia.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[6], 8, "", "1", 1, "R", false, 0, "")

	path := filepath.Join(storageDir, fmt.Sprintf("cierres_%s_%s.pdf", desde, hasta))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("escribir PDF: %w", err)
	}
	return path, nil
}
