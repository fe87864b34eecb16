// Package pdf implementa la representación imprimible del reporte de
// valorización de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Valorización de inventario │ Fecha de generación   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Unidades | Valor al costo       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Valor total / Stock muerto (vencido con restante) │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appinv "github.com/jhoicas/farmacia-pro/internal/application/inventory"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 96, Blue: 74}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ appinv.PDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa inventory.PDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateValuationPDF genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateValuationPDF(_ context.Context, report *appinv.ValuationReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Valorización de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, l := range report.Lines {
		m.AddRows(tableLineRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(report)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y fecha de generación (der).
func headerRow(report *appinv.ValuationReport) core.Row {
	fecha := report.GeneratedAt.Format("02/01/2006 15:04")
	return row.New(14).Add(
		col.New(7).Add(
			text.New("VALORIZACIÓN DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Valor del restante por producto, al costo de cada lote", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+fecha, props.Text{
				Size: 9, Align: align.Right, Top: 1, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	style := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 1.5}
	return row.New(7).Add(
		col.New(2).Add(text.New("CÓDIGO", style)),
		col.New(6).Add(text.New("PRODUCTO", style)),
		col.New(2).Add(text.New("UNIDADES", alignRight(style))),
		col.New(2).Add(text.New("VALOR", alignRight(style))),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableLineRow(l appinv.ValuationLine) core.Row {
	style := props.Text{Size: 8, Top: 1}
	return row.New(6).Add(
		col.New(2).Add(text.New(l.Code, style)),
		col.New(6).Add(text.New(l.Name, style)),
		col.New(2).Add(text.New(strconv.FormatInt(l.Quantity, 10), alignRight(style))),
		col.New(2).Add(text.New(l.Value, alignRight(style))),
	)
}

func totalsRows(report *appinv.ValuationReport) []core.Row {
	label := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1}
	value := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1, Color: colorPrimary}
	dead := props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray}
	return []core.Row{
		row.New(7).Add(
			col.New(10).Add(text.New("VALOR TOTAL", label)),
			col.New(2).Add(text.New(report.TotalValue, value)),
		),
		row.New(6).Add(
			col.New(10).Add(text.New("Stock muerto (vencido con restante)", dead)),
			col.New(2).Add(text.New(report.DeadValue, dead)),
		),
	}
}

func alignRight(t props.Text) props.Text {
	t.Align = align.Right
	return t
}
