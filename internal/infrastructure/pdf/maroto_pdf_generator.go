// Package pdf genera la representación impresa de boletas y facturas de venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tienda  │  Tipo + N° comprobante      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Fecha / Hora / Pedido de origen / Estado             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Importe | IGV | Total     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Op. gravada / IGV 18% / TOTAL                      │
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

	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/application/ports"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/pkg/money"
)

var _ ports.ReceiptPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 158, Green: 27, Blue: 50}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.ReceiptPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateReceiptPDF genera el PDF del comprobante y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(_ context.Context, receipt dto.SaleResponse, storeName string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(receiptTitle(receipt), true).
		WithAuthor(storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(receipt, storeName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(receipt.Detalles)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(receipt))

	if receipt.Estado == string(entity.SaleStatusVoided) {
		m.AddRows(voidedRow())
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func receiptTitle(r dto.SaleResponse) string {
	return nonEmpty(r.TipoComprobante, entity.ReceiptTypeBoleta) + " " + r.NumeroComprobante
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda (izq) y tipo + número de comprobante (der).
func headerRow(r dto.SaleResponse, storeName string) core.Row {
	kind := "BOLETA DE VENTA ELECTRÓNICA"
	if r.TipoComprobante == entity.ReceiptTypeFactura {
		kind = "FACTURA ELECTRÓNICA"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(r.NumeroComprobante, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func infoRow(r dto.SaleResponse) core.Row {
	origin := "Venta directa"
	if r.IDPedido != nil {
		origin = "Pedido N° " + strconv.FormatInt(*r.IDPedido, 10)
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DE LA VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Fecha: %s   |   Hora: %s   |   %s",
				r.FechaVenta, r.HoraVenta, origin,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Importe", 2, align.Right),
		h("IGV", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea de venta.
func tableDetailRows(lines []dto.SaleLineResponse) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		name := nonEmpty(l.NombreProducto, "Producto "+strconv.FormatInt(l.IDProducto, 10))
		result = append(result, row.New(7).Add(
			cell(strconv.Itoa(l.Cantidad), 1, align.Center),
			cell(name, 4, align.Left),
			cell(money.Plain(l.PrecioUnitario), 2, align.Right),
			cell(money.Plain(l.Importe), 2, align.Right),
			cell(money.Plain(l.IGV), 1, align.Right),
			cell(money.Plain(l.ImporteConIGV), 2, align.Right),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(r dto.SaleResponse) core.Row {
	label := func(s string, size float64, c *props.Color) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2, Color: c})
	}
	value := func(s string, size float64, c *props.Color, style fontstyle.Type) core.Component {
		return text.New(s, props.Text{Style: style, Size: size, Align: align.Right, Right: 1, Color: c})
	}

	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Op. gravada:", 9, nil),
			label("IGV 18%:", 9, nil),
			label("TOTAL:", 10, colorPrimary),
		),
		col.New(3).Add(
			value(money.Format(r.Subtotal), 9, nil, fontstyle.Normal),
			value(money.Format(r.IGV), 9, nil, fontstyle.Normal),
			value(money.Format(r.Total), 10, colorPrimary, fontstyle.Bold),
		),
	)
}

func voidedRow() core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New("COMPROBANTE ANULADO", props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorPrimary, Top: 3,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
