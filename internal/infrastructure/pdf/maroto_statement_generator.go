// Package pdf genera el estado de cuenta de deuda de un lote con su proveedor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + SKU       │  Lote + Fecha de emisión    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LOTE: cantidades / costo / clasificación / proveedor        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Descripción | Estado | Monto          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Pasivo neto / Pasivo esperado                      │
//	│  FOOTER: QR con el ID del lote                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"github.com/shopspring/decimal"

	appinv "github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appinv.DebtStatementRenderer = (*MarotoStatementGenerator)(nil)

// MarotoStatementGenerator implementa inventory.DebtStatementRenderer usando Maroto v2.
type MarotoStatementGenerator struct{}

// NewMarotoStatementGenerator construye el generador.
func NewMarotoStatementGenerator() *MarotoStatementGenerator { return &MarotoStatementGenerator{} }

// RenderDebtStatement genera el PDF y devuelve sus bytes.
func (g *MarotoStatementGenerator) RenderDebtStatement(_ context.Context, st appinv.DebtStatement) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de cuenta de lote", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(st))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(batchRow(st.Batch))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(st.Entries) == 0 {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("El lote no tiene asientos con proveedor.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}
	for _, r := range entryRows(st.Entries) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(st))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(st.Batch))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(st appinv.DebtStatement) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(st.Product.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+nonEmpty(st.Product.SKU, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ESTADO DE CUENTA DE LOTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(st.Batch.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+st.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func batchRow(b entity.StockBatch) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DATOS DEL LOTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Recibidas: %d   |   Remanente: %d   |   Dañadas: %d   |   Costo unit.: $%s",
				b.Quantity, b.RemainingQuantity, b.DamagedQuantity, formatMoney(b.CostPrice),
			), props.Text{Size: 8, Top: 6}),
			text.New(fmt.Sprintf("Clasificación: %s   |   Proveedor: %s   |   Estado: %s",
				classification(b), nonEmpty(b.SupplierID, "—"), b.Status,
			), props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Estado", 1, align.Center),
		h("Monto", 3, align.Right),
	)
}

// entryRows una fila por asiento; los anulados se muestran en gris y no suman.
func entryRows(entries []entity.FinanceEntry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		color := (*props.Color)(nil)
		state := "Vigente"
		if e.IsDeleted() {
			color, state = colorGray, "Anulado"
		}
		kind, sign := "Deuda", ""
		if e.IsRefund() {
			kind, sign = "Reembolso", "-"
		}
		desc := e.Description
		if e.RefundedDebtID != "" {
			desc += " (deuda " + shortID(e.RefundedDebtID) + ")"
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(e.Date.Format("02/01/2006"), props.Text{Size: 8, Top: 1, Left: 1, Color: color})),
			col.New(2).Add(text.New(kind, props.Text{Size: 8, Top: 1, Color: color})),
			col.New(4).Add(text.New(nonEmpty(desc, "—"), props.Text{Size: 8, Top: 1, Color: color})),
			col.New(1).Add(text.New(state, props.Text{Size: 7, Align: align.Center, Top: 1, Color: color})),
			col.New(3).Add(text.New(sign+"$"+formatMoney(e.Amount), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: color,
			})),
		))
	}
	return result
}

func totalsRow(st appinv.DebtStatement) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	netColor := colorPrimary
	if !st.NetLiability.Equal(st.Expected) {
		netColor = colorAlert
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			label("Pasivo neto:"),
			text.New("Pasivo esperado:", props.Text{Size: 9, Align: align.Right, Right: 2, Top: 5, Color: colorGray}),
		),
		col.New(3).Add(
			text.New("$"+formatMoney(st.NetLiability), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Color: netColor,
			}),
			text.New("$"+formatMoney(st.Expected), props.Text{
				Size: 9, Align: align.Right, Right: 1, Top: 5, Color: colorGray,
			}),
		),
	)
}

func footerRow(b entity.StockBatch) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(b.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Lote "+b.ID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New("Pasivo neto = deudas vigentes menos reembolsos no vinculados a una deuda.", props.Text{
				Size: 7, Top: 10, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func classification(b entity.StockBatch) string {
	switch {
	case b.IsOwnPurchase:
		return "Compra propia"
	case b.IsCredit:
		return "Proveedor a crédito"
	default:
		return "Proveedor pagado"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney redondea a centavos, con puntos de miles y coma decimal.
// Ej: 25000 → "25.000,00", 7.5 → "7,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, cents, _ := strings.Cut(s, ".")
	n := len(whole)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(whole) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + cents
}
