// Package pdf genera el certificado de garantía de un producto registrado.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Toko + kode_toko  │  nomor_kepesertaan │
//	│  ───────────────────────────────────────────  │
//	│  CLIENTE: nombre / teléfono / email             │
//	│  PRODUCTO: nombre / marca / serie / precio      │
//	│  GARANTÍA: compra / meses / vence               │
//	│  ───────────────────────────────────────────  │
//	│  FOOTER: QR del nomor + leyenda                 │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/garansi-api/internal/domain/entity"
)

const dateLayout = "02/01/2006"

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// CertificateGenerator implementa usecase.CertificateRenderer usando Maroto v2.
type CertificateGenerator struct{}

// NewCertificateGenerator construye el generador.
func NewCertificateGenerator() *CertificateGenerator { return &CertificateGenerator{} }

// RenderCertificate genera el PDF y devuelve sus bytes.
func (g *CertificateGenerator) RenderCertificate(_ context.Context, product *entity.Product, store *entity.Store) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Sertifikat Garansi "+product.ParticipantNumber, true).
		WithAuthor(store.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, store))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(section("PELANGGAN",
		product.CustomerName,
		fmt.Sprintf("Tel: %s   |   Email: %s", nonEmpty(product.CustomerPhone, "-"), nonEmpty(product.CustomerEmail, "-")),
	))
	m.AddRows(section("PRODUK",
		product.ProductName,
		fmt.Sprintf("Merek: %s   |   No. Seri: %s   |   Harga: Rp %s",
			nonEmpty(product.Brand, "-"),
			nonEmpty(product.SerialNumber, "-"),
			formatMoney(product.Price.StringFixed(0)),
		),
	))
	m.AddRows(section("GARANSI",
		fmt.Sprintf("%d bulan", product.WarrantyMonths),
		fmt.Sprintf("Tanggal beli: %s   |   Berlaku sampai: %s",
			product.PurchaseDate.Format(dateLayout),
			product.WarrantyExpiresAt.Format(dateLayout),
		),
	))
	if !product.IsActive {
		m.AddRows(inactiveRow(product))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(product))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar certificado: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(product *entity.Product, store *entity.Store) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(store.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Kode toko: "+store.Code, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("SERTIFIKAT GARANSI", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(product.ParticipantNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func section(title, main, detail string) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(main, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(detail, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func inactiveRow(product *entity.Product) core.Row {
	msg := "GARANSI TIDAK AKTIF"
	if product.DeactivatedAt != nil {
		msg += " sejak " + product.DeactivatedAt.Format(dateLayout)
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(msg, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorAlert, Top: 2,
		}),
	))
}

func footerRow(product *entity.Product) core.Row {
	return row.New(36).Add(
		col.New(4).Add(code.NewQr(product.ParticipantNumber, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Tunjukkan sertifikat ini di service center resmi.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Nomor kepesertaan: "+product.ParticipantNumber, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 16, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
