package invoice

import (
	"bytes"
	"fmt"
	"io"

	"heritage/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const storeName = "HeritageByNN"

// Filename is the download name used for an order's invoice.
func Filename(orderID string) string {
	return "invoice-" + orderID + ".pdf"
}

// Render writes a one page A4 invoice for o to w. The QR code encodes the
// order id so staff can look the order up from a printed copy.
func Render(w io.Writer, o models.Order) error {
	qrPNG, err := qrcode.Encode(o.ID, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(storeName+" invoice "+o.ID, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, storeName)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, "Order Invoice")
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")

	details := [][2]string{
		{"Order ID", o.ID},
		{"Date", o.CreatedAt.Format("02 Jan 2006 15:04")},
		{"Status", string(o.Status)},
		{"Payment", string(o.PaymentMethod)},
		{"Customer", o.Customer.Name},
		{"Email", o.Customer.Email},
		{"Phone", phoneOrNA(o.Customer.Phone)},
		{"Address", o.Customer.Address},
	}
	for _, d := range details {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(30, 7, d[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 7, tr(d[1]), "", "L", false)
	}
	pdf.Ln(6)

	widths := []float64{80, 25, 25, 15, 45}
	headers := []string{"Item", "Size", "Color", "Qty", "Amount"}
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(62, 3, 9)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, it := range o.Items {
		row := []string{
			tr(it.Name),
			tr(it.SelectedSize),
			tr(it.SelectedColor),
			fmt.Sprint(it.Quantity),
			models.FormatPKR(it.Price * int64(it.Quantity)),
		}
		for i, cell := range row {
			align := "L"
			if i >= 3 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	shipping := models.FormatPKR(o.Shipping)
	if o.Shipping == 0 {
		shipping = "Free"
	}
	totals := [][2]string{
		{"Subtotal", models.FormatPKR(o.Subtotal)},
		{"Shipping", shipping},
		{"Total", models.FormatPKR(o.Total)},
	}
	for i, t := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Arial", style, 11)
		pdf.CellFormat(145, 7, t[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, t[1], "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func phoneOrNA(phone string) string {
	if phone == "" {
		return "N/A"
	}
	return phone
}
