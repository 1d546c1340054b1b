package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// レシートに載せる注文情報。usecaseの出力から詰め替える。
type ReceiptItem struct {
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

type Receipt struct {
	OrderID         int64
	Date            time.Time
	Status          string
	ShippingAddress string
	Items           []ReceiptItem
	Total           decimal.Decimal
}

// 注文レシートのPDFを作る
func RenderReceipt(r Receipt) ([]byte, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()

	p.SetFont("Helvetica", "B", 18)
	p.CellFormat(0, 12, fmt.Sprintf("Order #%d", r.OrderID), "", 1, "L", false, 0, "")

	addr := r.ShippingAddress
	if addr == "" {
		addr = "-"
	}
	p.SetFont("Helvetica", "", 11)
	p.CellFormat(0, 6, fmt.Sprintf("Date: %s", r.Date.Format("02/01/2006")), "", 1, "L", false, 0, "")
	p.CellFormat(0, 6, fmt.Sprintf("Status: %s", r.Status), "", 1, "L", false, 0, "")
	p.CellFormat(0, 6, fmt.Sprintf("Shipping address: %s", addr), "", 1, "L", false, 0, "")
	p.Ln(6)

	// 明細テーブル
	p.SetFont("Helvetica", "B", 11)
	p.SetFillColor(0, 0, 0)
	p.SetTextColor(255, 255, 255)
	widths := []float64{80, 25, 40, 40}
	headers := []string{"Product", "Qty", "Unit price", "Subtotal"}
	for i, h := range headers {
		p.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)

	p.SetFont("Helvetica", "", 11)
	p.SetTextColor(0, 0, 0)
	p.SetFillColor(245, 245, 245)
	for _, it := range r.Items {
		p.CellFormat(widths[0], 8, it.ProductName, "1", 0, "L", true, 0, "")
		p.CellFormat(widths[1], 8, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", true, 0, "")
		p.CellFormat(widths[2], 8, "$"+it.UnitPrice.StringFixed(2), "1", 0, "R", true, 0, "")
		p.CellFormat(widths[3], 8, "$"+it.Subtotal.StringFixed(2), "1", 0, "R", true, 0, "")
		p.Ln(-1)
	}

	p.Ln(6)
	p.SetFont("Helvetica", "B", 14)
	p.CellFormat(0, 10, "Total: $"+r.Total.StringFixed(2), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
