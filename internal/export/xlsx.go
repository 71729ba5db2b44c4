package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"github.com/Skotchmaster/crochet_store/internal/order"
)

var orderHeader = []string{
	"Order ID", "Created", "Status", "Customer", "Email", "Phone",
	"Address", "City", "Items", "Payment", "Total", "Screenshot",
}

// Orders writes one sheet with a row per order.
func Orders(w io.Writer, orders []order.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range orderHeader {
		header.AddCell().SetString(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.ID)
		row.AddCell().SetString(o.CreatedAt.UTC().Format(time.RFC3339))
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(o.Customer.FullName)
		row.AddCell().SetString(o.Customer.Email)
		row.AddCell().SetString(o.Customer.Phone)
		row.AddCell().SetString(o.Customer.Address)
		row.AddCell().SetString(o.Customer.City)
		row.AddCell().SetString(itemSummary(o.Items))
		row.AddCell().SetString(string(o.Payment.Method))
		row.AddCell().SetInt64(o.Payment.Total)
		row.AddCell().SetString(o.Payment.ScreenshotURL)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func itemSummary(items []order.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
	}
	return strings.Join(parts, ", ")
}
