package admin

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"heritage/models"
)

var orderHeaders = []string{"Order ID", "Customer Name", "Email", "Phone", "Address", "Products", "Total", "Status", "Date"}

var productHeaders = []string{
	"Product ID", "Name", "Category", "Price", "Stock", "Fabric", "Sizes", "Colors",
	"Occasion", "Description", "Care Instructions", "Is New", "Is Featured", "Images",
}

const exportDateLayout = "Jan 2, 2006, 03:04 PM"

// WriteOrdersCSV exports every order given, not just one page.
func WriteOrdersCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(orderHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, o := range orders {
		phone := o.Customer.Phone
		if phone == "" {
			phone = "N/A"
		}
		products := make([]string, len(o.Items))
		for i, it := range o.Items {
			products[i] = fmt.Sprintf("%s (x%d)", it.Name, it.Quantity)
		}
		row := []string{
			o.ID,
			o.Customer.Name,
			o.Customer.Email,
			phone,
			o.Customer.Address,
			strings.Join(products, "; "),
			models.FormatPKR(o.Total),
			string(o.Status),
			o.CreatedAt.Format(exportDateLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write order %s: %w", o.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteProductsCSV(w io.Writer, products []models.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(productHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range products {
		row := []string{
			p.ID,
			p.Name,
			p.Category,
			models.FormatPKR(p.Price),
			strconv.Itoa(p.Stock),
			p.Fabric,
			strings.Join(p.Sizes, ","),
			strings.Join(p.Colors, ","),
			p.Occasion,
			p.Description,
			p.CareInstructions,
			yesNo(p.IsNew),
			yesNo(p.IsFeatured),
			strings.Join(p.Images, ","),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write product %s: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
