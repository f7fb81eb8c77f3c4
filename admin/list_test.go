package admin

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"heritage/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrders() []models.Order {
	base := time.Date(2025, 3, 1, 15, 4, 0, 0, time.UTC)
	return []models.Order{
		{ID: "o1", Customer: models.Customer{Name: "Ayesha Khan", Email: "ayesha@example.com", Phone: "03001234567"}, Total: 89999, Status: models.StatusDelivered, CreatedAt: base},
		{ID: "o2", Customer: models.Customer{Name: "Sana Mir", Email: "sana@example.com"}, Total: 27499, Status: models.StatusPending, CreatedAt: base.Add(48 * time.Hour)},
		{ID: "o3", Customer: models.Customer{Name: "Hira Ali", Email: "hira@example.com"}, Total: 45999, Status: models.StatusCancelled, CreatedAt: base.Add(24 * time.Hour)},
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	p := Paginate(items, 1, PageSize)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 23, p.TotalItems)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, p.Items)

	last := Paginate(items, 3, PageSize)
	assert.Equal(t, []int{20, 21, 22}, last.Items)

	clamped := Paginate(items, 99, PageSize)
	assert.Equal(t, 3, clamped.Page)
	assert.Equal(t, 1, Paginate(items, -4, PageSize).Page)

	empty := Paginate([]int{}, 1, PageSize)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestOrderSearchAndSort(t *testing.T) {
	orders := sampleOrders()
	SortOrdersNewest(orders)
	ids := []string{}
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"o2", "o3", "o1"}, ids)

	assert.Len(t, FilterOrders(orders, "AYESHA"), 1)
	assert.Len(t, FilterOrders(orders, "0300"), 1)
	assert.Len(t, FilterOrders(orders, "example.com"), 3)
	assert.Len(t, FilterOrders(orders, "o3"), 1)
	assert.Len(t, FilterOrders(orders, "  "), 3)
	assert.Empty(t, FilterOrders(orders, "zainab"))
}

func TestOrderStatsExcludeCancelledRevenue(t *testing.T) {
	st := ComputeOrderStats(sampleOrders())
	assert.Equal(t, OrderStats{Total: 3, Pending: 1, Delivered: 1, Revenue: 89999 + 27499}, st)
}

func TestProductSearchSortAndStats(t *testing.T) {
	products := []models.Product{
		{ID: "1", Name: "sabz Sitara", Category: "Bridal", Price: 1000, Stock: 3, IsFeatured: true},
		{ID: "2", Name: "Noor", Category: "Formal", Price: 500, Stock: 20},
		{ID: "3", Name: "Gulnar", Category: "Bridal", Price: 200, Stock: 10},
	}

	SortProductsByName(products)
	assert.Equal(t, "Gulnar", products[0].Name)
	assert.Equal(t, "sabz Sitara", products[2].Name)

	assert.Len(t, FilterProducts(products, "bridal"), 2)
	assert.Len(t, FilterProducts(products, "noor"), 1)

	st := ComputeProductStats(products)
	assert.Equal(t, ProductStats{Total: 3, LowStock: 1, Featured: 1, InventoryValue: 3000 + 10000 + 2000}, st)
}

func TestWriteOrdersCSV(t *testing.T) {
	orders := sampleOrders()[:2]
	orders[0].Customer.Address = "12 Mall Road, Lahore, 54000"
	orders[0].Items = []models.OrderItem{{Name: "Sabz Sitara", Quantity: 1}, {Name: "Noor", Quantity: 2}}

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, orders))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, orderHeaders, rows[0])
	assert.Equal(t, []string{
		"o1", "Ayesha Khan", "ayesha@example.com", "03001234567", "12 Mall Road, Lahore, 54000",
		"Sabz Sitara (x1); Noor (x2)", "PKR 89,999", "Delivered", "Mar 1, 2025, 03:04 PM",
	}, rows[1])
	assert.Equal(t, "N/A", rows[2][3])
}

func TestWriteProductsCSV(t *testing.T) {
	products := []models.Product{{
		ID: "p1", Name: `Sabz "Sitara"`, Category: "Bridal", Price: 109999, Stock: 4,
		Sizes: []string{"S", "M"}, Colors: []string{"Gold"}, IsNew: true,
		Images: []string{"/a.jpg", "/b.jpg"}, Description: "Line one\nline two",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteProductsCSV(&buf, products))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	row := rows[1]
	assert.Equal(t, `Sabz "Sitara"`, row[1])
	assert.Equal(t, "PKR 1,09,999", row[3])
	assert.Equal(t, "S,M", row[6])
	assert.Equal(t, "Line one\nline two", row[9])
	assert.Equal(t, []string{"Yes", "No"}, row[11:13])
	assert.Equal(t, "/a.jpg,/b.jpg", row[13])
}

func TestExportFilename(t *testing.T) {
	day := time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "orders_2025-03-01.csv", ExportFilename("orders", day))
	assert.Equal(t, fmt.Sprintf("products_%s.csv", day.Format("2006-01-02")), ExportFilename("products", day))
}
