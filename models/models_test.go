package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v int64) *int64 { return &v }

func gown() Product {
	return Product{
		ID: "1", Name: "Sabz Sitara", Price: 89999, OriginalPrice: price(109999),
		Images: []string{"a.jpg", "b.jpg"}, Colors: []string{"Gold", "Maroon"},
		Sizes: []string{"S", "M"}, Stock: 5,
	}
}

func TestProductValidate(t *testing.T) {
	require.NoError(t, gown().Validate())

	p := gown()
	p.OriginalPrice = price(100)
	assert.ErrorIs(t, p.Validate(), ErrInvalidProduct)

	p = gown()
	p.Sizes = nil
	assert.ErrorIs(t, p.Validate(), ErrInvalidProduct)

	p = gown()
	p.Stock = -1
	assert.ErrorIs(t, p.Validate(), ErrInvalidProduct)
}

func TestDiscount(t *testing.T) {
	d, ok := gown().Discount()
	assert.True(t, ok)
	assert.Equal(t, int64(20000), d)

	p := gown()
	p.OriginalPrice = nil
	_, ok = p.Discount()
	assert.False(t, ok)
}

func TestNewCartLine(t *testing.T) {
	line, err := NewCartLine(gown(), 2, "M", "Gold")
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", line.Image)
	assert.Equal(t, int64(179998), line.LineTotal())
	assert.Equal(t, LineKey{ProductID: "1", Size: "M", Color: "Gold"}, line.Key())

	_, err = NewCartLine(gown(), 1, "XXL", "Gold")
	assert.ErrorIs(t, err, ErrUnknownSize)
	_, err = NewCartLine(gown(), 1, "M", "Teal")
	assert.ErrorIs(t, err, ErrUnknownColor)
	_, err = NewCartLine(gown(), 0, "M", "Gold")
	assert.ErrorIs(t, err, ErrInvalidQty)
}

func TestLineKeyMatches(t *testing.T) {
	m := CartLine{ProductID: "1", SelectedSize: "M", SelectedColor: "Gold"}
	l := CartLine{ProductID: "1", SelectedSize: "L", SelectedColor: "Gold"}

	byProduct := LineKey{ProductID: "1"}
	assert.True(t, byProduct.Matches(m))
	assert.True(t, byProduct.Matches(l))

	exact := m.Key()
	assert.True(t, exact.Matches(m))
	assert.False(t, exact.Matches(l))

	assert.False(t, LineKey{ProductID: "2"}.Matches(m))
}

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus("Shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}

func TestFormatPKR(t *testing.T) {
	cases := map[int64]string{
		0:        "PKR 0",
		999:      "PKR 999",
		1500:     "PKR 1,500",
		89999:    "PKR 89,999",
		109999:   "PKR 1,09,999",
		10999900: "PKR 1,09,99,900",
		-1500:    "PKR -1,500",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPKR(in), in)
	}
}
