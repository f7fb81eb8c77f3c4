package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"heritage/models"
)

// ProductForm is the admin create/update payload. Images are new uploads;
// an update without images keeps the product's current ones.
type ProductForm struct {
	Name             string
	Price            int64
	Stock            int
	Category         string
	Description      string
	Fabric           string
	Sizes            []string
	Colors           []string
	Occasion         string
	CareInstructions string
	IsNew            bool
	IsFeatured       bool
	Images           []models.Attachment
}

// Validate applies the rules every purchasable product must meet, so a
// saved product can always be added to a cart.
func (f ProductForm) Validate() error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return fmt.Errorf("%w: name is required", models.ErrInvalidProduct)
	case f.Price <= 0:
		return fmt.Errorf("%w: price must be positive", models.ErrInvalidProduct)
	case f.Stock < 0:
		return fmt.Errorf("%w: stock cannot be negative", models.ErrInvalidProduct)
	case strings.TrimSpace(f.Category) == "":
		return fmt.Errorf("%w: category is required", models.ErrInvalidProduct)
	case len(f.Sizes) == 0:
		return fmt.Errorf("%w: at least one size is required", models.ErrInvalidProduct)
	case len(f.Colors) == 0:
		return fmt.Errorf("%w: at least one color is required", models.ErrInvalidProduct)
	}
	return nil
}

func (f ProductForm) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", f.Name},
		{"price", strconv.FormatInt(f.Price, 10)},
		{"stock", strconv.Itoa(f.Stock)},
		{"category", f.Category},
		{"description", f.Description},
		{"fabric", f.Fabric},
		{"sizes", strings.Join(f.Sizes, ",")},
		{"colors", strings.Join(f.Colors, ",")},
		{"occasion", f.Occasion},
		{"careInstructions", f.CareInstructions},
		{"isNew", strconv.FormatBool(f.IsNew)},
		{"isFeatured", strconv.FormatBool(f.IsFeatured)},
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}
	for _, img := range f.Images {
		if err := writeFile(mw, "images", img); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func orderMultipart(req models.OrderRequest, proof models.Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	items, err := json.Marshal(req.Items)
	if err != nil {
		return nil, "", fmt.Errorf("encode items: %w", err)
	}
	customer, err := json.Marshal(req.Customer)
	if err != nil {
		return nil, "", fmt.Errorf("encode customer: %w", err)
	}

	fields := [][2]string{
		{"items", string(items)},
		{"customer", string(customer)},
		{"subtotal", strconv.FormatInt(req.Subtotal, 10)},
		{"shipping", strconv.FormatInt(req.Shipping, 10)},
		{"total", strconv.FormatInt(req.Total, 10)},
		{"paymentMethod", string(req.PaymentMethod)},
		{"status", string(req.Status)},
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}
	if err := writeFile(mw, "paymentScreenshot", proof); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func writeFile(mw *multipart.Writer, field string, att models.Attachment) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, att.Filename))
	ct := att.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", field, err)
	}
	if _, err := part.Write(att.Data); err != nil {
		return fmt.Errorf("write part %s: %w", field, err)
	}
	return nil
}
