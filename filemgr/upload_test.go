package filemgr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestInspectAcceptsPNG(t *testing.T) {
	att, err := Inspect("Bank Receipt.PNG", "image/png", pngBytes(t, 4, 4), PicProof)
	require.NoError(t, err)
	assert.Equal(t, "image/png", att.ContentType)
	assert.Equal(t, "bank_receipt.png", att.Filename)
}

func TestInspectRejections(t *testing.T) {
	img := pngBytes(t, 4, 4)

	_, err := Inspect("receipt.pdf", "application/pdf", img, PicProof)
	assert.ErrorIs(t, err, ErrInvalidExtension)

	_, err = Inspect("receipt.png", "image/png", []byte("%PDF-1.4 definitely not an image"), PicProof)
	assert.ErrorIs(t, err, ErrInvalidMIME)

	big := make([]byte, MaxSizes[PicProof]+1)
	copy(big, img)
	_, err = Inspect("receipt.png", "image/png", big, PicProof)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	corrupt := append([]byte{}, img[:32]...)
	_, err = Inspect("receipt.png", "image/png", corrupt, PicProof)
	assert.ErrorIs(t, err, ErrNotAnImage)

	assert.True(t, IsClientError(err))
}

func TestInspectDimensions(t *testing.T) {
	saved := MaxDimensions[PicProduct]
	MaxDimensions[PicProduct] = 8
	defer func() { MaxDimensions[PicProduct] = saved }()

	_, err := Inspect("dress.png", "", pngBytes(t, 16, 4), PicProduct)
	assert.ErrorContains(t, err, "exceed allowed maximum")
}

func TestReadFormFiles(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range []string{"a.png", "b.png"} {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write(pngBytes(t, 2, 2))
	}
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)

	atts, err := ReadFormFiles(form, "images", PicProduct)
	require.NoError(t, err)
	require.Len(t, atts, 2)
	assert.Equal(t, "b.png", atts[1].Filename)

	missing, err := ReadFormFile(form, "paymentScreenshot", PicProof, false)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	_, err = ReadFormFile(form, "paymentScreenshot", PicProof, true)
	assert.ErrorIs(t, err, ErrMissingFile)
}
