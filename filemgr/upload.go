package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"heritage/models"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Inspect checks an in-memory upload against the rules for picType and
// returns it as an attachment. The declared content type is only used when
// sniffing can't tell.
func Inspect(filename, declaredType string, data []byte, picType PictureType) (models.Attachment, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !isExtensionAllowed(ext, picType) {
		return models.Attachment{}, fmt.Errorf("%w: %q for %s", ErrInvalidExtension, ext, picType)
	}

	if limit := MaxSizes[picType]; limit > 0 && int64(len(data)) > limit {
		return models.Attachment{}, fmt.Errorf("%w: %d bytes for %s", ErrFileTooLarge, len(data), picType)
	}

	mimeType := http.DetectContentType(data)
	if mimeType == "application/octet-stream" && declaredType != "" {
		mimeType = declaredType
	}
	if !isMIMEAllowed(mimeType, picType) {
		return models.Attachment{}, fmt.Errorf("%w: %s for %s", ErrInvalidMIME, mimeType, picType)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return models.Attachment{}, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if limit := MaxDimensions[picType]; limit > 0 {
		if err := ValidateImageDimensions(img, limit, limit); err != nil {
			return models.Attachment{}, err
		}
	}

	return models.Attachment{
		Filename:    ensureSafeFilename(filename, ext),
		ContentType: mimeType,
		Data:        data,
	}, nil
}

// ReadUpload reads one multipart file and inspects it. Reading stops one
// byte past the limit so oversized files are rejected without buffering
// them whole.
func ReadUpload(header *multipart.FileHeader, picType PictureType) (models.Attachment, error) {
	if limit := MaxSizes[picType]; limit > 0 && header.Size > limit {
		return models.Attachment{}, fmt.Errorf("%w: %d bytes for %s", ErrFileTooLarge, header.Size, picType)
	}

	f, err := header.Open()
	if err != nil {
		return models.Attachment{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if limit := MaxSizes[picType]; limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("read upload: %w", err)
	}
	return Inspect(header.Filename, header.Header.Get("Content-Type"), data, picType)
}

// ReadFormFile reads the single file under formKey. A missing file yields
// ErrMissingFile only when required.
func ReadFormFile(form *multipart.Form, formKey string, picType PictureType, required bool) (*models.Attachment, error) {
	files := form.File[formKey]
	if len(files) == 0 {
		if required {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, formKey)
		}
		return nil, nil
	}
	att, err := ReadUpload(files[0], picType)
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func ReadFormFiles(form *multipart.Form, formKey string, picType PictureType) ([]models.Attachment, error) {
	var out []models.Attachment
	for _, fh := range form.File[formKey] {
		att, err := ReadUpload(fh, picType)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}
		out = append(out, att)
	}
	return out, nil
}

// IsClientError reports whether err came from a rejected upload rather than
// an I/O failure.
func IsClientError(err error) bool {
	for _, target := range []error{ErrInvalidExtension, ErrInvalidMIME, ErrFileTooLarge, ErrNotAnImage, ErrMissingFile} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func ValidateImageDimensions(img image.Image, maxWidth, maxHeight int) error {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		return fmt.Errorf("image dimensions %dx%d exceed allowed maximum %dx%d", width, height, maxWidth, maxHeight)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

func ensureSafeFilename(name, ext string) string {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" {
		name = "file"
	}
	return name + ext
}

func isExtensionAllowed(ext string, picType PictureType) bool {
	return slices.Contains(AllowedExtensions[picType], ext)
}

func isMIMEAllowed(mimeType string, picType PictureType) bool {
	return slices.Contains(AllowedMIMEs[picType], mimeType)
}
