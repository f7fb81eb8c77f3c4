package filemgr

import "errors"

type PictureType string

const (
	PicProof   PictureType = "proof"
	PicProduct PictureType = "product"
)

var (
	AllowedExtensions = map[PictureType][]string{
		PicProof:   {".jpg", ".jpeg", ".png"},
		PicProduct: {".jpg", ".jpeg", ".png", ".webp"},
	}

	AllowedMIMEs = map[PictureType][]string{
		PicProof:   {"image/jpeg", "image/png"},
		PicProduct: {"image/jpeg", "image/png", "image/webp"},
	}

	// MaxSizes caps each upload in bytes.
	MaxSizes = map[PictureType]int64{
		PicProof:   5 << 20,
		PicProduct: 10 << 20,
	}

	// MaxDimensions bounds decoded width and height.
	MaxDimensions = map[PictureType]int{
		PicProof:   8000,
		PicProduct: 6000,
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
	ErrNotAnImage       = errors.New("file is not a readable image")
	ErrMissingFile      = errors.New("file is required")
)
