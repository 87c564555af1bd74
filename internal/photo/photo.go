package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/erazemk/magasin/internal/model"
)

// MaxDimension bounds the width and height of an uploaded tool photo.
const MaxDimension = 800

// Quality is the JPEG quality used for uploads.
const Quality = 80

// MaxInputSize is the largest source file Load accepts.
const MaxInputSize = 10 << 20

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Load reads the photo at path and prepares it for upload.
func Load(path string) (*model.Photo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening photo: %w", err)
	}
	defer f.Close()

	return Prepare(filepath.Base(path), io.LimitReader(f, MaxInputSize+1))
}

// Prepare sniffs the image format, shrinks it to fit MaxDimension and
// re-encodes it as JPEG. The returned photo keeps name with a .jpg extension.
func Prepare(name string, r io.Reader) (*model.Photo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("photo larger than %d bytes", MaxInputSize)
	}

	detected := http.DetectContentType(data)
	if !accepted[detected] {
		return nil, fmt.Errorf("unsupported photo format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}

	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encoding photo: %w", err)
	}

	return &model.Photo{
		Name: jpegName(name),
		MIME: "image/jpeg",
		Data: buf.Bytes(),
	}, nil
}

// fit scales img down so neither side exceeds limit, keeping the aspect ratio.
func fit(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}

	nw, nh := limit, limit
	if w > h {
		nh = int(float64(h) * float64(limit) / float64(w))
	} else {
		nw = int(float64(w) * float64(limit) / float64(h))
	}
	nw, nh = max(nw, 1), max(nh, 1)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func jpegName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "photo"
	}
	return base + ".jpg"
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
