// Package visionocr implements receipt analysis on the Google Cloud Vision
// text detection API.
package visionocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// maxWidth bounds the uploaded image. Phone photos are far larger than OCR
// needs and the API bills by payload.
const maxWidth = 1600

const jpegQuality = 85

type Analyzer struct {
	service *vision.Service
}

// New creates a Vision-backed analyzer authenticated by a service account
// JSON key file.
func New(ctx context.Context, credentialsFile string) (*Analyzer, error) {
	service, err := vision.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create vision service: %w", err)
	}
	return &Analyzer{service: service}, nil
}

var _ portssvc.ReceiptAnalyzer = (*Analyzer)(nil)

// Analyze normalizes the image, runs text detection with a Japanese
// language hint and parses the recognized text into a receipt analysis.
func (a *Analyzer) Analyze(ctx context.Context, imageBytes []byte) (*domain.ReceiptAnalysis, error) {
	normalized, err := normalizeImage(imageBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize receipt image: %w", err)
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:        &vision.Image{Content: base64.StdEncoding.EncodeToString(normalized)},
			Features:     []*vision.Feature{{Type: "TEXT_DETECTION"}},
			ImageContext: &vision.ImageContext{LanguageHints: []string{"ja"}},
		}},
	}

	resp, err := a.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("vision annotate failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, fmt.Errorf("vision returned no responses")
	}
	annotation := resp.Responses[0]
	if annotation.Error != nil {
		return nil, fmt.Errorf("vision annotation error: %s", annotation.Error.Message)
	}
	if annotation.FullTextAnnotation == nil || annotation.FullTextAnnotation.Text == "" {
		return &domain.ReceiptAnalysis{}, nil
	}

	return ParseReceiptText(annotation.FullTextAnnotation.Text), nil
}

// normalizeImage decodes any common format, shrinks oversized photos and
// re-encodes to JPEG.
func normalizeImage(imageBytes []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := encodeJPEG(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeJPEG(buf *bytes.Buffer, img image.Image) error {
	return imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
}
