// File: internal/imagemeta/exif.go

// Package imagemeta downloads an image and reports the EXIF metadata it
// carries, including a map link when GPS coordinates are embedded.
package imagemeta

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"go.uber.org/zap"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/config"
)

// User-facing messages.
const (
	msgNoExif      = "Nenhum dado EXIF encontrado na imagem."
	msgFetchFailed = "Erro ao baixar a imagem: %v"
	msgGPSHeader   = "Localização GPS"
)

// Metadata is the extracted EXIF view of one image.
type Metadata struct {
	Tags      map[string]string
	Latitude  float64
	Longitude float64
	HasGPS    bool
}

// MapsLink returns the Google Maps URL for the embedded coordinates, or ""
// when the image carries none.
func (m Metadata) MapsLink() string {
	if !m.HasGPS {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%.6f,%.6f", m.Latitude, m.Longitude)
}

// Inspector fetches images over HTTP and decodes their EXIF blocks.
type Inspector struct {
	httpClient *http.Client
	maxBytes   int64
	logger     *zap.Logger
}

// NewInspector builds an inspector from configuration.
func NewInspector(cfg config.ImageMetaConfig, logger *zap.Logger) *Inspector {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxBytes := cfg.MaxImageSize
	if maxBytes <= 0 {
		maxBytes = 20 << 20
	}
	return &Inspector{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
		logger:     logger.Named("imagemeta"),
	}
}

// Inspect downloads the image at the given URL and extracts its metadata.
// An image without an EXIF block is not an error; it yields empty metadata.
func (i *Inspector) Inspect(ctx context.Context, imageURL string) (Metadata, error) {
	meta := Metadata{Tags: map[string]string{}}

	body, err := i.download(ctx, imageURL)
	if err != nil {
		return meta, schemas.NewProviderError("imagemeta", err)
	}

	x, err := exif.Decode(bytes.NewReader(body))
	if err != nil {
		// Images routinely ship without EXIF; report empty metadata.
		i.logger.Debug("No EXIF block decoded",
			zap.String("url", imageURL),
			zap.Error(err))
		return meta, nil
	}

	collector := tagCollector{tags: meta.Tags}
	if err := x.Walk(&collector); err != nil {
		i.logger.Warn("EXIF walk aborted",
			zap.String("url", imageURL),
			zap.Error(err))
	}

	if lat, long, err := x.LatLong(); err == nil {
		meta.Latitude = lat
		meta.Longitude = long
		meta.HasGPS = true
	}

	i.logger.Info("Image metadata extracted",
		zap.String("url", imageURL),
		zap.Int("tags", len(meta.Tags)),
		zap.Bool("gps", meta.HasGPS))
	return meta, nil
}

// download fetches the image body with the configured size cap.
func (i *Inspector) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, i.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return body, nil
}

// tagCollector flattens EXIF fields into printable strings.
type tagCollector struct {
	tags map[string]string
}

func (c *tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	value := strings.Trim(tag.String(), `"`)
	if value != "" {
		c.tags[string(name)] = value
	}
	return nil
}

// Render formats metadata for display. Tags are listed in sorted order so
// output is stable; a GPS section with a map link is appended when present.
func Render(m Metadata) string {
	if len(m.Tags) == 0 && !m.HasGPS {
		return msgNoExif
	}

	names := make([]string, 0, len(m.Tags))
	for name := range m.Tags {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "%s: %s\n", name, m.Tags[name])
	}
	if m.HasGPS {
		fmt.Fprintf(&sb, "\n%s: %.6f, %.6f\n%s\n", msgGPSHeader, m.Latitude, m.Longitude, m.MapsLink())
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderError formats a download failure for display.
func RenderError(err error) string {
	return fmt.Sprintf(msgFetchFailed, err)
}
