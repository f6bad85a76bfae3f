// File: internal/lang/detector.go

// Package lang wraps trigram-based language detection behind the
// schemas.LanguageDetector interface so callers can verify that generated
// text came back in the language they asked for.
package lang

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/shadowglass/inquest/api/schemas"
)

// minInputRunes is the floor below which detection is too noisy to trust.
const minInputRunes = 12

// minConfidence rejects detections the library itself is unsure about.
const minConfidence = 0.5

// Detector detects the dominant language of a text sample.
type Detector struct{}

// NewDetector builds a detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the ISO 639-1 code of the dominant language, for example
// "pt" or "en". It returns a DetectionError when the sample is too short or
// the detection confidence is too low; callers are expected to treat that as
// "unknown" rather than as a failure.
func (d *Detector) Detect(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < minInputRunes {
		return "", schemas.NewDetectionError("sample too short")
	}

	info := whatlanggo.Detect(trimmed)
	if info.Lang == -1 {
		return "", schemas.NewDetectionError("no language recognized")
	}
	if info.Confidence < minConfidence {
		return "", schemas.NewDetectionError("detection confidence too low")
	}
	return info.Lang.Iso6391(), nil
}

var _ schemas.LanguageDetector = (*Detector)(nil)
