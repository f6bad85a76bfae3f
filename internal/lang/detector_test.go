package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowglass/inquest/api/schemas"
)

func TestDetectPortuguese(t *testing.T) {
	d := NewDetector()
	code, err := d.Detect("O relatório detalhado sobre a investigação foi elaborado com todas as informações relevantes encontradas nas buscas realizadas.")
	require.NoError(t, err)
	assert.Equal(t, "pt", code)
}

func TestDetectEnglish(t *testing.T) {
	d := NewDetector()
	code, err := d.Detect("The detailed report about the investigation was written with all the relevant information found during the searches.")
	require.NoError(t, err)
	assert.Equal(t, "en", code)
}

func TestDetectRejectsShortInput(t *testing.T) {
	d := NewDetector()
	for _, sample := range []string{"", "   ", "ok", "hi there"} {
		_, err := d.Detect(sample)
		var derr *schemas.DetectionError
		require.ErrorAs(t, err, &derr, "sample %q", sample)
	}
}
