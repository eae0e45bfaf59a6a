// parser_test.go: unit tests for tracking file parsing
package tracking

import (
	"strings"
	"testing"

	"github.com/CARuizDiazFP/LAS-FOCAS--sub000/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSemicolonSeparated(t *testing.T) {
	input := "Camara A;10m\nCamara B;20m\n"

	source, err := Parse(strings.NewReader(input), "traza1")

	require.NoError(t, err)
	assert.Equal(t, "traza1", source.Name)
	require.Len(t, source.Records, 2)
	assert.Equal(t, ChamberRecord{Label: "Camara A", Distance: "10m"}, source.Records[0])
	assert.Equal(t, ChamberRecord{Label: "Camara B", Distance: "20m"}, source.Records[1])
}

func TestParseTabSeparated(t *testing.T) {
	input := "Camara A\t10m\nCamara B\t20m\n"

	source, err := Parse(strings.NewReader(input), "traza2")

	require.NoError(t, err)
	require.Len(t, source.Records, 2)
	assert.Equal(t, "Camara A", source.Records[0].Label)
	assert.Equal(t, "20m", source.Records[1].Distance)
}

func TestParseWhitespaceSeparated(t *testing.T) {
	// Without semicolons or tabs the line splits on whitespace, first field
	// label, second distance, the rest discarded.
	input := "CamaraA 10m trailing free text\n"

	source, err := Parse(strings.NewReader(input), "traza3")

	require.NoError(t, err)
	require.Len(t, source.Records, 1)
	assert.Equal(t, "CamaraA", source.Records[0].Label)
	assert.Equal(t, "10m", source.Records[0].Distance)
}

func TestParseSalvagesMalformedLines(t *testing.T) {
	t.Run("LabelOnly", func(t *testing.T) {
		source, err := Parse(strings.NewReader("CamaraSinDistancia\n"), "t")

		require.NoError(t, err)
		require.Len(t, source.Records, 1)
		assert.Equal(t, "CamaraSinDistancia", source.Records[0].Label)
		assert.Empty(t, source.Records[0].Distance)
	})

	t.Run("EmptyFields", func(t *testing.T) {
		source, err := Parse(strings.NewReader(";10m\n"), "t")

		require.NoError(t, err)
		require.Len(t, source.Records, 1)
		assert.Empty(t, source.Records[0].Label)
		assert.Equal(t, "10m", source.Records[0].Distance)
	})

	t.Run("ExtraFieldsDiscarded", func(t *testing.T) {
		source, err := Parse(strings.NewReader("Camara A;10m;ignored;also ignored\n"), "t")

		require.NoError(t, err)
		require.Len(t, source.Records, 1)
		assert.Equal(t, "Camara A", source.Records[0].Label)
		assert.Equal(t, "10m", source.Records[0].Distance)
	})
}

func TestParseSkipsBlankLines(t *testing.T) {
	input := "\nCamara A;10m\n\n   \nCamara B;20m\n\n"

	source, err := Parse(strings.NewReader(input), "t")

	require.NoError(t, err)
	assert.Len(t, source.Records, 2)
}

// failingReader simulates a broken input stream.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.NewStd("stream broken")
}

func TestParseReadErrorIsFatal(t *testing.T) {
	source, err := Parse(failingReader{}, "t")

	require.Error(t, err)
	assert.Nil(t, source)

	var enhanced *errors.EnhancedError
	require.True(t, errors.As(err, &enhanced))
	assert.Equal(t, errors.CategoryFileParsing, enhanced.Category)
}

func TestSheetName(t *testing.T) {
	t.Run("IllegalCharactersReplaced", func(t *testing.T) {
		assert.Equal(t, "a_b_c_d_e_f_g", SheetName(`a\b/c*d?e[f]g`))
	})

	t.Run("TruncatedTo31Runes", func(t *testing.T) {
		long := strings.Repeat("x", 40)
		assert.Len(t, []rune(SheetName(long)), 31)
	})

	t.Run("ShortNamesUnchanged", func(t *testing.T) {
		assert.Equal(t, "traza_principal", SheetName("traza_principal"))
	})
}
