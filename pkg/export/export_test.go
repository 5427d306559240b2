package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(rows int) Dataset {
	data := Dataset{Headers: []string{"Day", "Slot", "Course"}}
	for i := 0; i < rows; i++ {
		data.Rows = append(data.Rows, map[string]string{"Day": "MONDAY", "Slot": fmt.Sprint(i + 1), "Course": "Algebra"})
	}
	return data
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestRendererCSV(t *testing.T) {
	out, err := NewRenderer().Render(FormatCSV, sampleDataset(1), "ignored")
	require.NoError(t, err)
	assert.Equal(t, "Day,Slot,Course\nMONDAY,1,Algebra\n", string(out))
}

func TestRendererPDFPaginates(t *testing.T) {
	out, err := NewRenderer().Render(FormatPDF, sampleDataset(120), "Timetable")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRendererRequiresHeaders(t *testing.T) {
	r := NewRenderer()
	_, err := r.Render(FormatCSV, Dataset{}, "")
	assert.Error(t, err)
	_, err = r.Render(FormatPDF, Dataset{}, "")
	assert.Error(t, err)
	_, err = r.Render(Format("xml"), sampleDataset(1), "")
	assert.Error(t, err)
}
