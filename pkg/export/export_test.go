package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Project Data Export",
		Headers: []string{"Title", "Status", "Technologies"},
		Rows: []map[string]string{
			{"Title": "Smart Campus", "Status": "approved", "Technologies": "Go, Postgres"},
			{"Title": "Crop Advisor", "Status": "pending"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	data, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Title", "Status", "Technologies"}, records[0])
	assert.Equal(t, []string{"Smart Campus", "approved", "Go, Postgres"}, records[1])
	assert.Equal(t, []string{"Crop Advisor", "pending", ""}, records[2])
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewXLSXExporter("").Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	data, err := NewXLSXExporter("Projects").Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{"Projects"}, f.GetSheetList())
	rows, err := f.GetRows("Projects")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Smart Campus", rows[1][0])
	assert.Equal(t, "Go, Postgres", rows[1][2])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("a", 50)
	assert.Equal(t, strings.Repeat("a", 37)+"...", truncate(long, 40))
}
