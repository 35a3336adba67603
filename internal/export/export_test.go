package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testHeader = []string{"Nombre", "Matrícula", "Carrera"}
	testRows   = [][]string{
		{"Ana López", "A01111111", "ITC"},
		{"Juan Pérez, Jr.", "A02222222", "IIS"},
	}
)

func TestNewUnknownFormat(t *testing.T) {
	_, err := New("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf")
}

func TestCSVRender(t *testing.T) {
	exporter, err := New("csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", exporter.ContentType())
	assert.Equal(t, "csv", exporter.Extension())

	data, err := exporter.Render("Reporte", testHeader, testRows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Nombre,Matrícula,Carrera", lines[0])
	// commas inside a field are quoted
	assert.Contains(t, lines[2], `"Juan Pérez, Jr."`)
}

func TestCSVIsDefault(t *testing.T) {
	exporter, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "csv", exporter.Extension())
}

func TestExcelRender(t *testing.T) {
	exporter, err := New("excel")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", exporter.Extension())
	assert.Contains(t, exporter.ContentType(), "spreadsheetml")

	data, err := exporter.Render("Estudiantes", testHeader, testRows)
	require.NoError(t, err)

	// xlsx files are zip archives
	require.Greater(t, len(data), 2)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestRenderEmptyRows(t *testing.T) {
	for _, format := range []string{"csv", "excel"} {
		exporter, err := New(format)
		require.NoError(t, err)
		data, err := exporter.Render("Reporte", testHeader, nil)
		require.NoError(t, err, format)
		assert.NotEmpty(t, data, format)
	}
}
