package report_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/cte-report/internal/domain/entity"
	"github.com/jhoicas/cte-report/internal/infrastructure/report"
	"github.com/jhoicas/cte-report/pkg/cte"
)

func ptr(s string) *string { return &s }

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func sampleRows() []entity.ReportRow {
	issued := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	full := entity.ReportRow{
		IssuerName:       ptr("TRANSPORTES RAPIDO LTDA"),
		IssueDate:        &issued,
		PartnerDocNumber: ptr("000987-1"),
		DocumentNumber:   ptr("12345"),
		SenderName:       ptr("INDUSTRIA REMETENTE SA"),
		ReceiverName:     ptr("DISTRIBUIDORA RECEBEDORA ME"),
		FreightValue:     dec("1500.50"),
		FretePeso:        dec("1200.00"),
		GRIS:             dec("150.25"),
		Pedagio:          dec("150.25"),
		M3:               dec("12.5"),
		PesoReal:         dec("850"),
		PesoBaseCalculo:  dec("3125"),
		CargoValue:       dec("45000"),
	}
	partial := entity.ReportRow{IssuerName: ptr("TRANSPORTADORA MINIMA")}
	return []entity.ReportRow{full, partial}
}

func TestCSVWriter_FilasYEncabezado(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cte_data.csv")
	require.NoError(t, report.NewCSVWriter().Write(path, sampleRows()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, cte.Columns, records[0])
	assert.Equal(t, []string{
		"TRANSPORTES RAPIDO LTDA", "2024-03-15", "000987-1", "12345",
		"INDUSTRIA REMETENTE SA", "DISTRIBUIDORA RECEBEDORA ME",
		"1500.5", "1200", "150.25", "150.25", "12.5", "850", "3125", "45000",
	}, records[1])
	assert.Equal(t, "TRANSPORTADORA MINIMA", records[2][0])
	for _, v := range records[2][1:] {
		assert.Empty(t, v)
	}
}

func TestCSVWriter_SinFilasSoloEncabezado(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vacio.csv")
	require.NoError(t, report.NewCSVWriter().Write(path, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, cte.Columns, records[0])
}

func TestCSVWriter_SobrescribeArchivoPrevio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cte_data.csv")
	require.NoError(t, os.WriteFile(path, []byte("contenido viejo\nmas lineas\nmas\nmas\n"), 0o600))

	require.NoError(t, report.NewCSVWriter().Write(path, sampleRows()[:1]))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".*-cte_data.csv"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestXLSXWriter_Celdas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cte_data.xlsx")
	require.NoError(t, report.NewXLSXWriter().Write(path, sampleRows()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	for i, col := range cte.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		v, err := f.GetCellValue(report.SheetName, cell)
		require.NoError(t, err)
		assert.Equal(t, col, v)
	}

	v, _ := f.GetCellValue(report.SheetName, "A2")
	assert.Equal(t, "TRANSPORTES RAPIDO LTDA", v)

	raw, _ := f.GetCellValue(report.SheetName, "G2", excelize.Options{RawCellValue: true})
	freight, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)
	assert.InDelta(t, 1500.50, freight, 1e-9)

	rawDate, _ := f.GetCellValue(report.SheetName, "B2", excelize.Options{RawCellValue: true})
	serial, err := strconv.ParseFloat(rawDate, 64)
	require.NoError(t, err)
	issued, err := excelize.ExcelDateToTime(serial, false)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", issued.Format("2006-01-02"))

	// Fila parcial: solo el emisor.
	v, _ = f.GetCellValue(report.SheetName, "A3")
	assert.Equal(t, "TRANSPORTADORA MINIMA", v)
	for _, cell := range []string{"B3", "C3", "G3", "N3"} {
		v, _ = f.GetCellValue(report.SheetName, cell)
		assert.Empty(t, v, cell)
	}
}

func TestWriters_PermisosDelArchivoFinal(t *testing.T) {
	dir := t.TempDir()
	writers := map[string]report.Writer{
		"cte_data.csv":  report.NewCSVWriter(),
		"cte_data.xlsx": report.NewXLSXWriter(),
	}
	for name, w := range writers {
		path := filepath.Join(dir, name)
		require.NoError(t, w.Write(path, sampleRows()))

		st, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), st.Mode().Perm(), name)
	}
}

func TestNewWriterFor(t *testing.T) {
	assert.IsType(t, &report.CSVWriter{}, report.NewWriterFor("saida.CSV"))
	assert.IsType(t, &report.XLSXWriter{}, report.NewWriterFor("cte_data.xlsx"))
	assert.IsType(t, &report.XLSXWriter{}, report.NewWriterFor("sem_extensao"))
}
