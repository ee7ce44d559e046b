package registry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/health-facility-map/internal/domain"
)

var header = []string{"Nominativo", "DescrizioneTipoStruttura", "Indirizzo", "comune", "prov_estesa", "Cap", "Telefono", "CodiceStruttura"}

func TestLoad_CSV(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "strutture.csv"), Options{})
	require.NoError(t, err)

	assert.Equal(t, header, table.Columns)
	require.Equal(t, 3, table.Len())

	first := table.Facilities[0]
	assert.Equal(t, 1, first.Row)
	assert.Equal(t, "Casa di Cura Villa Donatello", first.Name)
	assert.Equal(t, "CASA DI CURA", first.Category)
	assert.Equal(t, "Piazza Donatello 14", first.Street)
	assert.Equal(t, "Firenze", first.Municipality)
	assert.Equal(t, "FIRENZE", first.Province)
	assert.Equal(t, "50132.0", first.PostalCode, "normalization happens later")
	assert.Equal(t, "055 50975", first.Phone)
	assert.Equal(t, map[string]string{"CodiceStruttura": "S001"}, first.Extra)

	second := table.Facilities[1]
	assert.Equal(t, "Via dei Mille 3, int. 2", second.Street)
	assert.Empty(t, second.PostalCode)
	assert.Equal(t, "0574-22331", second.Phone)

	assert.Equal(t, "Studio Dentistico Rossi", table.Facilities[2].Name)
	assert.Nil(t, table.Facilities[2].Coordinates)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRead_MissingColumn(t *testing.T) {
	in := "Nominativo,DescrizioneTipoStruttura,Indirizzo,comune,prov_estesa,Cap\nA,B,C,D,E,F\n"
	_, err := Read(strings.NewReader(in), Options{})
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Telefono")
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""), Options{})
	require.ErrorIs(t, err, ErrEmpty)
}

func TestRead_SemicolonAndBOM(t *testing.T) {
	in := "\ufeffNominativo;DescrizioneTipoStruttura;Indirizzo;comune;prov_estesa;Cap;Telefono\n" +
		"Centro Fisio;CENTRO FISIOTERAPICO;Via Pisana 2;Livorno;LIVORNO;57121;0586 1\n"

	table, err := Read(strings.NewReader(in), Options{Delimiter: ';'})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Nominativo", table.Columns[0])
	assert.Equal(t, "Centro Fisio", table.Facilities[0].Name)
	assert.Nil(t, table.Facilities[0].Extra)
}

func TestRead_ShortRowsArePadded(t *testing.T) {
	in := "Nominativo,DescrizioneTipoStruttura,Indirizzo,comune,prov_estesa,Cap,Telefono,Note\n" +
		"Solo Nome,PSICOLOGI,Via X 1\n"

	table, err := Read(strings.NewReader(in), Options{})
	require.NoError(t, err)
	f := table.Facilities[0]
	assert.Equal(t, "Via X 1", f.Street)
	assert.Empty(t, f.Municipality)
	assert.Empty(t, f.Phone)
	assert.Equal(t, map[string]string{"Note": ""}, f.Extra)
}

func TestRead_Latin1(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Nominativo,DescrizioneTipoStruttura,Indirizzo,comune,prov_estesa,Cap,Telefono\n")
	buf.WriteString("Societ")
	buf.WriteByte(0xE0) // à in ISO-8859-1
	buf.WriteString(" Servizi,SOCIETA' DI SERVIZI,Via Forl")
	buf.WriteByte(0xEC) // ì
	buf.WriteString(" 1,Pisa,PISA,56100,050 1\n")

	table, err := Read(&buf, Options{Encoding: "latin1"})
	require.NoError(t, err)
	assert.Equal(t, "Società Servizi", table.Facilities[0].Name)
	assert.Equal(t, "Via Forlì 1", table.Facilities[0].Street)
}

func TestRead_UnsupportedEncoding(t *testing.T) {
	_, err := Read(strings.NewReader("x"), Options{Encoding: "utf-16"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported encoding")
}

func TestLoad_Workbook(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &header))
	row := []any{"Centro Diagnostico Toscano", "CENTRO DIAGNOSTICO", "Via Senese 5", "Firenze", "FIRENZE", 50124, "055 2299", "S010"}
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &row))

	path := filepath.Join(t.TempDir(), "strutture.xlsx")
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	table, err := Load(path, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	f := table.Facilities[0]
	assert.Equal(t, "Centro Diagnostico Toscano", f.Name)
	assert.Equal(t, "CENTRO DIAGNOSTICO", f.Category)
	assert.Equal(t, "50124", domain.NormalizePostalCode(f.PostalCode))
	assert.Equal(t, "055 2299", f.Phone)
	assert.Equal(t, "S010", f.Extra["CodiceStruttura"])
}
