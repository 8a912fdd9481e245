package xlsxsvc

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/academiadanas/inscripciones/core/registro"
)

func TestRegistros(t *testing.T) {
	r1 := registro.Registro{
		ID:                1,
		Nombre:            "MARIA",
		ApellidoPaterno:   "LOPEZ",
		ApellidoMaterno:   "GARCIA",
		CorreoElectronico: "maria@test.mx",
		TelefonoCelular:   "3171234567",
		Curso:             "COSMETOLOGIA",
		FechaRegistro:     time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	r1.RutaINE.SetValid("1/ine_1.pdf")
	r1.RutaActaNacimiento.SetValid("1/acta_nacimiento_1.pdf")
	r1.RutaComprobanteDomicilio.SetValid("1/comprobante_domicilio_1.pdf")

	r2 := registro.Registro{
		ID:                2,
		Nombre:            "JUAN",
		ApellidoPaterno:   "PEREZ",
		CorreoElectronico: "juan@test.mx",
		TelefonoCelular:   "3177654321",
		Curso:             "MICROPUNTURA",
		FechaRegistro:     time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
	}

	content, err := Registros([]registro.Registro{r1, r2})
	if err != nil {
		t.Fatalf("Registros() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows() failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}

	if !reflect.DeepEqual(rows[0], headers) {
		t.Errorf("header row = %v, want %v", rows[0], headers)
	}
	want1 := []string{"1", "MARIA LOPEZ GARCIA", "maria@test.mx", "3171234567", "COSMETOLOGIA", "15/03/2026", "Sí", "Sí", "Sí"}
	if !reflect.DeepEqual(rows[1], want1) {
		t.Errorf("row 1 = %v, want %v", rows[1], want1)
	}
	want2 := []string{"2", "JUAN PEREZ", "juan@test.mx", "3177654321", "MICROPUNTURA", "02/04/2026", "No", "No", "No"}
	if !reflect.DeepEqual(rows[2], want2) {
		t.Errorf("row 2 = %v, want %v", rows[2], want2)
	}
}

func TestRegistrosEmpty(t *testing.T) {
	content, err := Registros(nil)
	if err != nil {
		t.Fatalf("Registros() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("2026-09-01"); got != "registros_filtrados_2026-09-01.xlsx" {
		t.Errorf("FileName() = %q", got)
	}
}
