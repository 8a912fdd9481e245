package pdfsvc

import (
	"bytes"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/academiadanas/inscripciones/core/registro"
)

func fixture() registro.Registro {
	reg := registro.Registro{
		ID:                7,
		Nombre:            "MARIA",
		ApellidoPaterno:   "LOPEZ",
		ApellidoMaterno:   "GARCIA",
		TelefonoCelular:   "3171234567",
		CorreoElectronico: "maria@test.mx",
		EstadoCivil:       "SOLTERA",
		GradoEstudios:     "PREPARATORIA",
		FechaNacimiento:   "1995-04-12",
		PaisNacimiento:    "MEXICO",
		CalleDomicilio:    "AV REVOLUCION",
		NumeroExterior:    "192",
		ColoniaDomicilio:  "CENTRO",
		CodigoPostal:      "48900",
		PaisDomicilio:     "MEXICO",
		Curso:             "COSMETOLOGIA",
		FechaRegistro:     time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC),
	}
	reg.EstadoNacimiento = null.StringFrom("JALISCO")
	reg.MunicipioNacimiento = null.StringFrom("AUTLAN DE NAVARRO")
	reg.EstadoDomicilio = null.StringFrom("JALISCO")
	reg.MunicipioDomicilio = null.StringFrom("AUTLAN DE NAVARRO")
	return reg
}

func TestComprobante(t *testing.T) {
	rd := NewRenderer()

	pdf, err := rd.Comprobante(fixture())
	if err != nil {
		t.Fatalf("Comprobante() error = %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("Comprobante() is not a PDF (%d bytes)", len(pdf))
	}
	if len(pdf) < 1000 {
		t.Errorf("Comprobante() suspiciously small: %d bytes", len(pdf))
	}
}

func TestComprobanteDeterministic(t *testing.T) {
	rd := NewRenderer()
	reg := fixture()

	first, err := rd.Comprobante(reg)
	if err != nil {
		t.Fatalf("Comprobante() error = %v", err)
	}
	second, err := rd.Comprobante(reg)
	if err != nil {
		t.Fatalf("Comprobante() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Comprobante() renders different bytes for the same record")
	}
}

func TestComprobanteEmptyOptionalFields(t *testing.T) {
	reg := fixture()
	reg.EstadoCivil = ""
	reg.GradoEstudios = ""
	reg.NumeroInterior = null.String{}

	if _, err := NewRenderer().Comprobante(reg); err != nil {
		t.Fatalf("Comprobante() error = %v", err)
	}
}
