package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/academiadanas/inscripciones/core/registro"
)

// Logger discards everything; services under test log liberally and the
// output only adds noise to test runs.
type Logger struct{}

func (Logger) Debug(string, ...interface{}) {}
func (Logger) Info(string, ...interface{})  {}
func (Logger) Warn(string, ...interface{})  {}
func (Logger) Error(string, ...interface{}) {}
func (Logger) Fatal(string, ...interface{}) {}

// NewRegistroFixture returns a valid, normalized submission payload. The
// contact pair is derived from n so fixtures stay distinguishable.
func NewRegistroFixture(n int) registro.NewRegistro {
	return registro.NewRegistro{
		Nombre:            "MARIA",
		ApellidoPaterno:   "LOPEZ",
		ApellidoMaterno:   "GARCIA",
		TelefonoCelular:   fmt.Sprintf("31712%05d", n),
		CorreoElectronico: fmt.Sprintf("maria%d@test.mx", n),
		EstadoCivil:       "SOLTERA",
		GradoEstudios:     "PREPARATORIA",
		FechaNacimiento:   "1995-04-12",

		PaisNacimiento:      "MEXICO",
		EstadoNacimiento:    "JALISCO",
		MunicipioNacimiento: "AUTLAN DE NAVARRO",

		CalleDomicilio:     "AV REVOLUCION",
		NumeroExterior:     "192",
		ColoniaDomicilio:   "CENTRO",
		CodigoPostal:       "48900",
		PaisDomicilio:      "MEXICO",
		EstadoDomicilio:    "JALISCO",
		MunicipioDomicilio: "AUTLAN DE NAVARRO",

		FamiliarNombre:     "JUAN LOPEZ",
		FamiliarParentesco: "PADRE",
		FamiliarTelefono:   fmt.Sprintf("31713%05d", n),

		EmergenciaNombre:     "ROSA GARCIA",
		EmergenciaParentesco: "MADRE",
		EmergenciaTelefono:   fmt.Sprintf("31714%05d", n),

		Curso: "COSMETOLOGIA",
	}
}

// CreateRegistro inserts a fixture straight through the repository, bypassing
// submission validation; createdAt overrides the registration stamp.
func CreateRegistro(t *testing.T, repo registro.Repository, n int, createdAt ...time.Time) registro.Registro {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	nr := NewRegistroFixture(n)
	reg := registro.Registro{
		Nombre:               nr.Nombre,
		ApellidoPaterno:      nr.ApellidoPaterno,
		ApellidoMaterno:      nr.ApellidoMaterno,
		TelefonoCelular:      nr.TelefonoCelular,
		CorreoElectronico:    nr.CorreoElectronico,
		EstadoCivil:          nr.EstadoCivil,
		GradoEstudios:        nr.GradoEstudios,
		FechaNacimiento:      nr.FechaNacimiento,
		PaisNacimiento:       nr.PaisNacimiento,
		CalleDomicilio:       nr.CalleDomicilio,
		NumeroExterior:       nr.NumeroExterior,
		ColoniaDomicilio:     nr.ColoniaDomicilio,
		CodigoPostal:         nr.CodigoPostal,
		PaisDomicilio:        nr.PaisDomicilio,
		FamiliarNombre:       nr.FamiliarNombre,
		FamiliarParentesco:   nr.FamiliarParentesco,
		FamiliarTelefono:     nr.FamiliarTelefono,
		EmergenciaNombre:     nr.EmergenciaNombre,
		EmergenciaParentesco: nr.EmergenciaParentesco,
		EmergenciaTelefono:   nr.EmergenciaTelefono,
		Curso:                nr.Curso,
		FechaRegistro:        tstamp,
		UpdatedAt:            tstamp,
	}
	reg.EstadoNacimiento.SetValid(nr.EstadoNacimiento)
	reg.MunicipioNacimiento.SetValid(nr.MunicipioNacimiento)
	reg.EstadoDomicilio.SetValid(nr.EstadoDomicilio)
	reg.MunicipioDomicilio.SetValid(nr.MunicipioDomicilio)

	reg, err := repo.CreateRegistro(context.Background(), reg)
	if err != nil {
		t.Fatalf("CreateRegistro() failed: %v", err)
	}
	return reg
}
