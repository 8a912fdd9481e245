package catalogo

import (
	"context"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

type stubRepo struct {
	entries []Entry
	err     error
}

func (r stubRepo) QueryAllEntries(context.Context) ([]Entry, error) { return r.entries, r.err }

func TestServiceAgrupados(t *testing.T) {
	svc := NewService(stubRepo{entries: []Entry{
		{Estado: "JALISCO", Municipio: "AUTLAN DE NAVARRO"},
		{Estado: "COLIMA", Municipio: "COLIMA"},
		{Estado: "JALISCO", Municipio: "EL GRULLO"},
		{Estado: "COLIMA", Municipio: "TECOMAN"},
	}})

	grouped, estados, err := svc.Agrupados(context.Background())
	if err != nil {
		t.Fatalf("Agrupados() error = %v", err)
	}
	if want := []string{"COLIMA", "JALISCO"}; !reflect.DeepEqual(estados, want) {
		t.Errorf("estados = %v, want %v", estados, want)
	}
	if want := []string{"AUTLAN DE NAVARRO", "EL GRULLO"}; !reflect.DeepEqual(grouped["JALISCO"], want) {
		t.Errorf("JALISCO = %v, want %v", grouped["JALISCO"], want)
	}
	if want := []string{"COLIMA", "TECOMAN"}; !reflect.DeepEqual(grouped["COLIMA"], want) {
		t.Errorf("COLIMA = %v, want %v", grouped["COLIMA"], want)
	}
}

func TestServiceAgrupadosError(t *testing.T) {
	svc := NewService(stubRepo{err: errors.New("db down")})
	if _, _, err := svc.Agrupados(context.Background()); err == nil {
		t.Error("Agrupados() expected an error")
	}
}
