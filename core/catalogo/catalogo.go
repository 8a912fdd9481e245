// Package catalogo serves the estado/municipio reference data backing the
// location pickers on the enrollment form.
package catalogo

import (
	"context"
	"sort"
)

type (
	Entry struct {
		ID        int    `db:"id" json:"-"`
		Estado    string `db:"estado" json:"estado"`
		Municipio string `db:"municipio" json:"municipio"`
	}

	Repository interface {
		QueryAllEntries(ctx context.Context) ([]Entry, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Agrupados groups municipios under their estado. Estados come out sorted and
// each municipio list keeps the repository order.
func (svc *Service) Agrupados(ctx context.Context) (map[string][]string, []string, error) {
	entries, err := svc.repo.QueryAllEntries(ctx)
	if err != nil {
		return nil, nil, err
	}
	grouped := make(map[string][]string)
	for _, e := range entries {
		grouped[e.Estado] = append(grouped[e.Estado], e.Municipio)
	}
	estados := make([]string, 0, len(grouped))
	for estado := range grouped {
		estados = append(estados, estado)
	}
	sort.Strings(estados)
	return grouped, estados, nil
}
