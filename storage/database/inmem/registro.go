package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/academiadanas/inscripciones/core/registro"
)

var registroPKCount int

type registroRepository struct {
	db *registroTable
}

var _ registro.Repository = (*registroRepository)(nil)

func NewRegistroRepository(db *DB) *registroRepository {
	return &registroRepository{db: db.registro}
}

// query returns records newest first.
func (repo *registroRepository) query() []registro.Registro {
	regs := make([]registro.Registro, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		regs = append(regs, *r)
	}
	sort.Slice(regs, func(i, j int) bool {
		if regs[i].FechaRegistro.Equal(regs[j].FechaRegistro) {
			return regs[i].ID > regs[j].ID
		}
		return regs[i].FechaRegistro.After(regs[j].FechaRegistro)
	})
	return regs
}

func (repo *registroRepository) CreateRegistro(_ context.Context, reg registro.Registro) (registro.Registro, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	registroPKCount++
	reg.ID = registroPKCount
	repo.db.table[reg.ID] = &reg
	return reg, nil
}

func (repo *registroRepository) GetRegistroByID(_ context.Context, id int) (registro.Registro, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if reg, ok := repo.db.table[id]; ok {
		return *reg, nil
	}
	return registro.Registro{}, registro.ErrNotFound
}

func (repo *registroRepository) SearchRegistroByContacto(_ context.Context, correo, telefono string) (registro.Registro, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, reg := range repo.query() {
		if strings.EqualFold(reg.CorreoElectronico, correo) && reg.TelefonoCelular == telefono {
			return reg, nil
		}
	}
	return registro.Registro{}, registro.ErrNotFound
}

func (repo *registroRepository) FilterRegistros(_ context.Context, filter registro.QueryFilter) ([]registro.Registro, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	matched := make([]registro.Registro, 0)
	for _, reg := range repo.query() {
		if !matches(reg, filter) {
			continue
		}
		matched = append(matched, reg)
	}

	total := len(matched)
	start := (filter.Pagina - 1) * filter.PorPagina
	if start >= total {
		return []registro.Registro{}, total, nil
	}
	end := start + filter.PorPagina
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matches(reg registro.Registro, filter registro.QueryFilter) bool {
	if filter.Search != "" {
		kw := strings.ToLower(filter.Search)
		haystack := strings.ToLower(strings.Join([]string{
			reg.Nombre, reg.ApellidoPaterno, reg.ApellidoMaterno,
			reg.CorreoElectronico, reg.TelefonoCelular,
		}, " "))
		if !strings.Contains(haystack, kw) {
			return false
		}
	}
	if filter.Curso != "" && reg.Curso != filter.Curso {
		return false
	}
	switch filter.Documentos {
	case "completos":
		if !reg.DocumentosCompletos() {
			return false
		}
	case "pendientes":
		if reg.DocumentosCompletos() {
			return false
		}
	}
	return true
}

func (repo *registroRepository) QueryAllRegistros(_ context.Context) ([]registro.Registro, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *registroRepository) UpdateRegistro(_ context.Context, reg registro.Registro) (registro.Registro, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[reg.ID]
	if !ok {
		return registro.Registro{}, registro.ErrNotFound
	}
	// document paths and the registration stamp are managed separately
	reg.RutaINE = orig.RutaINE
	reg.RutaActaNacimiento = orig.RutaActaNacimiento
	reg.RutaComprobanteDomicilio = orig.RutaComprobanteDomicilio
	reg.FechaRegistro = orig.FechaRegistro
	repo.db.table[reg.ID] = &reg
	return reg, nil
}

func (repo *registroRepository) UpdateDocumentRutas(_ context.Context, id int, rutas map[string]string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	reg, ok := repo.db.table[id]
	if !ok {
		return registro.ErrNotFound
	}
	for campo, ruta := range rutas {
		switch campo {
		case registro.CampoINE:
			reg.RutaINE.SetValid(ruta)
		case registro.CampoActaNacimiento:
			reg.RutaActaNacimiento.SetValid(ruta)
		case registro.CampoComprobanteDomicilio:
			reg.RutaComprobanteDomicilio.SetValid(ruta)
		}
	}
	return nil
}

func (repo *registroRepository) DeleteRegistro(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return registro.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
