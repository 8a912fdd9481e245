package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/registro"
)

var registroColumns = []string{
	"nombre", "apellido_paterno", "apellido_materno", "telefono_celular",
	"correo_electronico", "estado_civil", "grado_estudios", "fecha_nacimiento",
	"pais_nacimiento", "estado_nacimiento", "municipio_nacimiento", "lugar_nacimiento",
	"calle_domicilio", "numero_exterior", "numero_interior", "colonia_domicilio",
	"codigo_postal", "pais_domicilio", "estado_domicilio", "municipio_domicilio",
	"familiar_nombre", "familiar_parentesco", "familiar_telefono", "familiar_calle",
	"familiar_numero", "familiar_colonia", "familiar_codigo_postal", "familiar_pais",
	"familiar_estado", "familiar_municipio",
	"emergencia_nombre", "emergencia_parentesco", "emergencia_telefono",
	"curso", "ruta_ine", "ruta_acta_nacimiento", "ruta_comprobante_domicilio",
	"fecha_registro", "updated_at",
}

// document field -> ruta_* column; guards against arbitrary column names
var rutaColumns = map[string]string{
	registro.CampoINE:                  "ruta_ine",
	registro.CampoActaNacimiento:       "ruta_acta_nacimiento",
	registro.CampoComprobanteDomicilio: "ruta_comprobante_domicilio",
}

// newest registrations first, everywhere the dashboard lists them
var registroOrdering = core.DBOrdering{Field: "fecha_registro"}

type registroRepository struct {
	db core.DBExecutor
}

var _ registro.Repository = (*registroRepository)(nil) // interface compliance check

func NewRegistroRepository(db core.DBExecutor) *registroRepository {
	return &registroRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to registro.ErrNotFound
func (repo registroRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return registro.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo registroRepository) CreateRegistro(ctx context.Context, reg registro.Registro) (registro.Registro, error) {
	q := fmt.Sprintf(
		"INSERT INTO registros (%s) VALUES (:%s) RETURNING *",
		strings.Join(registroColumns, ", "),
		strings.Join(registroColumns, ", :"),
	)
	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return registro.Registro{}, errors.Wrap(err, "preparing registro insert")
	}
	defer func() { _ = stmt.Close() }()

	var created registro.Registro
	if err := stmt.GetContext(ctx, &created, reg); err != nil {
		return registro.Registro{}, errors.Wrap(err, "inserting registro")
	}
	return created, nil
}

func (repo registroRepository) GetRegistroByID(ctx context.Context, id int) (registro.Registro, error) {
	var reg registro.Registro
	if err := repo.db.GetContext(ctx, &reg, "SELECT * FROM registros WHERE id = $1", id); err != nil {
		return registro.Registro{}, repo.trapNoRowsErr(err, "getting registro")
	}
	return reg, nil
}

func (repo registroRepository) SearchRegistroByContacto(ctx context.Context, correo, telefono string) (registro.Registro, error) {
	var reg registro.Registro
	q := `SELECT * FROM registros
	      WHERE lower(correo_electronico) = lower($1) AND telefono_celular = $2
	      ORDER BY ` + registroOrdering.String() + ` LIMIT 1`
	if err := repo.db.GetContext(ctx, &reg, q, correo, telefono); err != nil {
		return registro.Registro{}, repo.trapNoRowsErr(err, "searching registro")
	}
	return reg, nil
}

func (repo registroRepository) FilterRegistros(ctx context.Context, filter registro.QueryFilter) ([]registro.Registro, int, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		where = append(where, fmt.Sprintf(
			"(nombre ILIKE %[1]s OR apellido_paterno ILIKE %[1]s OR apellido_materno ILIKE %[1]s"+
				" OR correo_electronico ILIKE %[1]s OR telefono_celular ILIKE %[1]s)", p))
	}
	if filter.Curso != "" {
		args = append(args, filter.Curso)
		where = append(where, fmt.Sprintf("curso = $%d", len(args)))
	}
	switch filter.Documentos {
	case "completos":
		where = append(where, "(ruta_ine IS NOT NULL AND ruta_acta_nacimiento IS NOT NULL AND ruta_comprobante_domicilio IS NOT NULL)")
	case "pendientes":
		where = append(where, "(ruta_ine IS NULL OR ruta_acta_nacimiento IS NULL OR ruta_comprobante_domicilio IS NULL)")
	}

	var cond string
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := repo.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM registros"+cond, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting registros")
	}

	args = append(args, filter.PorPagina, (filter.Pagina-1)*filter.PorPagina)
	q := fmt.Sprintf(
		"SELECT * FROM registros%s ORDER BY %s LIMIT $%d OFFSET $%d",
		cond, registroOrdering, len(args)-1, len(args),
	)
	regs := make([]registro.Registro, 0)
	if err := repo.db.SelectContext(ctx, &regs, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering registros")
	}
	return regs, total, nil
}

func (repo registroRepository) QueryAllRegistros(ctx context.Context) ([]registro.Registro, error) {
	regs := make([]registro.Registro, 0)
	if err := repo.db.SelectContext(ctx, &regs, "SELECT * FROM registros ORDER BY "+registroOrdering.String()); err != nil {
		return nil, errors.Wrap(err, "querying registros")
	}
	return regs, nil
}

func (repo registroRepository) UpdateRegistro(ctx context.Context, reg registro.Registro) (registro.Registro, error) {
	sets := make([]string, 0, len(registroColumns))
	for _, col := range registroColumns {
		// document paths and the registration stamp are managed separately
		if col == "ruta_ine" || col == "ruta_acta_nacimiento" || col == "ruta_comprobante_domicilio" || col == "fecha_registro" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = :%s", col, col))
	}
	q := fmt.Sprintf("UPDATE registros SET %s WHERE id = :id RETURNING *", strings.Join(sets, ", "))

	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return registro.Registro{}, errors.Wrap(err, "preparing registro update")
	}
	defer func() { _ = stmt.Close() }()

	var updated registro.Registro
	if err := stmt.GetContext(ctx, &updated, reg); err != nil {
		return registro.Registro{}, repo.trapNoRowsErr(err, "updating registro")
	}
	return updated, nil
}

func (repo registroRepository) UpdateDocumentRutas(ctx context.Context, id int, rutas map[string]string) error {
	sets := make([]string, 0, len(rutas))
	args := make([]interface{}, 0, len(rutas)+1)
	for campo, ruta := range rutas {
		col, ok := rutaColumns[campo]
		if !ok {
			return errors.Errorf("unknown document field %q", campo)
		}
		args = append(args, ruta)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	q := fmt.Sprintf("UPDATE registros SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return errors.Wrap(err, "updating document rutas")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return registro.ErrNotFound
	}
	return nil
}

func (repo registroRepository) DeleteRegistro(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM registros WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting registro")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return registro.ErrNotFound
	}
	return nil
}
