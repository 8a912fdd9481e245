package registro

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/academiadanas/inscripciones/core"
)

// Registro is one enrolled applicant. Column/json names are the wire contract
// the admin tooling and spreadsheet export depend on.
type Registro struct {
	ID int `db:"id" json:"id"`

	// datos personales
	Nombre            string `db:"nombre" json:"nombre"`
	ApellidoPaterno   string `db:"apellido_paterno" json:"apellido_paterno"`
	ApellidoMaterno   string `db:"apellido_materno" json:"apellido_materno"`
	TelefonoCelular   string `db:"telefono_celular" json:"telefono_celular"`
	CorreoElectronico string `db:"correo_electronico" json:"correo_electronico"`
	EstadoCivil       string `db:"estado_civil" json:"estado_civil"`
	GradoEstudios     string `db:"grado_estudios" json:"grado_estudios"`
	FechaNacimiento   string `db:"fecha_nacimiento" json:"fecha_nacimiento"`

	// lugar de nacimiento
	PaisNacimiento      string      `db:"pais_nacimiento" json:"pais_nacimiento"`
	EstadoNacimiento    null.String `db:"estado_nacimiento" json:"estado_nacimiento"`
	MunicipioNacimiento null.String `db:"municipio_nacimiento" json:"municipio_nacimiento"`
	LugarNacimiento     null.String `db:"lugar_nacimiento" json:"lugar_nacimiento"`

	// domicilio
	CalleDomicilio     string      `db:"calle_domicilio" json:"calle_domicilio"`
	NumeroExterior     string      `db:"numero_exterior" json:"numero_exterior"`
	NumeroInterior     null.String `db:"numero_interior" json:"numero_interior"`
	ColoniaDomicilio   string      `db:"colonia_domicilio" json:"colonia_domicilio"`
	CodigoPostal       string      `db:"codigo_postal" json:"codigo_postal"`
	PaisDomicilio      string      `db:"pais_domicilio" json:"pais_domicilio"`
	EstadoDomicilio    null.String `db:"estado_domicilio" json:"estado_domicilio"`
	MunicipioDomicilio null.String `db:"municipio_domicilio" json:"municipio_domicilio"`

	// contacto familiar
	FamiliarNombre       string      `db:"familiar_nombre" json:"familiar_nombre"`
	FamiliarParentesco   string      `db:"familiar_parentesco" json:"familiar_parentesco"`
	FamiliarTelefono     string      `db:"familiar_telefono" json:"familiar_telefono"`
	FamiliarCalle        null.String `db:"familiar_calle" json:"familiar_calle"`
	FamiliarNumero       null.String `db:"familiar_numero" json:"familiar_numero"`
	FamiliarColonia      null.String `db:"familiar_colonia" json:"familiar_colonia"`
	FamiliarCodigoPostal null.String `db:"familiar_codigo_postal" json:"familiar_codigo_postal"`
	FamiliarPais         null.String `db:"familiar_pais" json:"familiar_pais"`
	FamiliarEstado       null.String `db:"familiar_estado" json:"familiar_estado"`
	FamiliarMunicipio    null.String `db:"familiar_municipio" json:"familiar_municipio"`

	// contacto de emergencia
	EmergenciaNombre     string `db:"emergencia_nombre" json:"emergencia_nombre"`
	EmergenciaParentesco string `db:"emergencia_parentesco" json:"emergencia_parentesco"`
	EmergenciaTelefono   string `db:"emergencia_telefono" json:"emergencia_telefono"`

	Curso string `db:"curso" json:"curso"`

	// documentos
	RutaINE                  null.String `db:"ruta_ine" json:"ruta_ine"`
	RutaActaNacimiento       null.String `db:"ruta_acta_nacimiento" json:"ruta_acta_nacimiento"`
	RutaComprobanteDomicilio null.String `db:"ruta_comprobante_domicilio" json:"ruta_comprobante_domicilio"`

	FechaRegistro time.Time `db:"fecha_registro" json:"fecha_registro"` // UTC
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`         // UTC
}

func (r Registro) NombreCompleto() string {
	return strings.TrimSpace(r.Nombre + " " + r.ApellidoPaterno + " " + r.ApellidoMaterno)
}

// DocumentosCompletos reports whether all three document references are set.
func (r Registro) DocumentosCompletos() bool {
	return r.RutaINE.Valid && r.RutaActaNacimiento.Valid && r.RutaComprobanteDomicilio.Valid
}

// Pais tags the country-conditional location blocks.
type Pais string

const (
	PaisMexico        Pais = "MEXICO"
	PaisEstadosUnidos Pais = "ESTADOS UNIDOS"
	PaisOtro          Pais = "OTRO"
)

// Ubicacion is the three-way country-conditional block used for birth place,
// residence and the family contact address. Only the fields matching Pais are
// meaningful: MEXICO carries Estado+Municipio, ESTADOS UNIDOS carries Estado,
// OTRO carries OtroPais plus a free-text Detalle.
type Ubicacion struct {
	Pais      Pais
	Estado    string
	Municipio string
	OtroPais  string
	Detalle   string
}

// Document field names; storage keys and ruta_* columns derive from these.
const (
	CampoINE                  = "ine"
	CampoActaNacimiento       = "acta_nacimiento"
	CampoComprobanteDomicilio = "comprobante_domicilio"
)

// Archivo is one uploaded document.
type Archivo struct {
	Campo       string
	Nombre      string
	ContentType string
	Contenido   []byte
}

func (a Archivo) Size() int { return len(a.Contenido) }

// Extension returns the file extension without the dot, defaulting to pdf.
func (a Archivo) Extension() string {
	if idx := strings.LastIndex(a.Nombre, "."); idx >= 0 && idx < len(a.Nombre)-1 {
		return strings.ToLower(a.Nombre[idx+1:])
	}
	return "pdf"
}

// EstadoArchivo is the per-file intake outcome; a skipped or failed file never
// fails the overall submission.
type EstadoArchivo int

const (
	ArchivoSubido EstadoArchivo = iota
	ArchivoOmitidoTamano
	ArchivoOmitidoTipo
	ArchivoFalloSubida
)

type ArchivoResultado struct {
	Campo  string
	Estado EstadoArchivo
	Ruta   string
	Err    error
}

// NewRegistro is the assembled submission payload. Field names match the
// multipart form contract.
type NewRegistro struct {
	Nombre            string `json:"nombre" form:"nombre" validate:"required"`
	ApellidoPaterno   string `json:"apellido_paterno" form:"apellido_paterno" validate:"required"`
	ApellidoMaterno   string `json:"apellido_materno" form:"apellido_materno" validate:"required"`
	TelefonoCelular   string `json:"telefono_celular" form:"telefono_celular" validate:"required,len=10,digitsonly"`
	CorreoElectronico string `json:"correo_electronico" form:"correo_electronico" validate:"required,email"`
	EstadoCivil       string `json:"estado_civil" form:"estado_civil" validate:"required"`
	GradoEstudios     string `json:"grado_estudios" form:"grado_estudios" validate:"required"`
	FechaNacimiento   string `json:"fecha_nacimiento" form:"fecha_nacimiento" validate:"required"`

	PaisNacimiento      string `json:"pais_nacimiento" form:"pais_nacimiento" validate:"required"`
	EstadoNacimiento    string `json:"estado_nacimiento" form:"estado_nacimiento" validate:"omitempty"`
	MunicipioNacimiento string `json:"municipio_nacimiento" form:"municipio_nacimiento" validate:"omitempty"`
	LugarNacimiento     string `json:"lugar_nacimiento" form:"lugar_nacimiento" validate:"omitempty"`

	CalleDomicilio     string `json:"calle_domicilio" form:"calle_domicilio" validate:"required"`
	NumeroExterior     string `json:"numero_exterior" form:"numero_exterior" validate:"required"`
	NumeroInterior     string `json:"numero_interior" form:"numero_interior" validate:"omitempty"`
	ColoniaDomicilio   string `json:"colonia_domicilio" form:"colonia_domicilio" validate:"required"`
	CodigoPostal       string `json:"codigo_postal" form:"codigo_postal" validate:"required,len=5,digitsonly"`
	PaisDomicilio      string `json:"pais_domicilio" form:"pais_domicilio" validate:"required"`
	EstadoDomicilio    string `json:"estado_domicilio" form:"estado_domicilio" validate:"omitempty"`
	MunicipioDomicilio string `json:"municipio_domicilio" form:"municipio_domicilio" validate:"omitempty"`

	FamiliarNombre       string `json:"familiar_nombre" form:"familiar_nombre" validate:"required"`
	FamiliarParentesco   string `json:"familiar_parentesco" form:"familiar_parentesco" validate:"required"`
	FamiliarTelefono     string `json:"familiar_telefono" form:"familiar_telefono" validate:"required,len=10,digitsonly"`
	FamiliarCalle        string `json:"familiar_calle" form:"familiar_calle" validate:"omitempty"`
	FamiliarNumero       string `json:"familiar_numero" form:"familiar_numero" validate:"omitempty"`
	FamiliarColonia      string `json:"familiar_colonia" form:"familiar_colonia" validate:"omitempty"`
	FamiliarCodigoPostal string `json:"familiar_codigo_postal" form:"familiar_codigo_postal" validate:"omitempty,len=5,digitsonly"`
	FamiliarPais         string `json:"familiar_pais" form:"familiar_pais" validate:"omitempty"`
	FamiliarEstado       string `json:"familiar_estado" form:"familiar_estado" validate:"omitempty"`
	FamiliarMunicipio    string `json:"familiar_municipio" form:"familiar_municipio" validate:"omitempty"`

	EmergenciaNombre     string `json:"emergencia_nombre" form:"emergencia_nombre" validate:"required"`
	EmergenciaParentesco string `json:"emergencia_parentesco" form:"emergencia_parentesco" validate:"required"`
	EmergenciaTelefono   string `json:"emergencia_telefono" form:"emergencia_telefono" validate:"required,len=10,digitsonly"`

	Curso string `json:"curso" form:"curso" validate:"required,curso"`
}

// Normalize trims every field, folds free-text fields to upper case and the
// email to lower case. Phone/date/number/postal fields keep their case.
func (nr *NewRegistro) Normalize() {
	upper := func(s string) string { return core.UpperString(s) }
	trim := func(s string) string { return core.CleanString(s) }

	nr.Nombre = upper(nr.Nombre)
	nr.ApellidoPaterno = upper(nr.ApellidoPaterno)
	nr.ApellidoMaterno = upper(nr.ApellidoMaterno)
	nr.TelefonoCelular = trim(nr.TelefonoCelular)
	nr.CorreoElectronico = core.CleanString(nr.CorreoElectronico, true /* lower */)
	nr.EstadoCivil = upper(nr.EstadoCivil)
	nr.GradoEstudios = upper(nr.GradoEstudios)
	nr.FechaNacimiento = trim(nr.FechaNacimiento)

	nr.PaisNacimiento = upper(nr.PaisNacimiento)
	nr.EstadoNacimiento = upper(nr.EstadoNacimiento)
	nr.MunicipioNacimiento = upper(nr.MunicipioNacimiento)
	nr.LugarNacimiento = upper(nr.LugarNacimiento)

	nr.CalleDomicilio = upper(nr.CalleDomicilio)
	nr.NumeroExterior = trim(nr.NumeroExterior)
	nr.NumeroInterior = trim(nr.NumeroInterior)
	nr.ColoniaDomicilio = upper(nr.ColoniaDomicilio)
	nr.CodigoPostal = trim(nr.CodigoPostal)
	nr.PaisDomicilio = upper(nr.PaisDomicilio)
	nr.EstadoDomicilio = upper(nr.EstadoDomicilio)
	nr.MunicipioDomicilio = upper(nr.MunicipioDomicilio)

	nr.FamiliarNombre = upper(nr.FamiliarNombre)
	nr.FamiliarParentesco = upper(nr.FamiliarParentesco)
	nr.FamiliarTelefono = trim(nr.FamiliarTelefono)
	nr.FamiliarCalle = upper(nr.FamiliarCalle)
	nr.FamiliarNumero = trim(nr.FamiliarNumero)
	nr.FamiliarColonia = upper(nr.FamiliarColonia)
	nr.FamiliarCodigoPostal = trim(nr.FamiliarCodigoPostal)
	nr.FamiliarPais = upper(nr.FamiliarPais)
	nr.FamiliarEstado = upper(nr.FamiliarEstado)
	nr.FamiliarMunicipio = upper(nr.FamiliarMunicipio)

	nr.EmergenciaNombre = upper(nr.EmergenciaNombre)
	nr.EmergenciaParentesco = upper(nr.EmergenciaParentesco)
	nr.EmergenciaTelefono = trim(nr.EmergenciaTelefono)

	nr.Curso = upper(nr.Curso)
}

func (nr *NewRegistro) Validate() error {
	nr.Normalize()
	return core.Validate.Struct(nr)
}

// registro builds the storable record from the normalized payload.
func (nr NewRegistro) registro(now time.Time) Registro {
	return Registro{
		Nombre:               nr.Nombre,
		ApellidoPaterno:      nr.ApellidoPaterno,
		ApellidoMaterno:      nr.ApellidoMaterno,
		TelefonoCelular:      nr.TelefonoCelular,
		CorreoElectronico:    nr.CorreoElectronico,
		EstadoCivil:          nr.EstadoCivil,
		GradoEstudios:        nr.GradoEstudios,
		FechaNacimiento:      nr.FechaNacimiento,
		PaisNacimiento:       nr.PaisNacimiento,
		EstadoNacimiento:     nullString(nr.EstadoNacimiento),
		MunicipioNacimiento:  nullString(nr.MunicipioNacimiento),
		LugarNacimiento:      nullString(nr.LugarNacimiento),
		CalleDomicilio:       nr.CalleDomicilio,
		NumeroExterior:       nr.NumeroExterior,
		NumeroInterior:       nullString(nr.NumeroInterior),
		ColoniaDomicilio:     nr.ColoniaDomicilio,
		CodigoPostal:         nr.CodigoPostal,
		PaisDomicilio:        nr.PaisDomicilio,
		EstadoDomicilio:      nullString(nr.EstadoDomicilio),
		MunicipioDomicilio:   nullString(nr.MunicipioDomicilio),
		FamiliarNombre:       nr.FamiliarNombre,
		FamiliarParentesco:   nr.FamiliarParentesco,
		FamiliarTelefono:     nr.FamiliarTelefono,
		FamiliarCalle:        nullString(nr.FamiliarCalle),
		FamiliarNumero:       nullString(nr.FamiliarNumero),
		FamiliarColonia:      nullString(nr.FamiliarColonia),
		FamiliarCodigoPostal: nullString(nr.FamiliarCodigoPostal),
		FamiliarPais:         nullString(nr.FamiliarPais),
		FamiliarEstado:       nullString(nr.FamiliarEstado),
		FamiliarMunicipio:    nullString(nr.FamiliarMunicipio),
		EmergenciaNombre:     nr.EmergenciaNombre,
		EmergenciaParentesco: nr.EmergenciaParentesco,
		EmergenciaTelefono:   nr.EmergenciaTelefono,
		Curso:                nr.Curso,
		FechaRegistro:        now,
		UpdatedAt:            now,
	}
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

// QueryFilter narrows admin listing; fields combine with AND.
type QueryFilter struct {
	Search     string `query:"search"`
	Curso      string `query:"curso"`
	Documentos string `query:"documentos"` // "completos" | "pendientes"
	Pagina     int    `query:"pagina"`
	PorPagina  int    `query:"porPagina"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Curso = core.CleanString(qf.Curso)
	qf.Documentos = core.CleanString(qf.Documentos, true /* lower */)
	if qf.Pagina < 1 {
		qf.Pagina = 1
	}
	if qf.PorPagina < 1 || qf.PorPagina > 100 {
		qf.PorPagina = 20
	}
}

// PaginatedRegistros matches the admin listing contract.
type PaginatedRegistros struct {
	Data         []Registro `json:"data"`
	Total        int        `json:"total"`
	Pagina       int        `json:"pagina"`
	TotalPaginas int        `json:"totalPaginas"`
}

// SearchResult is the public "find my folio" response.
type SearchResult struct {
	Found   bool   `json:"found"`
	ID      int    `json:"id,omitempty"`
	Nombre  string `json:"nombre,omitempty"`
	Curso   string `json:"curso,omitempty"`
	Fecha   string `json:"fecha,omitempty"`
	Message string `json:"message,omitempty"`
}

// MesStat is one month bucket for the dashboard chart data.
type MesStat struct {
	Mes       string `json:"mes"` // "2006-01"
	Registros int    `json:"registros"`
}

type Stats struct {
	Total         int            `json:"total"`
	Hoy           int            `json:"hoy"`
	Semana        int            `json:"semana"`
	Mes           int            `json:"mes"`
	DocsCompletos int            `json:"docsCompletos"`
	PorCurso      map[string]int `json:"porCurso"`
	PorMes        []MesStat      `json:"porMes"`
}
