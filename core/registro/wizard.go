package registro

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
)

// Paso is one of the six ordered wizard steps.
type Paso int

const (
	PasoAviso Paso = iota + 1
	PasoCurso
	PasoDatosPersonales
	PasoDomicilio
	PasoContactoFamiliar
	PasoContactoEmergencia

	TotalPasos = int(PasoContactoEmergencia)
)

// OpcionOtro is the enumerated placeholder replaced by the free-text override
// at assembly time.
const OpcionOtro = "otro"

var (
	ErrPasoInvalido = errors.New("el envío solo es posible desde el último paso")

	telefonoRegex = regexp.MustCompile(`^\d{10}$`)
	cpRegex       = regexp.MustCompile(`^\d{5}$`)
	correoRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Campos holds every field the six steps collect. It is plain data; the Wizard
// carries it through transitions without mutating previous states.
type Campos struct {
	// paso 1: aviso de privacidad
	AceptaAviso bool

	// paso 2: curso y documentos
	Curso                string
	INE                  *Archivo
	ActaNacimiento       *Archivo
	ComprobanteDomicilio *Archivo

	// paso 3: datos personales
	Nombre            string
	ApellidoPaterno   string
	ApellidoMaterno   string
	TelefonoCelular   string
	Correo            string
	EstadoCivil       string
	EstadoCivilOtro   string
	GradoEstudios     string
	GradoEstudiosOtro string
	FechaNacimiento   string
	Nacimiento        Ubicacion

	// paso 4: domicilio
	CalleDomicilio   string
	NumeroExterior   string
	NumeroInterior   string
	ColoniaDomicilio string
	CodigoPostal     string
	Domicilio        Ubicacion

	// paso 5: contacto familiar
	FamiliarNombre         string
	FamiliarParentesco     string
	FamiliarParentescoOtro string
	FamiliarTelefono       string
	FamiliarCalle          string
	FamiliarNumero         string
	FamiliarColonia        string
	FamiliarCP             string
	FamiliarDomicilio      Ubicacion

	// paso 6: contacto de emergencia
	EmergenciaNombre         string
	EmergenciaParentesco     string
	EmergenciaParentescoOtro string
	EmergenciaTelefono       string
}

// Wizard is an immutable six-step form state machine. Transitions return a new
// value plus a field-keyed error map; they never mutate the receiver and never
// perform I/O.
type Wizard struct {
	Paso    Paso
	Campos  Campos
	Errores map[string]string
}

func NewWizard() Wizard {
	return Wizard{Paso: PasoAviso}
}

// WithCampos returns a copy of the wizard carrying the given field set.
func (w Wizard) WithCampos(c Campos) Wizard {
	w.Campos = c
	return w
}

// Next validates the active step. On success it advances one step with a clear
// error map; on failure it stays put and carries the errors.
func (w Wizard) Next() Wizard {
	errs := w.validateStep(w.Paso)
	if len(errs) > 0 {
		w.Errores = errs
		return w
	}
	if int(w.Paso) < TotalPasos {
		w.Paso++
	}
	w.Errores = nil
	return w
}

// Prev is always permitted and clears error state.
func (w Wizard) Prev() Wizard {
	if w.Paso > PasoAviso {
		w.Paso--
	}
	w.Errores = nil
	return w
}

// Submit re-validates the final step and assembles the transmittable payload.
// It is only reachable from the last step.
func (w Wizard) Submit() (NewRegistro, []Archivo, error) {
	if int(w.Paso) != TotalPasos {
		return NewRegistro{}, nil, ErrPasoInvalido
	}
	if errs := w.validateStep(w.Paso); len(errs) > 0 {
		flds := make([]core.FieldError, 0, len(errs))
		for field, msg := range errs {
			flds = append(flds, core.FieldError{Field: field, Error: msg})
		}
		return NewRegistro{}, nil, core.NewValidationError(nil, flds...)
	}
	nr, archivos := w.Campos.Assemble()
	return nr, archivos, nil
}

func (w Wizard) validateStep(paso Paso) map[string]string {
	errs := make(map[string]string)
	c := w.Campos

	switch paso {
	case PasoAviso:
		if !c.AceptaAviso {
			errs["aviso"] = "Debes aceptar el Aviso de Privacidad"
		}

	case PasoCurso:
		curso, ok := CursoByValue(c.Curso)
		if c.Curso == "" || !ok {
			errs["curso"] = "Selecciona un curso"
			break
		}
		if curso.RequiereDocumentos {
			if c.INE == nil {
				errs["ine"] = "La INE/CURP es obligatoria"
			}
			if c.ComprobanteDomicilio == nil {
				errs["comprobante"] = "El comprobante de domicilio es obligatorio"
			}
		}
		// attached files are checked even when the course does not require them
		validateArchivo(c.INE, "ine", errs)
		validateArchivo(c.ActaNacimiento, "acta", errs)
		validateArchivo(c.ComprobanteDomicilio, "comprobante", errs)

	case PasoDatosPersonales:
		if strings.TrimSpace(c.Nombre) == "" {
			errs["nombre"] = "El nombre es obligatorio"
		}
		if strings.TrimSpace(c.ApellidoPaterno) == "" {
			errs["apellidoPaterno"] = "El apellido paterno es obligatorio"
		}
		if strings.TrimSpace(c.ApellidoMaterno) == "" {
			errs["apellidoMaterno"] = "El apellido materno es obligatorio"
		}
		if !telefonoRegex.MatchString(strings.TrimSpace(c.TelefonoCelular)) {
			errs["telefono"] = "Ingresa un teléfono de 10 dígitos"
		}
		if !correoRegex.MatchString(strings.TrimSpace(c.Correo)) {
			errs["correo"] = "Ingresa un correo válido"
		}
		if c.EstadoCivil == "" {
			errs["estadoCivil"] = "Selecciona el estado civil"
		} else if c.EstadoCivil == OpcionOtro && strings.TrimSpace(c.EstadoCivilOtro) == "" {
			errs["estadoCivilOtro"] = "Especifica el estado civil"
		}
		if c.GradoEstudios == "" {
			errs["gradoEstudios"] = "Selecciona el grado de estudios"
		} else if c.GradoEstudios == OpcionOtro && strings.TrimSpace(c.GradoEstudiosOtro) == "" {
			errs["gradoEstudiosOtro"] = "Especifica el grado de estudios"
		}
		if c.FechaNacimiento == "" {
			errs["fechaNacimiento"] = "Selecciona la fecha de nacimiento"
		}
		switch c.Nacimiento.Pais {
		case PaisMexico:
			if c.Nacimiento.Estado == "" {
				errs["estadoNacimientoMx"] = "Selecciona el estado"
			}
			if c.Nacimiento.Municipio == "" {
				errs["municipioNacimiento"] = "Selecciona el municipio"
			}
		case PaisEstadosUnidos:
			if !EstadoUSAValido(c.Nacimiento.Estado) {
				errs["estadoNacimientoUsa"] = "Selecciona el estado"
			}
		case PaisOtro:
			if strings.TrimSpace(c.Nacimiento.OtroPais) == "" {
				errs["otroPais"] = "Escribe el nombre del país"
			}
			if strings.TrimSpace(c.Nacimiento.Detalle) == "" {
				errs["lugarNacimiento"] = "Escribe el lugar de nacimiento"
			}
		default:
			errs["paisNacimiento"] = "Selecciona el país"
		}

	case PasoDomicilio:
		if strings.TrimSpace(c.CalleDomicilio) == "" {
			errs["calle"] = "La calle es obligatoria"
		}
		if strings.TrimSpace(c.NumeroExterior) == "" {
			errs["numExt"] = "El número exterior es obligatorio"
		}
		if strings.TrimSpace(c.ColoniaDomicilio) == "" {
			errs["colonia"] = "La colonia es obligatoria"
		}
		if !cpRegex.MatchString(strings.TrimSpace(c.CodigoPostal)) {
			errs["cp"] = "Ingresa un código postal de 5 dígitos"
		}
		switch c.Domicilio.Pais {
		case PaisMexico:
			if c.Domicilio.Estado == "" {
				errs["estadoDom"] = "Selecciona el estado"
			}
			if c.Domicilio.Municipio == "" {
				errs["municipioDom"] = "Selecciona el municipio"
			}
		case PaisEstadosUnidos:
			if !EstadoUSAValido(c.Domicilio.Estado) {
				errs["estadoDomUsa"] = "Selecciona el estado"
			}
		case PaisOtro:
			if strings.TrimSpace(c.Domicilio.OtroPais) == "" {
				errs["otroPaisDom"] = "Escribe el nombre del país"
			}
			if strings.TrimSpace(c.Domicilio.Detalle) == "" {
				errs["estadoOtroDom"] = "Escribe el estado o provincia"
			}
		default:
			errs["paisDom"] = "Selecciona el país"
		}

	case PasoContactoFamiliar:
		if strings.TrimSpace(c.FamiliarNombre) == "" {
			errs["famNombre"] = "El nombre es obligatorio"
		}
		if c.FamiliarParentesco == "" {
			errs["famParentesco"] = "Selecciona el parentesco"
		} else if c.FamiliarParentesco == OpcionOtro && strings.TrimSpace(c.FamiliarParentescoOtro) == "" {
			errs["famParentescoOtro"] = "Especifica el parentesco"
		}
		if !telefonoRegex.MatchString(strings.TrimSpace(c.FamiliarTelefono)) {
			errs["famTelefono"] = "Ingresa un teléfono de 10 dígitos"
		}
		if strings.TrimSpace(c.FamiliarCalle) == "" {
			errs["famCalle"] = "La calle es obligatoria"
		}
		if strings.TrimSpace(c.FamiliarNumero) == "" {
			errs["famNumero"] = "El número es obligatorio"
		}
		if strings.TrimSpace(c.FamiliarColonia) == "" {
			errs["famColonia"] = "La colonia es obligatoria"
		}
		if !cpRegex.MatchString(strings.TrimSpace(c.FamiliarCP)) {
			errs["famCp"] = "Ingresa un código postal de 5 dígitos"
		}
		switch c.FamiliarDomicilio.Pais {
		case PaisMexico:
			if c.FamiliarDomicilio.Estado == "" {
				errs["famEstado"] = "Selecciona el estado"
			}
			if c.FamiliarDomicilio.Municipio == "" {
				errs["famMunicipio"] = "Selecciona el municipio"
			}
		case PaisEstadosUnidos:
			if !EstadoUSAValido(c.FamiliarDomicilio.Estado) {
				errs["famEstadoUsa"] = "Selecciona el estado"
			}
		case PaisOtro:
			if strings.TrimSpace(c.FamiliarDomicilio.OtroPais) == "" {
				errs["otroPaisFam"] = "Escribe el nombre del país"
			}
			if strings.TrimSpace(c.FamiliarDomicilio.Detalle) == "" {
				errs["estadoOtroFam"] = "Escribe el estado o provincia"
			}
		default:
			errs["famPais"] = "Selecciona el país"
		}

	case PasoContactoEmergencia:
		if strings.TrimSpace(c.EmergenciaNombre) == "" {
			errs["emNombre"] = "El nombre es obligatorio"
		}
		if c.EmergenciaParentesco == "" {
			errs["emParentesco"] = "Selecciona el parentesco"
		} else if c.EmergenciaParentesco == OpcionOtro && strings.TrimSpace(c.EmergenciaParentescoOtro) == "" {
			errs["emParentescoOtro"] = "Especifica el parentesco"
		}
		if !telefonoRegex.MatchString(strings.TrimSpace(c.EmergenciaTelefono)) {
			errs["emTelefono"] = "Ingresa un teléfono de 10 dígitos"
		}
	}

	return errs
}

// validateArchivo enforces the size/type limits on an attached file; a nil
// file is left to the required checks.
func validateArchivo(a *Archivo, field string, errs map[string]string) {
	if a == nil {
		return
	}
	if a.Size() > MaxFileSize {
		errs[field] = "El archivo excede 5 MB"
		return
	}
	if !FileTypeAllowed(a.ContentType) {
		errs[field] = "Solo se permiten PDF, JPG y PNG"
	}
}
