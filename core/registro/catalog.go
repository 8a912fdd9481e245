package registro

// Curso is a static catalog entry. The catalog is immutable at runtime and
// drives both the wizard branching and the document-requirement validation.
type Curso struct {
	Value              string `json:"value"`
	Label              string `json:"label"`
	Grupo              string `json:"grupo"`
	RequiereDocumentos bool   `json:"requiereDocumentos"`
}

const (
	grupoDiplomados = "Diplomados (acreditados por el IDEFT)"
	grupoCursos     = "Cursos (acreditados por el IDEFT)"
	grupoTalleres   = "Cursos y Talleres"
)

var Cursos = []Curso{
	{Value: "COSMETOLOGIA", Label: "Diplomado en Cosmetología", Grupo: grupoDiplomados, RequiereDocumentos: true},
	{Value: "COSMETOLOGIA ONLINE", Label: "Diplomado en Cosmetología Online", Grupo: grupoDiplomados, RequiereDocumentos: true},
	{Value: "CEJAS PERFECTAS", Label: "Curso de Cejas Perfectas", Grupo: grupoCursos, RequiereDocumentos: true},
	{Value: "MICROPIGMENTACION EN OJOS", Label: "Curso de Micropigmentación en Ojos", Grupo: grupoTalleres},
	{Value: "MICROPIGMENTACION EN LABIOS", Label: "Curso de Micropigmentación en Labios", Grupo: grupoTalleres},
	{Value: "MASAJES RELAJANTES", Label: "Curso de Masajes Relajantes", Grupo: grupoTalleres},
	{Value: "TRATAMIENTOS AVANZADOS", Label: "Taller de Tratamientos Avanzados", Grupo: grupoTalleres},
	{Value: "MICROPUNTURA", Label: "Taller de Micropuntura", Grupo: grupoTalleres},
}

// CursoByValue finds a catalog entry; ok is false for values outside the closed set.
func CursoByValue(value string) (Curso, bool) {
	for _, c := range Cursos {
		if c.Value == value {
			return c, true
		}
	}
	return Curso{}, false
}

// CursosAgrupados groups the catalog by display group, preserving catalog order.
func CursosAgrupados() map[string][]Curso {
	grouped := make(map[string][]Curso)
	for _, c := range Cursos {
		grouped[c.Grupo] = append(grouped[c.Grupo], c)
	}
	return grouped
}

// EstadosUSA is the closed set of selectable US states for the
// recognized-secondary birth country.
var EstadosUSA = []string{
	"ARIZONA",
	"CALIFORNIA",
	"COLORADO",
	"FLORIDA",
	"GEORGIA",
	"ILLINOIS",
	"NEVADA",
	"NEW MEXICO",
	"NEW YORK",
	"NORTH CAROLINA",
	"TEXAS",
	"WASHINGTON",
}

// EstadoUSAValido reports whether estado belongs to the selectable US states.
func EstadoUSAValido(estado string) bool {
	for _, e := range EstadosUSA {
		if e == estado {
			return true
		}
	}
	return false
}

// File upload limits applied both at the wizard and again at intake.
const (
	MaxFileSize = 5 * 1024 * 1024 // 5 MB
)

var AllowedFileTypes = []string{"application/pdf", "image/jpeg", "image/png"}

func FileTypeAllowed(contentType string) bool {
	for _, t := range AllowedFileTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// Academy contact data rendered on receipts and emails.
const (
	AcademiaNombre     = "Academia Danas"
	AcademiaDireccion  = "Av. Revolución 192, Autlán de Navarro, Jalisco"
	AcademiaCP         = "48900"
	AcademiaTelefono   = "317 132 3237"
	AcademiaCorreo     = "academia@academiadanas.com"
	AcademiaWebsite    = "https://www.academiadanas.com"
	AcademiaReglamento = "https://tinyurl.com/reglamentoad"
)
