package registro

import (
	"fmt"
	"strings"
	"time"
)

// ReceiptRenderer renders the fixed-layout enrollment receipt for a record.
// The same bytes back the inline view, the forced download and the email
// attachment; rendering must be deterministic for an unchanged record.
type ReceiptRenderer interface {
	Comprobante(reg Registro) ([]byte, error)
}

// PDFFileName is the receipt attachment/download name.
func PDFFileName(reg Registro) string {
	nombre := strings.Join(strings.Fields(reg.NombreCompleto()), "_")
	return fmt.Sprintf("Comprobante_%s_Folio_%d.pdf", nombre, reg.ID)
}

// FormatFechaNacimiento renders a stored YYYY-MM-DD birth date as DD/MM/YYYY.
func FormatFechaNacimiento(fecha string) string {
	if fecha == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return fecha
	}
	return t.Format("02/01/2006")
}

// FormatFechaRegistro renders the registration timestamp for display.
func FormatFechaRegistro(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("02/01/2006 15:04:05")
}

// Domicilio flattens the residence address block into one display line.
func (r Registro) Domicilio() string {
	var b strings.Builder
	b.WriteString(r.CalleDomicilio)
	b.WriteString(" #")
	b.WriteString(r.NumeroExterior)
	if r.NumeroInterior.Valid {
		b.WriteString(" Int. ")
		b.WriteString(r.NumeroInterior.String)
	}
	b.WriteString(", Col. ")
	b.WriteString(r.ColoniaDomicilio)
	b.WriteString(", C.P. ")
	b.WriteString(r.CodigoPostal)
	b.WriteString(", ")
	b.WriteString(r.MunicipioDomicilio.String)
	b.WriteString(", ")
	b.WriteString(r.EstadoDomicilio.String)
	if r.PaisDomicilio != "" && r.PaisDomicilio != string(PaisMexico) {
		b.WriteString(", ")
		b.WriteString(r.PaisDomicilio)
	}
	return b.String()
}

// LugarDeNacimiento flattens the birth-place block per its country branch.
func (r Registro) LugarDeNacimiento() string {
	switch r.PaisNacimiento {
	case string(PaisMexico):
		return r.MunicipioNacimiento.String + ", " + r.EstadoNacimiento.String
	case string(PaisEstadosUnidos):
		return r.EstadoNacimiento.String + ", " + string(PaisEstadosUnidos)
	default:
		return r.LugarNacimiento.String + ", " + r.PaisNacimiento
	}
}
