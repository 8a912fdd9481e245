// Package pdfsvc renders the enrollment receipt with a fixed letter-size
// layout. Rendering the same record twice yields identical bytes.
package pdfsvc

import (
	"bytes"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core/registro"
)

const (
	pageMargin   = 18.0 // mm, ~50pt
	labelWidth   = 54.0
	rowHeight    = 5.5
	sectionSpace = 5.0
)

type renderer struct{}

var _ registro.ReceiptRenderer = (*renderer)(nil)

func NewRenderer() *renderer {
	return &renderer{}
}

func (rd renderer) Comprobante(reg registro.Registro) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	// pin metadata and catalog order so unchanged records render byte-identical
	pdf.SetCreationDate(time.Unix(0, 0))
	pdf.SetCatalogSort(true)
	pdf.SetTitle("Comprobante de Inscripción", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 28)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// header
	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 7, tr("Comprobante de Inscripción y Carta Compromiso"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 6, tr(registro.AcademiaNombre), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	rd.section(pdf, tr, "Información del Registro")
	rd.row(pdf, tr, "Folio de Registro:", strconv.Itoa(reg.ID))
	rd.row(pdf, tr, "Fecha de Registro:", registro.FormatFechaRegistro(reg.FechaRegistro))
	rd.row(pdf, tr, "Curso de Interés:", reg.Curso)

	rd.section(pdf, tr, "Datos Personales")
	rd.row(pdf, tr, "Nombre Completo:", reg.NombreCompleto())
	rd.row(pdf, tr, "Correo Electrónico:", reg.CorreoElectronico)
	rd.row(pdf, tr, "Teléfono Celular:", reg.TelefonoCelular)
	rd.row(pdf, tr, "Fecha de Nacimiento:", registro.FormatFechaNacimiento(reg.FechaNacimiento))
	rd.row(pdf, tr, "Lugar de Nacimiento:", reg.LugarDeNacimiento())
	rd.row(pdf, tr, "Estado Civil:", reg.EstadoCivil)
	rd.row(pdf, tr, "Último Grado Estudios:", reg.GradoEstudios)

	rd.section(pdf, tr, "Domicilio Registrado")
	rd.row(pdf, tr, "Dirección Completa:", reg.Domicilio())

	// declarations
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 5, tr("DECLARACIONES Y COMPROMISOS DEL ESTUDIANTE"), "", 1, "C", false, 0, "")
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "", 8.5)
	pdf.SetTextColor(85, 85, 85)
	pdf.MultiCell(0, 4.2, tr(
		"Al firmar este documento, declaro haber leído y aceptado las siguientes disposiciones "+
			"del Reglamento General de Alumnos de Academia Danas:"), "", "C", false)
	pdf.SetTextColor(26, 115, 232)
	pdf.CellFormat(0, 4.2, registro.AcademiaReglamento, "", 1, "C", false, 0, registro.AcademiaReglamento)

	// signature
	pdf.Ln(14)
	lineW := 78.0
	x := pageMargin + rd.pageWidth(pdf)/2
	pdf.SetDrawColor(51, 51, 51)
	pdf.Line(x-lineW/2, pdf.GetY(), x+lineW/2, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 4, tr("Firma del estudiante"), "", 1, "C", false, 0, "")

	// note
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.SetTextColor(136, 136, 136)
	pdf.MultiCell(0, 3.6, tr(
		"Nota Importante: Este documento es un comprobante electrónico de la recepción de tu solicitud "+
			"de inscripción en Academia Danas. La inscripción formal está sujeta a la validación de los "+
			"documentos y al proceso interno de la academia. Nos pondremos en contacto contigo a la "+
			"brevedad para informarte sobre los siguientes pasos. Conserva este comprobante."), "", "L", false)

	// footer; pin it to the page bottom without triggering a page break
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetY(-26)
	pdf.SetDrawColor(221, 221, 221)
	pdf.Line(pageMargin, pdf.GetY(), rd.pageWidth(pdf)+pageMargin, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7.5)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 4, tr(
		registro.AcademiaTelefono+"   |   f academiadanas   |   academia_danas   |   "+registro.AcademiaCorreo),
		"", 1, "C", false, 0, "")
	pdf.CellFormat(0, 4, tr(registro.AcademiaDireccion+", C.P. "+registro.AcademiaCP),
		"", 1, "C", false, 0, "")
	pdf.CellFormat(0, 4, registro.AcademiaWebsite, "", 1, "C", false, 0, registro.AcademiaWebsite)

	var buff bytes.Buffer
	if err := pdf.Output(&buff); err != nil {
		return nil, errors.Wrap(err, "rendering receipt")
	}
	return buff.Bytes(), nil
}

func (rd renderer) section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(sectionSpace)
	pdf.SetFillColor(242, 242, 242)
	pdf.SetDrawColor(204, 204, 204)
	pdf.SetFont("Helvetica", "BU", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 7, "  "+tr(title), "B", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func (rd renderer) row(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	if value == "" {
		value = "-"
	}
	pdf.SetFont("Helvetica", "", 9.5)
	pdf.SetTextColor(85, 85, 85)
	pdf.CellFormat(labelWidth, rowHeight, tr(label), "", 0, "L", false, 0, "")
	pdf.SetTextColor(51, 51, 51)
	pdf.MultiCell(0, rowHeight, tr(value), "", "L", false)
}

func (rd renderer) pageWidth(pdf *gofpdf.Fpdf) float64 {
	w, _ := pdf.GetPageSize()
	return w - 2*pageMargin
}
