// Package xlsxsvc builds the admin spreadsheet export.
package xlsxsvc

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/academiadanas/inscripciones/core/registro"
)

const sheetName = "Registros"

// column headers are part of the export contract external tooling reads
var headers = []string{
	"Folio", "Nombre", "Correo", "Teléfono", "Curso", "Fecha Registro",
	"INE", "Acta Nacimiento", "Comp. Domicilio",
}

// Registros renders the filtered listing as an xlsx workbook.
func Registros(regs []registro.Registro) ([]byte, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheetName)

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, errors.Wrap(err, "building header cell")
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, errors.Wrap(err, "writing header")
		}
	}

	for i, r := range regs {
		row := []interface{}{
			r.ID,
			r.NombreCompleto(),
			r.CorreoElectronico,
			r.TelefonoCelular,
			r.Curso,
			r.FechaRegistro.Format("02/01/2006"),
			siNo(r.RutaINE.Valid),
			siNo(r.RutaActaNacimiento.Valid),
			siNo(r.RutaComprobanteDomicilio.Valid),
		}
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, errors.Wrap(err, "building data cell")
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return nil, errors.Wrapf(err, "writing row %d", i+1)
			}
		}
	}

	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, errors.Wrap(err, "resolving column name")
		}
		width := float64(len(h))
		if width < 15 {
			width = 15
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, errors.Wrap(err, "setting column width")
		}
	}

	var buff bytes.Buffer
	if err := f.Write(&buff); err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buff.Bytes(), nil
}

// FileName stamps the export name with the given date, e.g.
// registros_filtrados_2026-09-01.xlsx.
func FileName(fecha string) string {
	return fmt.Sprintf("registros_filtrados_%s.xlsx", fecha)
}

func siNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
