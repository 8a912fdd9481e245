package registro

import (
	"github.com/go-playground/validator/v10"

	"github.com/academiadanas/inscripciones/core"
)

var (
	cursoTag  = "curso"
	cursoText = "selecciona un curso del catálogo"
)

func init() {
	_ = core.Validate.RegisterValidation(cursoTag, cursoValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, cursoTag, cursoText)
}

// cursoValidation checks the value against the closed course catalog.
func cursoValidation(fl validator.FieldLevel) bool {
	_, ok := CursoByValue(fl.Field().String())
	return ok
}
