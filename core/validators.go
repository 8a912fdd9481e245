package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	digitsTag   = "digitsonly"
	digitsText  = "solo se permiten dígitos"
	digitsRegex = regexp.MustCompile(`^\d+$`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "este campo es obligatorio"
	emailTag        = "email"
	emailText       = "ingresa un correo válido"
	lenTag          = "len"
	lenText         = "longitud inválida"
	oneofTag        = "oneof"
	oneofText       = "valor fuera de catálogo"
)

func init() {
	Validate = validator.New()

	esLocale := es.New()
	uni := ut.New(esLocale, esLocale)
	Translator, _ = uni.GetTranslator("es")

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(digitsTag, digitsValidation)
	RegisterCustomTranslation(Validate, Translator, digitsTag, digitsText)

	RegisterCustomTranslation(Validate, Translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(Validate, Translator, requiredWithTag, requiredText, true)
	RegisterCustomTranslation(Validate, Translator, emailTag, emailText, true)
	RegisterCustomTranslation(Validate, Translator, lenTag, lenText, true)
	RegisterCustomTranslation(Validate, Translator, oneofTag, oneofText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// digitsValidation only allows numeric characters; empty values are left to `required`.
func digitsValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return digitsRegex.MatchString(s)
}
