package adminuser

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/academiadanas/inscripciones/core"
	appfs "github.com/academiadanas/inscripciones/fs"
)

var (
	adminRolTag  = "adminrol"
	adminRolText = "rol inválido"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("la contraseña debe tener al menos %d caracteres", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "la contraseña no debe contener espacios"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "la contraseña no puede ser completamente numérica"

	pwdComplexityTag  = "pwdcplx"
	pwdComplexityText = "la contraseña debe contener al menos 1 mayúscula, 1 minúscula, 1 dígito y 1 carácter especial"
	specialRegex      = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "la contraseña no puede parecerse a los datos del usuario"

	pwdNoCommonTag  = "pwdnocommon"
	pwdNoCommonText = "la contraseña es demasiado común"
	commonPasswords []string
)

func init() {
	loadCommonPasswords()

	// register validators
	_ = core.Validate.RegisterValidation(adminRolTag, adminRolValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, adminRolTag, adminRolText)

	core.Validate.RegisterStructValidation(adminUserStructValidation, NewAdminUser{})
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdComplexityTag, pwdComplexityText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdAttrSimTag, pwdAttrSimText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdNoCommonTag, pwdNoCommonText)
}

func loadCommonPasswords() {
	file, err := appfs.FS.Open("common-passwords.txt.gz")
	if err != nil {
		log.Printf("adminuser.loadCommonPasswords: %v", err)
		return
	}
	//goland:noinspection GoUnhandledErrorResult
	defer file.Close()
	gzRdr, err := gzip.NewReader(file)
	if err != nil {
		log.Printf("adminuser.loadCommonPasswords: %v", err)
		return
	}
	scanner := bufio.NewScanner(gzRdr)
	for scanner.Scan() {
		commonPasswords = append(commonPasswords, strings.TrimSpace(scanner.Text()))
	}
	sort.Strings(commonPasswords)
}

// Custom Validators

func adminRolValidation(fl validator.FieldLevel) bool {
	rol := fl.Field().String()
	for _, r := range AllRoles {
		if r == rol {
			return true
		}
	}
	return false
}

func adminUserStructValidation(sl validator.StructLevel) {
	if nu, ok := sl.Current().Interface().(NewAdminUser); ok {
		validatePassword(nu.Password, nu.Nombre, nu.Email, sl)
	}
}

// validatePassword applies the password policy:
// - minLen: 8
// - no whitespace
// - not all numeric
// - complexity: 1 upper, 1 lower, 1 digit, 1 special
// - no user attrs similarity
// - no common password
func validatePassword(pwd, nombre, email string, sl validator.StructLevel) {
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	var (
		digitCount         int
		hasUpper, hasLower bool
	)

	pwdLen := len(pwd)
	if pwdLen < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		if !hasUpper && unicode.IsUpper(char) {
			hasUpper = true
		}
		if !hasLower && unicode.IsLower(char) {
			hasLower = true
		}
	}

	if digitCount == pwdLen {
		reportErr(pwdNotAllNumTag)
		return
	}

	if !(hasUpper && hasLower && digitCount > 0 && specialRegex.MatchString(pwd)) {
		reportErr(pwdComplexityTag)
		return
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(usrAttr, "")).QuickRatio()
	}
	if getRatio(pwd, nombre) >= pwdMaxSim || getRatio(pwd, email) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
		return
	}

	lpwd := strings.ToLower(pwd)
	if idx := sort.SearchStrings(commonPasswords, lpwd); idx < len(commonPasswords) {
		if match := commonPasswords[idx]; lpwd == match {
			reportErr(pwdNoCommonTag)
		}
	}
}
