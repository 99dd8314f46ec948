package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/it"
	"github.com/go-playground/locales/ja"
	"github.com/go-playground/locales/ko"
	"github.com/go-playground/locales/pt"
	"github.com/go-playground/locales/ru"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	es_translations "github.com/go-playground/validator/v10/translations/es"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
	pt_translations "github.com/go-playground/validator/v10/translations/pt"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

type registerDefaultsFunc func(*validator.Validate, ut.Translator) error

var (
	// validation messages exist for these locales; the others are answered in english
	defaultTranslations = map[string]registerDefaultsFunc{
		"en": en_translations.RegisterDefaultTranslations,
		"es": es_translations.RegisterDefaultTranslations,
		"fr": fr_translations.RegisterDefaultTranslations,
		"ja": ja_translations.RegisterDefaultTranslations,
		"pt": pt_translations.RegisterDefaultTranslations,
		"ru": ru_translations.RegisterDefaultTranslations,
		"zh": zh_translations.RegisterDefaultTranslations,
	}

	// custom validation tags & texts
	notBlankTag   = "notblank"
	notBlankTexts = map[string]string{
		"en": "this field cannot be blank",
		"ru": "это поле не может быть пустым",
		"es": "este campo no puede estar vacío",
		"fr": "ce champ ne peut pas être vide",
	}

	phoneTag   = "phone"
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]{6,20}$`)
	phoneTexts = map[string]string{
		"en": "invalid phone number",
		"ru": "неверный номер телефона",
		"es": "número de teléfono no válido",
		"fr": "numéro de téléphone invalide",
	}

	requiredTag   = "required"
	requiredTexts = map[string]string{
		"en": "this field is required",
		"ru": "это поле обязательно",
		"es": "este campo es obligatorio",
		"fr": "ce champ est obligatoire",
	}
)

// NewUniversalTranslator returns a translator knowing every locale of the site, english being the fallback.
func NewUniversalTranslator() *ut.UniversalTranslator {
	_en := en.New()
	return ut.New(
		_en,
		_en,
		ru.New(),
		es.New(),
		fr.New(),
		de.New(),
		it.New(),
		pt.New(),
		zh.New(),
		ja.New(),
		ko.New(),
	)
}

// LocaleTranslator returns the locales.Translator (number, currency & date formatting) for `code`.
func LocaleTranslator(uni *ut.UniversalTranslator, code string) locales.Translator {
	trans, _ := uni.GetTranslator(code)
	return trans
}

// ValidationTranslator returns the translator to use for validation messages in `code`,
// falling back to english when no validation messages exist for it.
func ValidationTranslator(uni *ut.UniversalTranslator, code string) ut.Translator {
	if _, ok := defaultTranslations[code]; !ok {
		code = "en"
	}
	trans, _ := uni.GetTranslator(code)
	return trans
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, uni *ut.UniversalTranslator) {
	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(phoneTag, phoneValidation)

	for code, register := range defaultTranslations {
		trans, _ := uni.GetTranslator(code)
		_ = register(validate, trans)

		RegisterCustomTranslation(validate, trans, notBlankTag, localized(notBlankTexts, code))
		RegisterCustomTranslation(validate, trans, phoneTag, localized(phoneTexts, code))
		RegisterCustomTranslation(validate, trans, requiredTag, localized(requiredTexts, code), true)
	}
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

func localized(texts map[string]string, code string) string {
	if text, ok := texts[code]; ok {
		return text
	}
	return texts["en"]
}

// Custom Global Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func phoneValidation(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}
