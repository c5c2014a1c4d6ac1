package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTrans "github.com/go-playground/validator/v10/translations/en"
	zhTrans "github.com/go-playground/validator/v10/translations/zh"

	kerrors "github.com/kochabonline/tgkit/errors"
	"github.com/kochabonline/tgkit/log"
)

var (
	Validate *validator.Validate
	TransEn  ut.Translator
	TransZh  ut.Translator
)

func init() {
	initValidator()
}

func initValidator() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	enTranslator := en.New()
	zhTranslator := zh.New()
	uni := ut.New(enTranslator, enTranslator, zhTranslator)

	TransEn, _ = uni.GetTranslator("en")
	TransZh, _ = uni.GetTranslator("zh")

	if err := enTrans.RegisterDefaultTranslations(Validate, TransEn); err != nil {
		log.Errorf("validator registration translator error: %v", err)
	}
	if err := zhTrans.RegisterDefaultTranslations(Validate, TransZh); err != nil {
		log.Errorf("validator registration translator error: %v", err)
	}

	// Report fields by their config key rather than the Go field name.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		}
		if name == "-" {
			name = ""
		}
		if label := fld.Tag.Get("label"); label != "" {
			name = label
		}
		return name
	})
}

func RegisterValidation(tag string, fn validator.Func) error {
	return Validate.RegisterValidation(tag, fn)
}

func RegisterTranslation(tag string, trans ut.Translator, registerFn validator.RegisterTranslationsFunc, translationFn validator.TranslationFunc) error {
	return Validate.RegisterTranslation(tag, trans, registerFn, translationFn)
}

// Struct validates target and reports failures in English.
func Struct(target any) error {
	return StructTrans(target, "en")
}

// StructTrans validates target and translates failures into language.
func StructTrans(target any, language string) error {
	err := Validate.Struct(target)
	if err == nil {
		return nil
	}

	var invalidValidationError *validator.InvalidValidationError
	if errors.As(err, &invalidValidationError) {
		return err
	}

	trans := TransEn
	if strings.HasPrefix(language, "zh") {
		trans = TransZh
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	sb := strings.Builder{}
	for _, e := range validationErrors {
		if sb.Len() > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.Translate(trans))
	}
	return kerrors.BadRequest("%s", sb.String())
}
