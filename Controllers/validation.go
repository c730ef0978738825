package Controllers

import (
	"errors"
	"reflect"
	"strings"

	"HomeList/Services"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

var (
	validate   = validator.New()
	translator ut.Translator
)

func init() {
	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	// Report fields by their json name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return Services.PasswordProblem(fl.Field().String()) == ""
	})
	_ = validate.RegisterTranslation("password", translator,
		func(t ut.Translator) error {
			return t.Add("password", "{0} must be at least 8 characters and contain an upper case letter, a lower case letter and a digit", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("password", fe.Field())
			return msg
		})
}

// bind parses the request body into out and validates it. Failures come
// back as *Services.ValidationError so respondError renders them as 400.
func bind(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return &Services.ValidationError{Field: "body", Message: "invalid request body"}
	}
	return check(out)
}

func check(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &Services.ValidationError{Field: fe.Field(), Message: fe.Translate(translator)}
	}
	return &Services.ValidationError{Message: err.Error()}
}
