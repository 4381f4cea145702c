package validation

import (
	"errors"
	"reflect"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	validators "github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"taskapp/internal/core/port"
	"taskapp/pkg/option"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	if err := Validator.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	Validator.RegisterCustomTypeFunc(unwrapOption, option.Option[string]{})

	addCustomTranslations()
}

// unwrapOption hands the validator the inner value, or nil for None so omitempty applies.
func unwrapOption(field reflect.Value) interface{} {
	if v, ok := field.Interface().(option.Option[string]); ok {
		if s, present := v.Get(); present {
			return s
		}
	}

	return nil
}

func addCustomTranslations() {
	Validator.RegisterTranslation("notblank", Translator, func(ut ut.Translator) error {
		return ut.Add("notblank", "{0} is required.", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("notblank", fe.Field())
		return t
	})

	Validator.RegisterTranslation("required", Translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required.", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})

	Validator.RegisterTranslation("max", Translator, func(ut ut.Translator) error {
		return ut.Add("max", "{0} must be at most {1} characters.", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("max", fe.Field(), fe.Param())
		return t
	})
}

type RequestValidator struct{}

func NewRequestValidator() port.Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) ValidateStruct(s interface{}) error {
	return Validator.Struct(s)
}

func (v *RequestValidator) FormatValidationErrors(err error) []string {
	return FormatValidationErrors(err)
}

// FormatValidationErrors lists one message per violated rule, in field order.
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))

	for _, fieldError := range validationErrors {
		messages = append(messages, fieldError.Translate(Translator))
	}

	return messages
}
