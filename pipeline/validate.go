package pipeline

import (
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()

	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("pipeline: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}
}

// descriptorCheck is the validatable projection of a Descriptor.
type descriptorCheck struct {
	Method  string        `validate:"required,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
	URL     string        `validate:"required,url"`
	Timeout time.Duration `validate:"gte=0"`
}

// checkDescriptor validates the descriptor's configuration against
// its declared constraints.
func checkDescriptor(d *Descriptor) error {
	chk := descriptorCheck{
		Method:  d.method,
		URL:     d.rawURL,
		Timeout: d.timeout,
	}

	if err := validate.Struct(chk); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		var fields FieldErrors
		for _, verror := range verrors {
			fields = append(fields, FieldError{
				Field: verror.Field(),
				Err:   verror.Translate(translator),
			})
		}

		return fields
	}

	return nil
}

// FieldError represents a single validation error for a descriptor field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

// Error implements the error interface, returning a human-readable
// summary of all field errors.
func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}

	return strings.Join(parts, "; ")
}
