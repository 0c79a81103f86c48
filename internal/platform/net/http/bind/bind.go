// Package bind decodes JSON request bodies and validates them with struct tags
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "tdsdesk/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps a decoded body
const MaxBody = 1 << 20

type checker struct {
	v  *validator.Validate
	tr ut.Translator
}

var get = sync.OnceValue(func() checker {
	loc := en.New()
	tr, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = entrans.RegisterDefaultTranslations(v, tr)

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		return f.Kind() != reflect.String || strings.TrimSpace(f.String()) != ""
	})
	short := map[string]string{
		"min":      "{0} must be at least {1}",
		"max":      "{0} must be at most {1}",
		"notblank": "{0} must not be blank",
	}
	for tag, text := range short {
		_ = v.RegisterTranslation(tag, tr,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(tag, fe.Field(), fe.Param())
				return msg
			})
	}
	return checker{v: v, tr: tr}
})

// ParseJSON decodes the body into T, rejecting unknown fields and trailing data, then validates it
func ParseJSON[T any](r *http.Request) (T, error) {
	var out T
	if r.Body == nil {
		return out, perr.JSONErrf("empty body")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return out, perr.JSONErrf("empty body")
		case errors.As(err, &tooBig):
			return out, perr.JSONErrf("body larger than %d bytes", tooBig.Limit)
		default:
			return out, perr.JSONErrf("invalid JSON: %v", err)
		}
	}
	if dec.More() {
		return out, perr.JSONErrf("unexpected trailing data")
	}
	return out, Validate(out)
}

// Validate checks v against its validate tags; the first failure becomes a field error
func Validate(v any) error {
	c := get()
	err := c.v.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return perr.Wrap(err, perr.ErrorCodeValidation, "validation failed")
	}
	fe := fields[0]
	return perr.WithField(perr.New(perr.ErrorCodeValidation, fe.Translate(c.tr)), fe.Field())
}
