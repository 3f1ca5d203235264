package domain

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// entityValidator returns the shared validator. go-playground/validator caches struct metadata,
// so a single instance is used for every entity.
func entityValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return IsValidSlug(fl.Field().String())
		})
		_ = v.RegisterValidation("rfc5322", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// validateStruct runs the tag rules of v and translates failures into FieldErrors.
func validateStruct(v any) []FieldError {
	err := entityValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "notblank", "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "min":
		return fmt.Sprintf("%s must contain at least one item", field)
	case "slug":
		return "title must contain at least one letter or number to derive a slug"
	case "rfc5322":
		return "please provide a valid email address"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func dropField(errs []FieldError, field string) []FieldError {
	out := errs[:0]
	for _, fe := range errs {
		if fe.Field != field {
			out = append(out, fe)
		}
	}
	return out
}

// newValidationError orders errs by the declaration order of entity's fields and
// returns nil when there is nothing to report.
func newValidationError(entity any, errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	order := fieldOrder(reflect.TypeOf(entity))
	sort.SliceStable(errs, func(i, j int) bool {
		return order[errs[i].Field] < order[errs[j].Field]
	})
	return &ValidationError{Errors: errs}
}

var fieldOrders sync.Map // reflect.Type -> map[string]int

func fieldOrder(t reflect.Type) map[string]int {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if m, ok := fieldOrders.Load(t); ok {
		return m.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		m[jsonFieldName(t.Field(i))] = i
	}
	fieldOrders.Store(t, m)
	return m
}
