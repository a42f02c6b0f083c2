// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/olegiv/folio/internal/model"
)

// MaxBodySize bounds JSON request bodies.
const MaxBodySize = 1 << 20

type bodyKey struct{}

// NewValidator returns a validator that reports fields by their JSON names
// and validates the contents of set model.Opt fields. It adds the notblank
// rule, which rejects whitespace-only strings and empty lists.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(optValue,
		model.Opt[string]{},
		model.Opt[int]{},
		model.Opt[bool]{},
		model.Opt[[]string]{},
		model.Opt[*time.Time]{},
		model.Opt[model.Status]{},
		model.Opt[model.Role]{},
		model.Opt[model.SEO]{},
		model.Opt[model.Metrics]{},
		model.Opt[[]model.Collaborator]{},
		model.Opt[model.Section]{},
	)
	return v
}

// optValue unwraps an Opt so rules apply to its value. Unset fields
// become a nil pointer, which omitempty and omitnil skip. A list set to
// null is checked as an empty one.
func optValue(field reflect.Value) any {
	o, ok := field.Interface().(interface{ ValidationValue() any })
	if !ok {
		return nil
	}
	v := o.ValidationValue()
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.IsNil() {
		return reflect.MakeSlice(rv.Type(), 0, 0).Interface()
	}
	return v
}

// ValidateBody creates middleware that decodes the JSON request body into a
// T, validates it and stores it in the request context for Body. Malformed
// JSON and rule violations are answered with 400.
func ValidateBody[T any](v *validator.Validate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body T
			dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
			if err := dec.Decode(&body); err != nil {
				WriteAPIError(w, http.StatusBadRequest, decodeMessage(err))
				return
			}

			if fields := Validate(v, body); len(fields) > 0 {
				WriteValidationError(w, fields)
				return
			}

			ctx := context.WithValue(r.Context(), bodyKey{}, body)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func decodeMessage(err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return "Request body too large"
	case errors.Is(err, io.EOF):
		return "Request body is required"
	default:
		return "Invalid JSON"
	}
}

// Body returns the request body decoded by ValidateBody.
func Body[T any](r *http.Request) (T, bool) {
	body, ok := r.Context().Value(bodyKey{}).(T)
	return body, ok
}

// Validate checks s against its struct tags and returns every violation.
// Values that are not structs carry no tags and always pass.
func Validate(v *validator.Validate, s any) []model.FieldError {
	if reflect.Indirect(reflect.ValueOf(s)).Kind() != reflect.Struct {
		return nil
	}
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []model.FieldError{{Field: "body", Message: "is invalid"}}
	}

	fields := make([]model.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, model.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return fields
}

// fieldPath drops the struct name from a namespace like
// "BlogPostInput.seo.metaTitle".
func fieldPath(namespace string) string {
	_, path, ok := strings.Cut(namespace, ".")
	if !ok {
		return namespace
	}
	return path
}

func fieldMessage(fe validator.FieldError) string {
	sized := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		if sized {
			return "must contain at least 1 item(s)"
		}
		return "must not be empty"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if sized {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if sized {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
