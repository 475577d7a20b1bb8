package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/garnizeh/devconnect/pkg/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// a zero Date counts as missing
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(models.Date); ok && !d.IsZero() {
			return d.Time
		}
		return nil
	}, models.Date{})

	return v
}

// fieldMessages maps a json field name to the message reported when it fails validation.
type fieldMessages map[string]string

// validateRequest returns one error item per failing field, or nil when req is valid.
func validateRequest(req any, msgs fieldMessages) []errorItem {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []errorItem{{Msg: err.Error()}}
	}

	items := make([]errorItem, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := msgs[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		items = append(items, errorItem{Param: fe.Field(), Msg: msg, Location: "body"})
	}
	return items
}

// decodeJSON reads the request body into v. An empty body leaves v untouched so the
// field validation reports what is missing.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// normalizer is implemented by requests that clean up their input before validation.
type normalizer interface {
	normalize()
}

// decodeAndValidate answers 400 and returns false when the body is malformed or fails
// validation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any, msgs fieldMessages) bool {
	if err := decodeJSON(r, req); err != nil {
		writeErrors(w, http.StatusBadRequest, errorItem{Msg: "Invalid request body"})
		return false
	}
	if n, ok := req.(normalizer); ok {
		n.normalize()
	}
	if items := validateRequest(req, msgs); len(items) > 0 {
		writeErrors(w, http.StatusBadRequest, items...)
		return false
	}
	return true
}
