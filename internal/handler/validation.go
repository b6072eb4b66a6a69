package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"newsbug/pkg/cron"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once
var registerErr error

// RegisterValidators adds the "cron" tag to gin's validator and reports
// field errors under their JSON names.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected validator engine")
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		registerErr = v.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
			return cron.Validate(fl.Field().String())
		})
	})
	return registerErr
}

// fieldErrors flattens a binding error into per-field messages. Messages come
// from the struct's msg tag when present.
func fieldErrors(err error, obj any) map[string][]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make(map[string][]string)
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s is invalid", fe.Field())
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if m := sf.Tag.Get("msg"); m != "" {
				msg = m
			}
		}

		if !contains(out[fe.Field()], msg) {
			out[fe.Field()] = append(out[fe.Field()], msg)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
