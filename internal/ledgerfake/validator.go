package ledgerfake

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the ledger binding rules on the gin validator.
func RegisterValidators() error {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(JSONFieldName)
			registerErr = v.RegisterValidation("accountnumber", ValidAccountNumber)
		}
	})

	return registerErr
}

// ValidAccountNumber validates that the field holds only digits.
var ValidAccountNumber validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok || s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// JSONFieldName reports validation errors under the json name of the field.
func JSONFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return fld.Name
	}

	return name
}
