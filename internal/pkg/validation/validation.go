package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to its localized validation message.
// It satisfies the error interface so services can return it directly.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validasi gagal"
	}
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// Add records a message for a field, keeping the first message per field
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Has reports whether a field already failed validation
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field names by their form tag so messages match the inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// fieldMessages carries the exact Indonesian messages per field and rule
var fieldMessages = map[string]map[string]string{
	"nama_lengkap": {
		"required": "Nama lengkap wajib diisi.",
		"max":      "Nama lengkap tidak boleh lebih dari 255 karakter.",
	},
	"username": {
		"required": "Username wajib diisi.",
		"max":      "Username tidak boleh lebih dari 255 karakter.",
	},
	"id_card": {
		"required": "ID Card wajib diisi.",
		"max":      "ID Card tidak boleh lebih dari 255 karakter.",
	},
	"role": {
		"required": "Role pengguna wajib dipilih.",
		"oneof":    "Role yang dipilih tidak valid.",
	},
	"jenis_pengguna": {
		"required": "Jenis pengguna wajib dipilih.",
		"oneof":    "Jenis pengguna yang dipilih tidak valid.",
	},
	"password": {
		"required": "Password wajib diisi.",
		"min":      "Password minimal terdiri dari 8 karakter.",
		"eqfield":  "Konfirmasi password tidak cocok.",
	},
	"file": {
		"required": "File wajib diisi.",
	},
}

// Check validates a struct and returns localized per-field errors.
// A nil return means the struct passed all declared rules.
func Check(s interface{}) Errors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"_": err.Error()}
	}

	errs := Errors{}
	for _, fe := range verrs {
		errs.Add(fe.Field(), messageFor(fe.Field(), fe.Tag(), fe.Param()))
	}
	return errs
}

func messageFor(field, tag, param string) string {
	if msgs, ok := fieldMessages[field]; ok {
		if msg, ok := msgs[tag]; ok {
			return msg
		}
	}

	switch tag {
	case "required":
		return fmt.Sprintf("Kolom %s wajib diisi.", field)
	case "max":
		return fmt.Sprintf("Kolom %s tidak boleh lebih dari %s karakter.", field, param)
	case "min":
		return fmt.Sprintf("Kolom %s minimal terdiri dari %s karakter.", field, param)
	case "oneof":
		return fmt.Sprintf("Nilai %s tidak valid.", field)
	case "eqfield":
		return fmt.Sprintf("Konfirmasi %s tidak cocok.", field)
	}
	return fmt.Sprintf("Kolom %s tidak valid.", field)
}
