package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 64 << 10

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler may continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return h.readJSON(w, r, dst) && h.check(w, dst)
}

// decodeTrimmed is decode with a normalization step run before validation
func (h *Handler) decodeTrimmed(w http.ResponseWriter, r *http.Request, dst any, normalize func()) bool {
	if !h.readJSON(w, r, dst) {
		return false
	}
	normalize()
	return h.check(w, dst)
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		h.badRequest(w, "Invalid request body")
		return false
	}
	return true
}

// check validates v and reports extra alongside the struct tag failures
func (h *Handler) check(w http.ResponseWriter, v any, extra ...FieldError) bool {
	var fields []FieldError
	if err := h.validate.Struct(v); err != nil {
		fields = fieldErrors(err)
	}
	fields = append(fields, extra...)
	if len(fields) > 0 {
		h.invalid(w, fields)
		return false
	}
	return true
}

// amountErrors checks a money field against the ledger's NUMERIC(20,4)
// columns without converting it to a float
func amountErrors(field string, d decimal.Decimal) []FieldError {
	var msg string
	switch err := models.CheckAmount(d); {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrAmountScale):
		msg = fmt.Sprintf("must have at most %d decimal places", models.AmountScale)
	case errors.Is(err, models.ErrAmountRange):
		msg = fmt.Sprintf("must be less than 10^%d", models.AmountIntDigits)
	default:
		msg = "must be greater than 0"
	}
	return []FieldError{{Field: field, Message: msg}}
}

func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid id"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "nefield":
		return "must differ from " + lowerFirst(fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
