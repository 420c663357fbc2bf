package validator

import (
	"fmt"

	"go-sitesafety-ws/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
	validate.RegisterValidation("field_role", func(fl validator.FieldLevel) bool {
		r, ok := model.ParseRole(fl.Field().String())
		return ok && r.IsFieldRole()
	})
	validate.RegisterValidation("risk_level", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseRiskLevel(fl.Field().String())
		return ok
	})
	validate.RegisterValidation("site_status", func(fl validator.FieldLevel) bool {
		switch model.SiteStatus(fl.Field().String()) {
		case model.SiteStatusPending, model.SiteStatusInProgress, model.SiteStatusDone:
			return true
		}
		return false
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// FirstError formats the first failure for an error response, "" when valid
func FirstError(errs []*ErrorResponse) string {
	if len(errs) == 0 {
		return ""
	}
	return fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag)
}
