package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewJobValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("not_blank", notBlankValidator),
		},
		{
			Rule: registerFn("job_status", jobStatusValidator),
		},
		{
			Rule: registerFn("work_mode", workModeValidator),
		},
		{
			Rule: registerFn("location", locationValidator),
		},
		{
			Rule: registerFn("applied_date", appliedDateValidator),
		},
	}
}
