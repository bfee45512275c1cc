package form

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// Indian mobile numbers: 10 digits, leading digit 6-9.
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	// Indian postal codes: exactly 6 digits.
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

// fieldValidator wraps go-playground/validator with the custom rules the
// form needs and maps violations to per-field user-facing messages.
type fieldValidator struct {
	v *validator.Validate
}

func newFieldValidator() *fieldValidator {
	v := validator.New()
	_ = v.RegisterValidation("inphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})
	return &fieldValidator{v: v}
}

// validateAll checks every field and returns all violations at once,
// keyed the way the form surfaces them.
func (fv *fieldValidator) validateAll(data Data, imageCount int) map[string]string {
	errs := make(map[string]string)

	if err := fv.v.Struct(data); err != nil {
		var violations validator.ValidationErrors
		if errors.As(err, &violations) {
			for _, e := range violations {
				key, msg := fieldMessage(e.StructField())
				if key != "" {
					errs[key] = msg
				}
			}
		}
	}

	if imageCount == 0 {
		errs["images"] = "Upload one"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// fieldMessage maps a struct field to its error key and message.
func fieldMessage(field string) (key, msg string) {
	switch field {
	case "CenterName":
		return "centerName", "Required"
	case "Phone":
		return "phone", "Invalid Phone"
	case "Email":
		return "email", "Invalid Email"
	case "City":
		return "city", "Required"
	case "State":
		return "state", "Required"
	case "ZipCode":
		return "zipCode", "Invalid Zip"
	case "Latitude":
		return "location", "Required"
	case "Categories":
		return "categories", "Select one"
	}
	return "", ""
}
