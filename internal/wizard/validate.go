package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a payload field name to a human readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var messages = map[string]string{
	"full_name.min":                "Full name must be at least 3 characters long",
	"date_of_birth.isodate":        "Enter a valid date (YYYY-MM-DD)",
	"date_of_birth.notfuture":      "Date of birth cannot be in the future",
	"date_of_birth.minage":         "You must be at least 16 years old",
	"preferred_languages.min":      "Please select at least one preferred language",
	"num_backlogs.backlogs":        "Please specify the number of backlogs",
	"computer_skills.min":          "Please select at least one computer skill",
	"tool_exposure.min":            "Please select at least one tool",
	"preferred_job_roles.min":      "Please select at least one preferred job role",
	"preferred_industries.min":     "Please select at least one preferred industry",
	"preferred_time_slots.min":     "Please select at least one preferred time slot",
	"has_mobile_access.device":     "Please select at least one device you have access to",
	"career_goal_3_years.required": "Please describe your career goal",
	"career_goal_3_years.min":      "Please provide more detail (minimum 20 characters)",
	"commitment_confirmed.eq":      "Please confirm your commitment to the program",
}

// Validator checks form-path payloads. The clock decides "future" and age.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	val := &Validator{v: validator.New(validator.WithRequiredStructEnabled()), now: now}

	val.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(val.v.RegisterValidation("option", func(fl validator.FieldLevel) bool {
		set, ok := optionSets[fl.Param()]
		return ok && set.Valid(fl.Field().String())
	}))
	must(val.v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return parseDate(fl.Field().String()) != nil
	}))
	must(val.v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		dob := parseDate(fl.Field().String())
		return dob != nil && !dob.After(val.today())
	}))
	must(val.v.RegisterValidation("minage", func(fl validator.FieldLevel) bool {
		years, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		dob := parseDate(fl.Field().String())
		return dob != nil && age(*dob, val.today()) >= years
	}))

	val.v.RegisterStructValidation(func(sl validator.StructLevel) {
		e := sl.Current().Interface().(Education)
		if e.HasBacklogs && e.NumBacklogs <= 0 {
			sl.ReportError(e.NumBacklogs, "num_backlogs", "NumBacklogs", "backlogs", "")
		}
	}, Education{})
	val.v.RegisterStructValidation(func(sl validator.StructLevel) {
		a := sl.Current().Interface().(Availability)
		if !a.HasMobileAccess && !a.HasLaptopAccess {
			sl.ReportError(a.HasMobileAccess, "has_mobile_access", "HasMobileAccess", "device", "")
		}
	}, Availability{})

	return val
}

// Validate normalizes s and returns FieldErrors when any rule fails.
func (val *Validator) Validate(s Step) error {
	s.normalize()
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe)
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = message(name, fe)
	}
	return out
}

func (val *Validator) today() time.Time {
	y, m, d := val.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fieldName drops the root struct from the namespace, so nested rows read
// like "experiences[0].role". Dived slice elements report the slice name.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.Index(ns, "["); i >= 0 && !strings.Contains(ns[i:], ".") {
		ns = ns[:i]
	}
	return ns
}

func message(name string, fe validator.FieldError) string {
	base := name
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[i+1:]
	}
	if msg, ok := messages[base+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "option":
		return fmt.Sprintf("%q is not a valid choice", fe.Value())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	}
	return "Invalid value"
}

// age counts completed years between dob and today.
func age(dob, today time.Time) int {
	years := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}
	return years
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
