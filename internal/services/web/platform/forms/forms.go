// Package forms validates decoded form submissions and maps failures to
// catalog keys.
//
// Structs name their form fields with a `form` tag and their rules with a
// `validate` tag. Besides the stock validator rules, three date rules are
// registered: `date` (YYYY-MM-DD), `minage=N` and `maxage=N`. The age rules
// are exclusive: a birthday exactly N years before today fails both.
package forms

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	webi18n "github.com/studentreg/web/internal/services/web/platform/i18n"
)

// Errors maps form field names to the name of the first rule they failed.
type Errors map[string]string

// Has reports whether field failed.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Messages maps each failed field to a catalog key and localizes it. keys is
// looked up by "field.rule" first, then by "field".
func (e Errors) Messages(loc webi18n.Localizer, keys map[string]string) map[string]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string]string, len(e))
	for field, rule := range e {
		key, ok := keys[field+"."+rule]
		if !ok {
			key, ok = keys[field]
		}
		if !ok {
			continue
		}
		if loc == nil {
			out[field] = key
			continue
		}
		out[field] = loc.Sprintf(key)
	}
	return out
}

// Validator checks form structs against a clock.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New builds a Validator; a nil now uses the wall clock.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{validate: validator.New(validator.WithRequiredStructEnabled()), now: now}
	v.validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	mustRegister(v.validate, "date", func(_ context.Context, fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	mustRegister(v.validate, "minage", v.ageRule(func(dob, bound time.Time) bool { return dob.Before(bound) }))
	mustRegister(v.validate, "maxage", v.ageRule(func(dob, bound time.Time) bool { return dob.After(bound) }))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.FuncCtx) {
	if err := v.RegisterValidationCtx(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s rule: %v", tag, err))
	}
}

// ageRule compares the birthday with today minus the rule's years. Values that
// do not parse pass, leaving the report to the date rule.
func (v *Validator) ageRule(ok func(dob, bound time.Time) bool) validator.FuncCtx {
	return func(_ context.Context, fl validator.FieldLevel) bool {
		dob, err := ParseDate(fl.Field().String())
		if err != nil {
			return true
		}
		years, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return ok(dob, Today(v.now()).AddDate(-years, 0, 0))
	}
}

// Check validates s. When fields are given only those struct fields are
// checked.
func (v *Validator) Check(ctx context.Context, s any, fields ...string) (Errors, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var err error
	if len(fields) > 0 {
		err = v.validate.StructPartialCtx(ctx, s, fields...)
	} else {
		err = v.validate.StructCtx(ctx, s)
	}
	if err == nil {
		return nil, nil
	}
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return nil, fmt.Errorf("validate form: %w", err)
	}
	out := make(Errors, len(failures))
	for _, failure := range failures {
		if _, seen := out[failure.Field()]; !seen {
			out[failure.Field()] = failure.Tag()
		}
	}
	return out, nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	return time.Parse(time.DateOnly, raw)
}

// Today truncates now to its calendar date in UTC.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
