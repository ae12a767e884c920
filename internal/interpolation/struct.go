package interpolation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// TagName marks the struct fields InterpolateStruct expands.
const TagName = "env_interpolation"

// InterpolateStruct expands environment variables in place in the fields of
// the struct v points to that are tagged `env_interpolation:"yes"`. Tagged
// strings, string slices, nested structs and struct pointers are handled;
// other field kinds are ignored.
func InterpolateStruct(v any) error {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return fmt.Errorf("expected non-nil pointer to struct, got %T", v)
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected pointer to struct, got %T", v)
	}
	return interpolateFields(val)
}

func interpolateFields(val reflect.Value) error {
	typ := val.Type()
	var errs []error

	for i := range val.NumField() {
		field := val.Field(i)
		info := typ.Field(i)
		if !field.CanSet() || strings.ToLower(info.Tag.Get(TagName)) != "yes" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			expanded, err := ExpandEnvVars(field.String())
			if err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", info.Name, err))
				continue
			}
			field.SetString(expanded)

		case reflect.Slice:
			if field.Type().Elem().Kind() != reflect.String {
				continue
			}
			for j := range field.Len() {
				elem := field.Index(j)
				expanded, err := ExpandEnvVars(elem.String())
				if err != nil {
					errs = append(errs, fmt.Errorf("field %s[%d]: %w", info.Name, j, err))
					continue
				}
				elem.SetString(expanded)
			}

		case reflect.Struct:
			if err := interpolateFields(field); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", info.Name, err))
			}

		case reflect.Pointer:
			if field.IsNil() || field.Elem().Kind() != reflect.Struct {
				continue
			}
			if err := interpolateFields(field.Elem()); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", info.Name, err))
			}
		}
	}

	return errors.Join(errs...)
}
