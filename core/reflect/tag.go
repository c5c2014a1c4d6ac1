package reflect

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTagTargetMustBePointer = errors.New("target must be a pointer")
	ErrTagTargetMustNotBeNil  = errors.New("target must not be nil")
	ErrTagUnsupportedType     = errors.New("unsupported type")
)

var durationType = reflect.TypeOf(time.Duration(0))

type TagOption struct {
	tag string
}

// WithTag sets the tag name read for default values.
func WithTag(tag string) func(*TagOption) {
	return func(c *TagOption) {
		c.tag = tag
	}
}

func validateTarget(target any) (reflect.Type, reflect.Value, error) {
	valueOf := reflect.ValueOf(target)

	if valueOf.Kind() != reflect.Ptr {
		return nil, reflect.Value{}, ErrTagTargetMustBePointer
	}

	if valueOf.IsNil() {
		return nil, reflect.Value{}, ErrTagTargetMustNotBeNil
	}

	return valueOf.Type().Elem(), valueOf.Elem(), nil
}

// SetDefaultTag fills zero-valued fields of the struct pointed to by target
// from their `default` tag. Nested structs are walked even without a tag,
// fields that already hold a value are left alone.
func SetDefaultTag(target any, opts ...func(*TagOption)) error {
	t, v, err := validateTarget(target)
	if err != nil {
		return err
	}
	if t.Kind() != reflect.Struct {
		return ErrTagUnsupportedType
	}

	option := &TagOption{
		tag: "default",
	}
	for _, opt := range opts {
		opt(option)
	}

	return setStructDefaults(t, v, option.tag)
}

func setStructDefaults(t reflect.Type, v reflect.Value, tagName string) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldValue := v.Field(i)
		tagValue, hasTag := field.Tag.Lookup(tagName)

		if field.Type.Kind() == reflect.Struct {
			if err := setStructDefaults(field.Type, fieldValue, tagName); err != nil {
				return err
			}
			continue
		}

		if !hasTag || !fieldValue.IsZero() {
			continue
		}

		if err := setFieldValue(fieldValue, tagValue); err != nil {
			return err
		}
	}
	return nil
}

func setFieldValue(value reflect.Value, tagValue string) error {
	switch {
	case value.Type() == durationType:
		d, err := time.ParseDuration(tagValue)
		if err != nil {
			return err
		}
		value.SetInt(int64(d))
		return nil
	case isBasicType(value.Kind()):
		return parseSetValue(value, tagValue)
	case value.Kind() == reflect.Slice:
		return setSliceValue(value, tagValue)
	default:
		return ErrTagUnsupportedType
	}
}

func parseSetValue(value reflect.Value, str string) error {
	switch value.Kind() {
	case reflect.String:
		value.SetString(str)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(str, 10, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(str, 10, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(str, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetFloat(parsed)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(str)
		if err != nil {
			return err
		}
		value.SetBool(parsed)
	default:
		return ErrTagUnsupportedType
	}
	return nil
}

// setSliceValue fills a slice of basic types from a comma separated tag.
func setSliceValue(value reflect.Value, tagValue string) error {
	if tagValue == "" {
		return nil
	}
	if !isBasicType(value.Type().Elem().Kind()) {
		return ErrTagUnsupportedType
	}

	tagValues := strings.Split(tagValue, ",")
	slice := reflect.MakeSlice(value.Type(), len(tagValues), len(tagValues))
	for i, val := range tagValues {
		if err := parseSetValue(slice.Index(i), strings.TrimSpace(val)); err != nil {
			return err
		}
	}

	value.Set(slice)
	return nil
}

func isBasicType(kind reflect.Kind) bool {
	switch kind {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
