package marketplace

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

var (
	timeType      = reflect.TypeOf(time.Time{})
	referenceType = map[reflect.Type]bool{
		reflect.TypeOf(User{}):    true,
		reflect.TypeOf(Subject{}): true,
	}
)

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// decode maps loosely typed JSON values onto target. Malformed dates,
// numbers and nested objects degrade to zero values instead of failing
// the whole response.
func decode(input, target any) error {
	if input == nil {
		return nil
	}

	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			lenientTimeHook,
			lenientNumberHook,
			idOnlyHook,
			// must stay last, it may hand back an untyped nil
			malformedObjectHook,
		),
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

func lenientTimeHook(from, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}

	s, ok := data.(string)
	if !ok {
		return time.Time{}, nil
	}

	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, nil
}

func lenientNumberHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	s := strings.TrimSpace(data.(string))
	switch to.Kind() {
	case reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return float64(0), nil
		}
		return f, nil
	case reflect.Int:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, nil
		}
		return int(f), nil
	default:
		return data, nil
	}
}

// idOnlyHook lets an unpopulated reference (a bare string) decode into the
// struct it refers to.
func idOnlyHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	s := data.(string)
	switch to {
	case reflect.TypeOf(User{}):
		return map[string]any{"_id": s}, nil
	case reflect.TypeOf(Subject{}):
		return map[string]any{"name": s}, nil
	default:
		return data, nil
	}
}

// malformedObjectHook replaces a scalar or array found where an object is
// expected. An optional (pointer) field becomes nil, a value field becomes
// its zero struct.
func malformedObjectHook(from, to reflect.Type, data any) (any, error) {
	switch from.Kind() {
	case reflect.Map, reflect.Struct, reflect.Ptr, reflect.Interface:
		return data, nil
	}

	target := to
	if to.Kind() == reflect.Ptr {
		target = to.Elem()
	}
	if target.Kind() != reflect.Struct || target == timeType {
		return data, nil
	}

	if to.Kind() == reflect.Ptr {
		// bare ids are expanded by idOnlyHook once the pointer is allocated
		if from.Kind() == reflect.String && referenceType[target] {
			return data, nil
		}
		return nil, nil
	}
	return map[string]any{}, nil
}
