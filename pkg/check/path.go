package check

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// fieldByPath traverses a dot-separated path into a value: struct fields by
// name, map entries by key, slice/array elements by decimal index.  A nil
// value anywhere along the path yields nil.
func fieldByPath(x any, path string) (any, error) {
	if path == "" {
		return x, nil
	}
	//
	for _, part := range strings.Split(path, ".") {
		if x == nil {
			return nil, nil
		}

		next, err := getField(x, part)
		if err != nil {
			return nil, err
		}

		x = next
	}
	//
	return x, nil
}

func getField(x any, field string) (any, error) {
	v := reflect.ValueOf(x)

	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}

		v = v.Elem()
	}
	//
	if index, err := strconv.Atoi(field); err == nil {
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return nil, fmt.Errorf("cannot index %s with %q", v.Kind(), field)
		}

		if index < 0 || index >= v.Len() {
			return nil, fmt.Errorf("index %d out of range for length %d", index, v.Len())
		}

		return v.Index(index).Interface(), nil
	}
	//
	switch v.Kind() {
	case reflect.Map:
		entry := v.MapIndex(reflect.ValueOf(field))
		if !entry.IsValid() {
			return nil, fmt.Errorf("key %q not found", field)
		}

		return entry.Interface(), nil
	case reflect.Struct:
		f := v.FieldByName(field)
		if !f.IsValid() {
			return nil, fmt.Errorf("field %q not found in %s", field, v.Type())
		}

		return f.Interface(), nil
	default:
		return nil, fmt.Errorf("cannot access field %q of %s", field, v.Kind())
	}
}
