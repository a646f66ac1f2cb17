package command

import (
	"fmt"
	"reflect"
	"strconv"
)

// Normalize strips the parts of a command stream that are allowed to vary
// between equivalent implementations: timestamps collapse to zero, opaque
// requestIds collapse to a shared placeholder, and numeric payload fields
// are reformatted to a canonical string so "10" and "10.0" compare equal
// (spec §4.4, §6.2). The result is only useful for equality comparison in
// tests — it is not a wire format.
func Normalize(stream []Command) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(stream))
	for _, c := range stream {
		out = append(out, map[string]interface{}{
			"type":    string(c.Type),
			"payload": normalizePayload(c.Payload),
		})
	}
	return out
}

const requestIDPlaceholder = "<request-id>"

func normalizePayload(payload interface{}) interface{} {
	if payload == nil {
		return nil
	}
	v := reflect.ValueOf(payload)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return normalizeScalar(payload)
	}

	t := v.Type()
	out := make(map[string]interface{}, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if name == "RequestID" {
			out[name] = requestIDPlaceholder
			continue
		}
		out[name] = normalizeScalar(v.Field(i).Interface())
	}
	return out
}

// normalizeScalar reformats numeric values to a canonical decimal string so
// equivalent values encoded as different Go numeric types (int, int64,
// float64, ...) compare equal after normalization.
func normalizeScalar(v interface{}) interface{} {
	switch n := v.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float32:
		return formatFloat(float64(n))
	case float64:
		return formatFloat(n)
	case []interface{}:
		out := make([]interface{}, len(n))
		for i, e := range n {
			out[i] = normalizeScalar(e)
		}
		return out
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Equivalent reports whether two command streams are equivalent per spec
// §4.4: identical as ordered sequences after normalizing timestamps,
// requestIds, and numeric formatting.
func Equivalent(a, b []Command) bool {
	na, nb := Normalize(a), Normalize(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if !reflect.DeepEqual(na[i], nb[i]) {
			return false
		}
	}
	return true
}
