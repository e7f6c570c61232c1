package util

import (
	"reflect"
	"strings"
	"unicode/utf8"
)

// TrimSpaceFields returns each value with surrounding whitespace removed.
func TrimSpaceFields(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

// TrimAndLower normalizes enum-like config values such as driver names and log levels.
func TrimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TrimEmptyCheck returns the trimmed value and whether anything is left.
func TrimEmptyCheck(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// TrimWithDefault returns def when s is blank.
func TrimWithDefault(s, def string) string {
	if t, ok := TrimEmptyCheck(s); ok {
		return t
	}
	return def
}

// Truncate cuts s to at most n bytes and appends "..." when it was longer.
// The cut never splits a multi-byte rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// TrimStructFields trims exported string fields of the struct v points to, descending into
// nested structs. Fields tagged `trim:"-"` (passwords, secrets) are left untouched.
func TrimStructFields(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return
	}
	trimValue(rv.Elem())
}

func trimValue(rv reflect.Value) {
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() || sf.Tag.Get("trim") == "-" {
			continue
		}
		field := rv.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(strings.TrimSpace(field.String()))
		case reflect.Struct:
			trimValue(field)
		}
	}
}
