package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	appErrors "todo-backend/pkg/errors"
)

const maxBodyBytes = 10 << 20

// decodeJSON reads a single JSON object from the request body into dst.
// Unknown fields and type mismatches are validation errors phrased like
// the field rules. An empty body decodes as {}. A field sent as null is
// present and must still have its declared type.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return decodeError(err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return decodeError(err)
	}
	if dec.More() {
		return appErrors.NewValidation("Request body must contain a single JSON object")
	}
	return rejectNulls(body, dst)
}

// rejectNulls reports the first field of dst, in declaration order, whose
// value in body is a literal null.
func rejectNulls(body []byte, dst any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return nil
	}

	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		if raw, ok := fields[name]; ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return appErrors.NewValidation(fmt.Sprintf(`"%s" must be %s`, name, article(jsonKind(f.Type))))
		}
	}
	return nil
}

func decodeError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)

	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return appErrors.NewValidation("Invalid JSON payload")
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return appErrors.NewValidation(fmt.Sprintf(`"value" must be of type %s`, jsonKind(typeErr.Type)))
		}
		return appErrors.NewValidation(fmt.Sprintf(`"%s" must be %s`, fieldPath(typeErr.Field), article(jsonKind(typeErr.Type))))
	case errors.As(err, &maxErr):
		return appErrors.NewValidation("Request body too large")
	}

	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		name, uerr := strconv.Unquote(field)
		if uerr != nil {
			name = strings.Trim(field, `"`)
		}
		return appErrors.NewValidation(fmt.Sprintf(`"%s" is not allowed`, name))
	}
	return appErrors.NewValidation("Invalid JSON payload")
}

// fieldPath turns "tags.0" into "tags[0]".
func fieldPath(field string) string {
	parts := strings.Split(field, ".")
	var b strings.Builder
	for i, part := range parts {
		if _, err := strconv.Atoi(part); err == nil && i > 0 {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	}
	return "value"
}

func article(kind string) string {
	switch kind {
	case "array", "object":
		return "an " + kind
	}
	return "a " + kind
}
