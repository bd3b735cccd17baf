package docstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Record is the generic key-value form a document takes in the store.
type Record map[string]interface{}

const (
	// idField is the store-reserved lowercase identifier key.
	idField = "id"
	// entityTypeField carries the namespace-qualified type tag. It lives only
	// on the record, never on the document struct, so callers cannot set it.
	entityTypeField = "EntityType"
)

// recordKey returns the record key for a struct field: the "doc" tag when
// present, the Go field name otherwise. Any spelling of the identifier field
// maps to the reserved "id" key. An empty return means the field is excluded.
func recordKey(f reflect.StructField) string {
	key := f.Tag.Get("doc")
	if key == "-" {
		return ""
	}
	if key == "" {
		key = f.Name
	}
	if strings.EqualFold(key, idField) {
		return idField
	}
	return key
}

// toRecord converts a document struct (or pointer to one) into its record
// form. Only exported fields are serialized; internal bookkeeping belongs in
// the record itself, not on the struct.
func toRecord(entity interface{}) (Record, error) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, NewValidationError("entity is required")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, NewValidationError("document must be a struct, got %s", v.Kind())
	}
	t := v.Type()
	rec := make(Record, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key := recordKey(f)
		if key == "" {
			continue
		}
		rec[key] = v.Field(i).Interface()
	}
	return rec, nil
}

// fromRecord hydrates a new T from a store record. Keys without a matching
// field (the EntityType tag among them) are ignored. Numeric values convert
// to the declared field type; composite values take a JSON round-trip, since
// query results arrive JSON-decoded.
func fromRecord[T any](rec Record) (*T, error) {
	entity := new(T)
	v := reflect.ValueOf(entity).Elem()
	if v.Kind() != reflect.Struct {
		return nil, NewValidationError("document must be a struct, got %s", v.Kind())
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key := recordKey(f)
		if key == "" {
			continue
		}
		raw, ok := rec[key]
		if !ok || raw == nil {
			continue
		}
		if err := assignField(v.Field(i), raw); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return entity, nil
}

func assignField(dst reflect.Value, raw interface{}) error {
	rv := reflect.ValueOf(raw)
	switch {
	case rv.Type().AssignableTo(dst.Type()):
		dst.Set(rv)
		return nil
	case isNumericKind(rv.Kind()) && isNumericKind(dst.Kind()):
		dst.Set(rv.Convert(dst.Type()))
		return nil
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst.Addr().Interface())
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// entityID reads the document's identifier field, which must be a string.
func entityID(entity interface{}) (string, error) {
	field, err := idFieldValue(entity)
	if err != nil {
		return "", err
	}
	return field.String(), nil
}

// setEntityID writes a generated identifier back onto the document.
func setEntityID(entity interface{}, id string) error {
	field, err := idFieldValue(entity)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return NewValidationError("entity must be a pointer to assign a generated id")
	}
	field.SetString(id)
	return nil
}

func idFieldValue(entity interface{}) (reflect.Value, error) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, NewValidationError("entity is required")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, NewValidationError("document must be a struct, got %s", v.Kind())
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || recordKey(f) != idField {
			continue
		}
		if f.Type.Kind() != reflect.String {
			return reflect.Value{}, NewValidationError("identifier field %s must be a string", f.Name)
		}
		return v.Field(i), nil
	}
	return reflect.Value{}, NewValidationError("document type %s has no identifier field", t.Name())
}
