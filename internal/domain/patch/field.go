// Package patch modela actualizaciones parciales explícitas por campo.
//
// Un Field distingue tres intenciones que un merge por "spread" no puede expresar:
// mantener el valor existente (campo ausente), limpiarlo (null) o reemplazarlo (valor).
package patch

import (
	"bytes"
	"encoding/json"
)

type op uint8

const (
	opKeep op = iota
	opClear
	opSet
)

// Field campo de un patch. El valor cero significa "mantener".
type Field[T any] struct {
	op    op
	value T
}

// Set construye un campo que reemplaza el valor.
func Set[T any](v T) Field[T] { return Field[T]{op: opSet, value: v} }

// Clear construye un campo que limpia el valor.
func Clear[T any]() Field[T] { return Field[T]{op: opClear} }

// Keep construye un campo que mantiene el valor existente.
func Keep[T any]() Field[T] { return Field[T]{} }

// IsKeep, IsClear, IsSet consultan la intención del campo.
func (f Field[T]) IsKeep() bool  { return f.op == opKeep }
func (f Field[T]) IsClear() bool { return f.op == opClear }
func (f Field[T]) IsSet() bool   { return f.op == opSet }

// Value devuelve el valor cuando IsSet.
func (f Field[T]) Value() T { return f.value }

// Apply resuelve el campo sobre el valor actual. cleared es el valor a usar cuando se limpia.
func (f Field[T]) Apply(current, cleared T) T {
	switch f.op {
	case opSet:
		return f.value
	case opClear:
		return cleared
	default:
		return current
	}
}

// UnmarshalJSON: null limpia, cualquier otro valor reemplaza. Un campo ausente en el JSON
// nunca llega aquí y queda en Keep.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Clear[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}
