// Package model maps sqlite tables onto Go structs field by field and loads
// related rows with one extra query per relation.
package model

import "fmt"

type Schema[T any] struct {
	Table     string
	Fields    map[string]FieldType[T]
	Relations map[string]Relation[T]
	QueryMods []QueryMod
}

func New[T any](table string) *Schema[T] {
	return &Schema[T]{
		Table:     table,
		Fields:    map[string]FieldType[T]{},
		Relations: map[string]Relation[T]{},
	}
}

func (schema *Schema[T]) AddField(
	name string,
	mod QueryMod,
	rowScan RowScan[T],
) *Schema[T] {
	schema.Fields[name] = Field(mod, rowScan)

	return schema
}

func (schema *Schema[T]) AddFieldType(name string, field FieldType[T]) *Schema[T] {
	schema.Fields[name] = field

	return schema
}

// AddSimpleField registers a field whose name is also its column name.
func (schema *Schema[T]) AddSimpleField(name string, ptr func(t *T) any) *Schema[T] {
	return schema.AddField(name, Col(name), Ptr(ptr))
}

func (schema *Schema[T]) AddRelation(name string, relation Relation[T]) *Schema[T] {
	schema.Relations[name] = relation

	return schema
}

// ModifyQuery adds a mod applied to every query built from this schema.
func (schema *Schema[T]) ModifyQuery(mod QueryMod) *Schema[T] {
	schema.QueryMods = append(schema.QueryMods, mod)

	return schema
}

func (schema *Schema[T]) Query(fields ...string) Query[T] {
	return newQuery(*schema, fields...)
}

// Check reports whether field (possibly dotted through relations) exists.
func (schema *Schema[T]) Check(field string) error {
	field, rest := isNested(field)

	if field == "" || field == "*" {
		return nil
	}

	if relation, ok := schema.Relations[field]; ok {
		return relation.Check(rest)
	}

	if _, ok := schema.Fields[field]; ok {
		if rest != "" {
			return fmt.Errorf("%w: %s", ErrNoSuchRelation, field)
		}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrNoSuchField, field)
}
