package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
)

var (
	// ErrNoSuchField is returned when there is no field or no relation with that name.
	ErrNoSuchField = errors.New("field does not exist")
	// ErrNoSuchRelation is returned when selecting a nested field through something that is not a relation.
	ErrNoSuchRelation = errors.New("relation does not exist")
	// ErrTooManyResults is returned when CollectOne matched more than one row.
	ErrTooManyResults = errors.New("too many results for CollectOne")
)

type Query[T any] struct {
	schema Schema[T]

	selectedFields         map[string]FieldType[T]
	selectedRelations      map[string]Relation[T]
	selectedRelationFields map[string][]string
	queryMods              []QueryMod

	errors []error
}

func newQuery[T any](schema Schema[T], fields ...string) Query[T] {
	query := Query[T]{
		schema:                 schema,
		selectedFields:         map[string]FieldType[T]{},
		selectedRelations:      map[string]Relation[T]{},
		selectedRelationFields: map[string][]string{},
	}

	return query.Select(fields...)
}

func (query Query[T]) ModifyQuery(mod QueryMod) Query[T] {
	query.queryMods = append(slices.Clone(query.queryMods), mod)

	return query
}

func (query Query[T]) Select(fieldNames ...string) Query[T] {
	query = query.clone()

	if len(fieldNames) == 0 {
		query.selectAllFields()
		return query
	}

	for _, name := range fieldNames {
		query.resolveSelect(name)
	}

	return query
}

func (query *Query[T]) resolveSelect(name string) {
	field, rest := isNested(name)

	if field == "*" {
		if rest != "" {
			query.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, name))
			return
		}

		query.selectAllFields()
		return
	}

	if relation, ok := query.schema.Relations[field]; ok {
		if rest != "" && rest != "*" {
			if err := relation.Check(rest); err != nil {
				query.addError(err)
				return
			}
		}
		query.selectRelation(field, rest)
		return
	}

	if _, ok := query.schema.Fields[field]; ok {
		// Plain fields have nothing to nest into.
		if rest != "" {
			query.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, field))
			return
		}
		query.selectedFields[field] = query.schema.Fields[field]
		return
	}

	query.addError(fmt.Errorf("%w: %s", ErrNoSuchField, field))
}

func (query *Query[T]) selectAllFields() {
	maps.Copy(query.selectedFields, query.schema.Fields)
}

func (query *Query[T]) selectRelation(relName, relField string) {
	if relField == "" {
		relField = "*"
	}

	query.selectedRelations[relName] = query.schema.Relations[relName]
	query.selectedRelationFields[relName] = append(query.selectedRelationFields[relName], relField)
}

// =================
// Finishers
// =================

func (query Query[T]) Err() error {
	return errors.Join(query.errors...)
}

func (query Query[T]) Collect(ctx context.Context, db squirrel.BaseRunner) ([]T, error) {
	query = query.withDependencies()
	if err := query.Err(); err != nil {
		return nil, err
	}

	parents, err := query.collectBaseModels(ctx, db)
	if err != nil {
		return nil, err
	}

	if err := query.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return parents, nil
}

func (query Query[T]) CollectOne(ctx context.Context, db squirrel.BaseRunner) (*T, error) {
	query = query.withDependencies()
	if err := query.Err(); err != nil {
		return nil, err
	}

	parents, err := query.collectBaseModels(ctx, db)
	if err != nil {
		return nil, err
	}

	if len(parents) == 0 {
		return nil, sql.ErrNoRows
	} else if len(parents) > 1 {
		return nil, ErrTooManyResults
	}

	if err := query.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return &parents[0], nil
}

// withDependencies selects the fields every selected relation needs to bind
// its children back to their parents.
func (query Query[T]) withDependencies() Query[T] {
	query = query.clone()
	for _, name := range slices.Sorted(maps.Keys(query.selectedRelations)) {
		for _, dep := range query.selectedRelations[name].Depends {
			query.resolveSelect(dep)
		}
	}

	return query
}

func (query Query[T]) collectBaseModels(
	ctx context.Context,
	db squirrel.BaseRunner,
) ([]T, error) {
	table := query.schema.Table
	q := squirrel.StatementBuilder.RunWith(db).Select().From(table)

	q = applyMods(q, table, query.schema.QueryMods)
	q = applyMods(q, table, query.queryMods)

	// Sorted so the generated column list is stable.
	var scans []RowScan[T]
	for _, name := range slices.Sorted(maps.Keys(query.selectedFields)) {
		field := query.selectedFields[name]
		q = field.Mod(q, table)
		scans = append(scans, field.RowScan)
	}

	return Collect(ctx, q, flattenRowScan(scans))
}

func (query Query[T]) resolveRelations(
	ctx context.Context,
	db squirrel.BaseRunner,
	parents []T,
) error {
	if len(parents) == 0 {
		return nil
	}

	for _, name := range slices.Sorted(maps.Keys(query.selectedRelations)) {
		err := query.selectedRelations[name].Resolve(
			ctx,
			db,
			parents,
			query.selectedRelationFields[name],
		)
		if err != nil {
			return fmt.Errorf("resolve %s.%s: %w", query.schema.Table, name, err)
		}
	}

	return nil
}

// =================
// Utilities
// =================

// clone copies the selection maps so derived queries never share state.
func (query Query[T]) clone() Query[T] {
	query.selectedFields = maps.Clone(query.selectedFields)
	query.selectedRelations = maps.Clone(query.selectedRelations)
	relationFields := make(map[string][]string, len(query.selectedRelationFields))
	for name, fields := range query.selectedRelationFields {
		relationFields[name] = slices.Clone(fields)
	}
	query.selectedRelationFields = relationFields
	query.errors = slices.Clone(query.errors)

	return query
}

func (query *Query[T]) addError(err error) {
	query.errors = append(query.errors, err)
}

func isNested(name string) (string, string) {
	field, rest, _ := strings.Cut(name, ".")
	return field, rest
}
