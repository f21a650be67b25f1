package model

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

type (
	Resolve[M any]   func(ctx context.Context, db squirrel.BaseRunner, parents []M, fields []string) error
	FieldCheck       func(field string) error
	Binder[M, N any] func(parents []M, children []N)
)

type Relation[M any] struct {
	Resolve Resolve[M]
	Check   FieldCheck
	// Depends lists the fields, on the parent or through this relation, that
	// must be loaded for Resolve to bind children to parents.
	Depends []string
}

func HasMany[M, N any](
	child *Schema[N],
	belongTogether func(M, N) bool,
	assign func(*M, []N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(child, BindBy(belongTogether, assign), wherer, depends)
}

func HasOne[M, N any](
	child *Schema[N],
	belongTogether func(M, N) bool,
	assign func(*M, N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(child, BindByOne(belongTogether, assign), wherer, depends)
}

func CreateRelation[M, N any](
	child *Schema[N],
	binder Binder[M, N],
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return Relation[M]{
		Check: func(field string) error {
			return child.Check(field)
		},
		Resolve: func(ctx context.Context, db squirrel.BaseRunner, parents []M, fields []string) error {
			children, err := child.Query(fields...).
				ModifyQuery(wherer(parents)).
				Collect(ctx, db)
			if err != nil {
				return err
			}

			binder(parents, children)

			return nil
		},
		Depends: depends,
	}
}

func BindBy[M, N any](
	belongTogether func(M, N) bool,
	assign func(*M, []N),
) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]

			collection := lo.Filter(children, func(child N, _ int) bool {
				return belongTogether(*parent, child)
			})

			assign(parent, collection)
		}
	}
}

func BindByOne[M, N any](
	belongTogether func(M, N) bool,
	assign func(*M, N),
) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]

			child, ok := lo.Find(children, func(child N) bool {
				return belongTogether(*parent, child)
			})
			if ok {
				assign(parent, child)
			}
		}
	}
}

// WhereIDs limits the child query to rows whose col matches an id taken from
// one of the parents.
func WhereIDs[M any, K comparable](col string, getID func(m M) K) func(parents []M) QueryMod {
	return func(parents []M) QueryMod {
		return Where(col, lo.Uniq(lo.Map(
			parents,
			func(parent M, _ int) K { return getID(parent) },
		)))
	}
}

func DependsOn(fields ...string) []string {
	return fields
}
