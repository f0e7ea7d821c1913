package database

import (
	"time"

	"github.com/uptrace/bun"
)

// QueryBuilder provides a fluent, type-safe API for single-table queries
type QueryBuilder[T any] struct {
	db *DB

	wheres    []*WhereClause
	orders    []*OrderClause
	limitVal  *int
	offsetVal *int

	timeout time.Duration
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
	IsRaw    bool
	RawSQL   string
	RawArgs  []any
	Negate   bool
}

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// Query creates a new QueryBuilder instance
func Query[T any](db *DB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// WhereNot adds a WHERE NOT condition
func (q *QueryBuilder[T]) WhereNot(column string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "=",
		Value:    value,
		Negate:   true,
	})
	return q
}

// WhereIn adds a WHERE IN condition. An empty slice matches nothing.
func (q *QueryBuilder[T]) WhereIn(column string, values []any) *QueryBuilder[T] {
	if len(values) == 0 {
		return q.WhereRaw("1 = 0")
	}
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "IN",
		Value:    values,
	})
	return q
}

// WhereNull adds a WHERE IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "IS NULL",
	})
	return q
}

// WhereRaw adds a raw WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		IsRaw:   true,
		RawSQL:  sql,
		RawArgs: args,
	})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{
		Column:    column,
		Direction: direction,
	})
	return q
}

// Limit sets the LIMIT clause
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

// Offset sets the OFFSET clause
func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = &offset
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

// applyWheres renders the collected conditions onto any bun query
func (q *QueryBuilder[T]) applyWheres(qb bun.QueryBuilder) bun.QueryBuilder {
	for _, where := range q.wheres {
		if where.IsRaw {
			qb = qb.Where(where.RawSQL, where.RawArgs...)
			continue
		}

		switch where.Operator {
		case "IS NULL", "IS NOT NULL":
			qb = qb.Where("? "+where.Operator, bun.Ident(where.Column))
		case "IN":
			if where.Negate {
				qb = qb.Where("? NOT IN (?)", bun.Ident(where.Column), bun.In(where.Value))
			} else {
				qb = qb.Where("? IN (?)", bun.Ident(where.Column), bun.In(where.Value))
			}
		default:
			condition := "? " + where.Operator + " ?"
			if where.Negate {
				condition = "NOT (" + condition + ")"
			}
			qb = qb.Where(condition, bun.Ident(where.Column), where.Value)
		}
	}
	return qb
}

// buildSelect creates the select for a destination model
func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model).ApplyQueryBuilder(q.applyWheres)

	for _, order := range q.orders {
		query = query.OrderExpr("? "+string(order.Direction), bun.Ident(order.Column))
	}
	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}
	return query
}
