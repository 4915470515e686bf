package store

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildListTransactionsQuery builds the paged SELECT for a transaction
// listing. Filters on account_id always; occurred_on bounds apply only when
// the corresponding filter field is non-zero. Ordered by occurred_on
// descending with created_at as the tiebreaker so pages are stable.
func buildListTransactionsQuery(filter TransactionFilter) (string, []any, error) {
	builder := psql.
		Select("id", "account_id", "amount", "occurred_on", "description", "created_at").
		From("transactions").
		Where(sq.Eq{"account_id": filter.AccountID})

	if !filter.From.IsZero() {
		builder = builder.Where(sq.GtOrEq{"occurred_on": filter.From})
	}
	if !filter.To.IsZero() {
		builder = builder.Where(sq.LtOrEq{"occurred_on": filter.To})
	}

	offset := (filter.Page - 1) * filter.Size
	builder = builder.
		OrderBy("occurred_on DESC", "created_at DESC").
		Limit(uint64(filter.Size)).
		Offset(uint64(offset))

	return builder.ToSql()
}

// buildTransactionTagsQuery builds the SELECT joining the tag link table to
// the tags table for a set of transaction ids. squirrel expands the id slice
// into an IN list, which keeps the query portable across database/sql
// drivers.
func buildTransactionTagsQuery(transactionIDs []uuid.UUID) (string, []any, error) {
	return psql.
		Select("tt.transaction_id", "t.id", "t.user_id", "t.name", "t.created_at").
		From("transaction_tags tt").
		Join("tags t ON t.id = tt.tag_id").
		Where(sq.Eq{"tt.transaction_id": transactionIDs}).
		OrderBy("t.name").
		ToSql()
}

// buildCountTransactionsQuery builds the COUNT(*) companion of
// [buildListTransactionsQuery] with the same filter predicates.
func buildCountTransactionsQuery(filter TransactionFilter) (string, []any, error) {
	builder := psql.
		Select("COUNT(*)").
		From("transactions").
		Where(sq.Eq{"account_id": filter.AccountID})

	if !filter.From.IsZero() {
		builder = builder.Where(sq.GtOrEq{"occurred_on": filter.From})
	}
	if !filter.To.IsZero() {
		builder = builder.Where(sq.LtOrEq{"occurred_on": filter.To})
	}

	return builder.ToSql()
}
