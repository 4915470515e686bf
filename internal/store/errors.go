package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to register a new
	// user fails because a user with the same email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least
	// one user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrTagAlreadyExists is returned when an INSERT into the tags table hits
	// the (user_id, lower(name)) unique constraint. The caller is expected to
	// re-read the winning row rather than fail.
	ErrTagAlreadyExists = errors.New("tag already exists")

	// ErrTagNotFound is returned when a tag lookup by user and name matches
	// no row.
	ErrTagNotFound = errors.New("tag was not found")

	// ErrAccountNotFound is returned when a query targets an account
	// (identified by id and user_id) that does not exist.
	ErrAccountNotFound = errors.New("account was not found")

	// ErrAPIKeyNotFound is returned when an API key lookup by hash or by
	// id and user matches no active row.
	ErrAPIKeyNotFound = errors.New("api key was not found")

	// ErrIdempotencyKeyTaken is returned when a reservation INSERT affects
	// zero rows: another request already holds the key.
	ErrIdempotencyKeyTaken = errors.New("idempotency key already reserved")

	// ErrIdempotencyRecordNotFound is returned when no record exists for the
	// requested idempotency key.
	ErrIdempotencyRecordNotFound = errors.New("idempotency record was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
