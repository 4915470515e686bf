package store

const (
	createUser = `INSERT INTO users (id, email, password_hash, full_name)
    VALUES ($1, $2, $3, $4)
    RETURNING id, email, password_hash, full_name, created_at;`

	findUserByEmail = `SELECT id, email, password_hash, full_name, created_at
    FROM users
    WHERE email = $1;`

	createAccount = `INSERT INTO accounts (id, user_id, name, type, currency)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, user_id, name, type, currency, created_at, disabled_at;`

	listAccounts = `SELECT id, user_id, name, type, currency, created_at, disabled_at
    FROM accounts
    WHERE user_id = $1 AND disabled_at IS NULL
    ORDER BY created_at;`

	findAccount = `SELECT id, user_id, name, type, currency, created_at, disabled_at
    FROM accounts
    WHERE id = $1 AND user_id = $2;`

	disableAccount = `UPDATE accounts
    SET disabled_at = $3
    WHERE id = $1 AND user_id = $2 AND disabled_at IS NULL
    RETURNING id, user_id, name, type, currency, created_at, disabled_at;`

	createTransaction = `INSERT INTO transactions (id, account_id, amount, occurred_on, description)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, account_id, amount, occurred_on, description, created_at;`

	linkTransactionTag = `INSERT INTO transaction_tags (transaction_id, tag_id)
    VALUES ($1, $2);`

	createTag = `INSERT INTO tags (id, user_id, name)
    VALUES ($1, $2, $3)
    RETURNING id, user_id, name, created_at;`

	findTagByName = `SELECT id, user_id, name, created_at
    FROM tags
    WHERE user_id = $1 AND lower(name) = lower($2);`

	listTags = `SELECT id, user_id, name, created_at
    FROM tags
    WHERE user_id = $1
    ORDER BY name;`

	createAPIKey = `INSERT INTO api_keys (id, user_id, name, key_hash)
    VALUES ($1, $2, $3, $4)
    RETURNING id, user_id, name, key_hash, created_at, revoked_at;`

	findActiveAPIKeyByHash = `SELECT id, user_id, name, key_hash, created_at, revoked_at
    FROM api_keys
    WHERE key_hash = $1 AND revoked_at IS NULL;`

	findAPIKey = `SELECT id, user_id, name, key_hash, created_at, revoked_at
    FROM api_keys
    WHERE id = $1 AND user_id = $2;`

	revokeAPIKey = `UPDATE api_keys
    SET revoked_at = $3
    WHERE id = $1 AND user_id = $2 AND revoked_at IS NULL;`

	createExpense = `INSERT INTO expenses (id, amount, occurred_on, description)
    VALUES ($1, $2, $3, $4)
    RETURNING id, amount, occurred_on, description, created_at;`

	listExpenses = `SELECT id, amount, occurred_on, description, created_at
    FROM expenses
    ORDER BY occurred_on DESC, created_at DESC;`

	reserveIdempotencyKey = `INSERT INTO idempotency_keys (key, fingerprint, status)
    VALUES ($1, $2, 'IN_PROGRESS')
    ON CONFLICT (key) DO NOTHING;`

	getIdempotencyRecord = `SELECT key, fingerprint, response_body, status, created_at
    FROM idempotency_keys
    WHERE key = $1;`

	completeIdempotencyRecord = `UPDATE idempotency_keys
    SET status = 'COMPLETED', response_body = $2
    WHERE key = $1;`

	deleteIdempotencyReservation = `DELETE FROM idempotency_keys
    WHERE key = $1 AND status = 'IN_PROGRESS';`

	purgeIdempotencyRecords = `DELETE FROM idempotency_keys
    WHERE created_at < $1;`

	upsertSetting = `INSERT INTO system_settings (key, value)
    VALUES ($1, $2)
    ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();`

	getSetting = `SELECT value
    FROM system_settings
    WHERE key = $1;`
)
