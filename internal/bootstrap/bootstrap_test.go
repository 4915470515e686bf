package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/internal/validators"
	"github.com/planifi/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepository struct {
	createUserFn      func(ctx context.Context, user models.User) (models.User, error)
	findUserByEmailFn func(ctx context.Context, email string) (models.User, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	user.ID = uuid.New()
	return user, nil
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.findUserByEmailFn != nil {
		return m.findUserByEmailFn(ctx, email)
	}
	return models.User{}, store.ErrNoUserWasFound
}

type mockAccountRepository struct {
	store.AccountRepository

	createAccountFn func(ctx context.Context, account models.Account) (models.Account, error)
	listAccountsFn  func(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
}

func (m *mockAccountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, account)
	}
	account.ID = uuid.New()
	return account, nil
}

func (m *mockAccountRepository) ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	if m.listAccountsFn != nil {
		return m.listAccountsFn(ctx, userID)
	}
	return nil, nil
}

type mockSettingRepository struct {
	settings map[string]string
}

func (m *mockSettingRepository) UpsertSetting(_ context.Context, key, value string) error {
	if m.settings == nil {
		m.settings = make(map[string]string)
	}
	m.settings[key] = value
	return nil
}

func (m *mockSettingRepository) GetSetting(_ context.Context, key string) (string, error) {
	value, ok := m.settings[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return value, nil
}

func writeSeedFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAMLDocument(t *testing.T) {
	path := writeSeedFile(t, "seed.yaml", `
users:
  - email: admin@planifi.dev
    password: s3cret-pass
    fullName: Admin
    accounts:
      - name: Efectivo
        type: CASH
        currency: MXN
settings:
  maintenance_banner: "off"
`)

	document, err := Load(path)
	require.NoError(t, err)

	require.Len(t, document.Users, 1)
	assert.Equal(t, "admin@planifi.dev", document.Users[0].Email)
	require.Len(t, document.Users[0].Accounts, 1)
	assert.Equal(t, models.AccountTypeCash, document.Users[0].Accounts[0].Type)
	assert.Equal(t, "off", document.Settings["maintenance_banner"])
}

func TestLoad_JSONDocument(t *testing.T) {
	path := writeSeedFile(t, "seed.json", `{
  "users": [
    {"email": "admin@planifi.dev", "passwordHash": "$2a$10$abcdefghijklmnopqrstuv", "fullName": "Admin"}
  ]
}`)

	document, err := Load(path)
	require.NoError(t, err)
	require.Len(t, document.Users, 1)
	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuv", document.Users[0].PasswordHash)
}

func TestLoad_ReportsEveryViolation(t *testing.T) {
	path := writeSeedFile(t, "seed.yaml", `
users:
  - email: ""
    accounts:
      - name: ""
        type: CHECKING
  - email: dup@planifi.dev
    password: a
    passwordHash: b
  - email: DUP@planifi.dev
    password: a
`)

	_, err := Load(path)
	require.Error(t, err)

	assert.ErrorIs(t, err, validators.ErrEmptyEmail)
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.ErrorIs(t, err, validators.ErrEmptyName)
	assert.ErrorIs(t, err, validators.ErrInvalidAccountType)
	assert.ErrorIs(t, err, ErrBothCredentials)
	assert.Contains(t, err.Error(), "duplicate email")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApply_CreatesMissingUserWithHashedPassword(t *testing.T) {
	var created models.User
	users := &mockUserRepository{
		createUserFn: func(_ context.Context, user models.User) (models.User, error) {
			user.ID = uuid.New()
			created = user
			return user, nil
		},
	}
	b := NewBootstrapper(&store.Repositories{
		UserRepository:    users,
		AccountRepository: &mockAccountRepository{},
		SettingRepository: &mockSettingRepository{},
	}, logger.Nop())

	err := b.Apply(context.Background(), Document{Users: []UserSeed{{
		Email:    "Admin@Planifi.dev",
		Password: "s3cret-pass",
		FullName: "Admin",
	}}})
	require.NoError(t, err)

	assert.Equal(t, "admin@planifi.dev", created.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")))
}

func TestApply_ExistingUserIsKept(t *testing.T) {
	existing := models.User{ID: uuid.New(), Email: "admin@planifi.dev", PasswordHash: "keep"}
	createCalls := 0
	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, _ string) (models.User, error) {
			return existing, nil
		},
		createUserFn: func(_ context.Context, user models.User) (models.User, error) {
			createCalls++
			return user, nil
		},
	}
	b := NewBootstrapper(&store.Repositories{
		UserRepository:    users,
		AccountRepository: &mockAccountRepository{},
		SettingRepository: &mockSettingRepository{},
	}, logger.Nop())

	err := b.Apply(context.Background(), Document{Users: []UserSeed{{
		Email:    "admin@planifi.dev",
		Password: "different-now",
	}}})
	require.NoError(t, err)
	assert.Zero(t, createCalls)
}

func TestApply_CreatesOnlyMissingAccounts(t *testing.T) {
	userID := uuid.New()
	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{ID: userID, Email: email}, nil
		},
	}
	var createdAccounts []models.Account
	accounts := &mockAccountRepository{
		listAccountsFn: func(_ context.Context, _ uuid.UUID) ([]models.Account, error) {
			return []models.Account{{ID: uuid.New(), UserID: userID, Name: "Efectivo"}}, nil
		},
		createAccountFn: func(_ context.Context, account models.Account) (models.Account, error) {
			account.ID = uuid.New()
			createdAccounts = append(createdAccounts, account)
			return account, nil
		},
	}
	b := NewBootstrapper(&store.Repositories{
		UserRepository:    users,
		AccountRepository: accounts,
		SettingRepository: &mockSettingRepository{},
	}, logger.Nop())

	err := b.Apply(context.Background(), Document{Users: []UserSeed{{
		Email:        "admin@planifi.dev",
		PasswordHash: "x",
		Accounts: []AccountSeed{
			{Name: "efectivo", Type: models.AccountTypeCash, Currency: "MXN"},
			{Name: "Nómina", Type: models.AccountTypeDebit, Currency: "MXN"},
		},
	}}})
	require.NoError(t, err)

	require.Len(t, createdAccounts, 1)
	assert.Equal(t, "Nómina", createdAccounts[0].Name)
	assert.Equal(t, userID, createdAccounts[0].UserID)
}

func TestApply_LostCreateRaceFallsBackToWinner(t *testing.T) {
	winner := models.User{ID: uuid.New(), Email: "admin@planifi.dev"}
	lookups := 0
	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, _ string) (models.User, error) {
			lookups++
			if lookups == 1 {
				return models.User{}, store.ErrNoUserWasFound
			}
			return winner, nil
		},
		createUserFn: func(_ context.Context, _ models.User) (models.User, error) {
			return models.User{}, store.ErrEmailAlreadyExists
		},
	}
	listedFor := uuid.Nil
	accounts := &mockAccountRepository{
		listAccountsFn: func(_ context.Context, userID uuid.UUID) ([]models.Account, error) {
			listedFor = userID
			return nil, nil
		},
	}
	b := NewBootstrapper(&store.Repositories{
		UserRepository:    users,
		AccountRepository: accounts,
		SettingRepository: &mockSettingRepository{},
	}, logger.Nop())

	err := b.Apply(context.Background(), Document{Users: []UserSeed{{
		Email:        "admin@planifi.dev",
		PasswordHash: "x",
		Accounts:     []AccountSeed{{Name: "Efectivo", Type: models.AccountTypeCash, Currency: "MXN"}},
	}}})
	require.NoError(t, err)
	assert.Equal(t, winner.ID, listedFor)
}

func TestApply_UpsertsSettings(t *testing.T) {
	settings := &mockSettingRepository{}
	b := NewBootstrapper(&store.Repositories{
		SettingRepository: settings,
	}, logger.Nop())

	err := b.Apply(context.Background(), Document{Settings: map[string]string{
		"default_currency": "MXN",
	}})
	require.NoError(t, err)

	value, err := settings.GetSetting(context.Background(), "default_currency")
	require.NoError(t, err)
	assert.Equal(t, "MXN", value)
}

// guards the mock against interface drift
var (
	_ store.UserRepository    = (*mockUserRepository)(nil)
	_ store.AccountRepository = (*mockAccountRepository)(nil)
	_ store.SettingRepository = (*mockSettingRepository)(nil)
)
