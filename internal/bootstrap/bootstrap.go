// Package bootstrap applies an optional seed file at startup: users with
// their accounts, plus system settings persisted in the database. Seeding is
// idempotent: existing rows are kept and missing ones are created, so the
// file can ship with every deploy.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/internal/validators"
	"github.com/planifi/backend/models"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoCredential is reported for a seed user carrying neither a plain
	// password nor a precomputed hash.
	ErrNoCredential = errors.New("either password or passwordHash is required")

	// ErrBothCredentials is reported for a seed user carrying both.
	ErrBothCredentials = errors.New("password and passwordHash are mutually exclusive")
)

// Document is the root of a bootstrap file. YAML and JSON are both accepted
// (JSON is a YAML subset).
type Document struct {
	Users    []UserSeed        `yaml:"users" json:"users"`
	Settings map[string]string `yaml:"settings" json:"settings"`
}

// UserSeed declares one user to ensure at startup. Exactly one of Password
// or PasswordHash must be set; PasswordHash is a bcrypt hash.
type UserSeed struct {
	Email        string        `yaml:"email" json:"email"`
	Password     string        `yaml:"password" json:"password"`
	PasswordHash string        `yaml:"passwordHash" json:"passwordHash"`
	FullName     string        `yaml:"fullName" json:"fullName"`
	Accounts     []AccountSeed `yaml:"accounts" json:"accounts"`
}

// AccountSeed declares one account of a seed user, matched by name.
type AccountSeed struct {
	Name     string             `yaml:"name" json:"name"`
	Type     models.AccountType `yaml:"type" json:"type"`
	Currency string             `yaml:"currency" json:"currency"`
}

// Bootstrapper loads, validates and applies a bootstrap document.
type Bootstrapper struct {
	repositories *store.Repositories
	logger       *logger.Logger
}

func NewBootstrapper(repositories *store.Repositories, log *logger.Logger) *Bootstrapper {
	return &Bootstrapper{repositories: repositories, logger: log}
}

// Load reads and parses the bootstrap file at path, then validates it
// strictly: every violation in the document is collected and reported in one
// joined error.
func Load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("error reading bootstrap file: %w", err)
	}

	var document Document
	if err := yaml.Unmarshal(raw, &document); err != nil {
		return Document{}, fmt.Errorf("error parsing bootstrap file: %w", err)
	}

	if err := validate(document); err != nil {
		return Document{}, err
	}

	return document, nil
}

// validate checks the whole document and joins every violation, so one pass
// over the error output fixes the file.
func validate(document Document) error {
	var violations []error

	seenEmails := make(map[string]int)
	for i, user := range document.Users {
		email := strings.ToLower(strings.TrimSpace(user.Email))
		if email == "" {
			violations = append(violations, fmt.Errorf("users[%d]: %w", i, validators.ErrEmptyEmail))
		} else if first, ok := seenEmails[email]; ok {
			violations = append(violations, fmt.Errorf("users[%d]: duplicate email of users[%d]", i, first))
		} else {
			seenEmails[email] = i
		}

		switch {
		case user.Password == "" && user.PasswordHash == "":
			violations = append(violations, fmt.Errorf("users[%d]: %w", i, ErrNoCredential))
		case user.Password != "" && user.PasswordHash != "":
			violations = append(violations, fmt.Errorf("users[%d]: %w", i, ErrBothCredentials))
		}

		for j, account := range user.Accounts {
			if strings.TrimSpace(account.Name) == "" {
				violations = append(violations, fmt.Errorf("users[%d].accounts[%d]: %w", i, j, validators.ErrEmptyName))
			}
			if !models.ValidAccountType(account.Type) {
				violations = append(violations, fmt.Errorf("users[%d].accounts[%d]: %w", i, j, validators.ErrInvalidAccountType))
			}
		}
	}

	for key := range document.Settings {
		if strings.TrimSpace(key) == "" {
			violations = append(violations, errors.New("settings: empty key"))
		}
	}

	return errors.Join(violations...)
}

// Apply ensures everything the document declares exists. Existing users and
// accounts are left untouched; settings are upserted.
func (b *Bootstrapper) Apply(ctx context.Context, document Document) error {
	for _, seed := range document.Users {
		if err := b.ensureUser(ctx, seed); err != nil {
			return err
		}
	}

	for key, value := range document.Settings {
		if err := b.repositories.SettingRepository.UpsertSetting(ctx, key, value); err != nil {
			return fmt.Errorf("error upserting setting %q: %w", key, err)
		}
	}

	return nil
}

func (b *Bootstrapper) ensureUser(ctx context.Context, seed UserSeed) error {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	log := b.logger.With().Str("email", email).Logger()

	user, err := b.repositories.UserRepository.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		log.Debug().Msg("bootstrap user already exists")
	case errors.Is(err, store.ErrNoUserWasFound):
		user, err = b.createUser(ctx, seed, email)
		if err != nil {
			return err
		}
		log.Info().Msg("bootstrap user created")
	default:
		return fmt.Errorf("error looking up bootstrap user %q: %w", email, err)
	}

	return b.ensureAccounts(ctx, user, seed.Accounts)
}

func (b *Bootstrapper) createUser(ctx context.Context, seed UserSeed, email string) (models.User, error) {
	passwordHash := seed.PasswordHash
	if passwordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("error hashing bootstrap password: %w", err)
		}
		passwordHash = string(hash)
	}

	user, err := b.repositories.UserRepository.CreateUser(ctx, models.User{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     seed.FullName,
	})
	if err != nil {
		// lost a race against a concurrent instance seeding the same file
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return b.repositories.UserRepository.FindUserByEmail(ctx, email)
		}
		return models.User{}, fmt.Errorf("error creating bootstrap user %q: %w", email, err)
	}

	return user, nil
}

func (b *Bootstrapper) ensureAccounts(ctx context.Context, user models.User, seeds []AccountSeed) error {
	if len(seeds) == 0 {
		return nil
	}

	existing, err := b.repositories.AccountRepository.ListAccounts(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("error listing accounts for bootstrap user %q: %w", user.Email, err)
	}

	existingNames := make(map[string]struct{}, len(existing))
	for _, account := range existing {
		existingNames[strings.ToLower(account.Name)] = struct{}{}
	}

	for _, seed := range seeds {
		if _, ok := existingNames[strings.ToLower(seed.Name)]; ok {
			continue
		}

		if _, err := b.repositories.AccountRepository.CreateAccount(ctx, models.Account{
			UserID:   user.ID,
			Name:     seed.Name,
			Type:     seed.Type,
			Currency: seed.Currency,
		}); err != nil {
			return fmt.Errorf("error creating bootstrap account %q: %w", seed.Name, err)
		}
	}

	return nil
}
