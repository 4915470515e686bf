package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/planifi/backend/internal/idempotency"
	"github.com/planifi/backend/internal/logger"
	"github.com/planifi/backend/internal/store"
	"github.com/planifi/backend/models"
)

// occurredOnLayout is the wire format of transaction and expense dates.
const occurredOnLayout = "2006-01-02"

// transactionService is the concrete implementation of TransactionService.
// Creation is idempotent: the fingerprint covers every semantically relevant
// input, so a retried request replays while a changed request under the same
// key is rejected as reuse.
type transactionService struct {
	transactionRepository store.TransactionRepository
	accountRepository     store.AccountRepository
	tagService            TagService
	executor              *idempotency.Executor
	logger                *logger.Logger
}

// NewTransactionService constructs a TransactionService over the given
// repositories, tag resolver and idempotency executor.
func NewTransactionService(
	transactionRepository store.TransactionRepository,
	accountRepository store.AccountRepository,
	tagService TagService,
	executor *idempotency.Executor,
	logger *logger.Logger,
) TransactionService {
	return &transactionService{
		transactionRepository: transactionRepository,
		accountRepository:     accountRepository,
		tagService:            tagService,
		executor:              executor,
		logger:                logger,
	}
}

// CreateTransaction records a money movement on one of the user's accounts.
//
// The fingerprint binds the idempotency key to userID, accountID, the
// normalized amount, the date, the description, the createMissingTags flag
// and the case-folded sorted tag set. Tag casing and order therefore do not
// affect replay detection, but any semantic change does.
func (s *transactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, request models.CreateTransactionRequest, idempotencyKey string) (models.TransactionWithTags, error) {
	log := logger.FromContext(ctx)

	amount, ok := normalizeAmount(request.Amount)
	if !ok {
		log.Error().Str("amount", request.Amount).Msg("invalid amount provided")
		return models.TransactionWithTags{}, ErrInvalidDataProvided
	}

	occurredOn, err := time.Parse(occurredOnLayout, request.OccurredOn)
	if err != nil {
		log.Error().Str("occurredOn", request.OccurredOn).Msg("invalid date provided")
		return models.TransactionWithTags{}, ErrInvalidDataProvided
	}

	if request.AccountID == uuid.Nil {
		return models.TransactionWithTags{}, ErrInvalidDataProvided
	}

	tags := normalizeTagNames(request.Tags)
	fingerprint := idempotency.Fingerprint("create-transaction",
		userID.String(),
		request.AccountID.String(),
		amount,
		request.OccurredOn,
		request.Description,
		strconv.FormatBool(request.CreateMissingTags),
		tagsFingerprintComponent(tags),
	)

	result, _, err := idempotency.Execute(ctx, s.executor, idempotencyKey, fingerprint,
		func(ctx context.Context) (models.TransactionWithTags, error) {
			account, err := s.accountRepository.FindAccount(ctx, request.AccountID, userID)
			if err != nil {
				return models.TransactionWithTags{}, err
			}
			if account.DisabledAt != nil {
				return models.TransactionWithTags{}, ErrAccountDisabled
			}

			resolvedTags, err := s.tagService.ResolveTags(ctx, userID, tags, request.CreateMissingTags)
			if err != nil {
				return models.TransactionWithTags{}, err
			}

			tagIDs := make([]uuid.UUID, len(resolvedTags))
			for i, tag := range resolvedTags {
				tagIDs[i] = tag.ID
			}

			transaction, err := s.transactionRepository.CreateTransaction(ctx, models.Transaction{
				ID:          uuid.New(),
				AccountID:   request.AccountID,
				Amount:      amount,
				OccurredOn:  occurredOn,
				Description: request.Description,
			}, tagIDs)
			if err != nil {
				return models.TransactionWithTags{}, fmt.Errorf("transaction creation ended with error: %w", err)
			}

			sort.Slice(resolvedTags, func(i, j int) bool { return resolvedTags[i].Name < resolvedTags[j].Name })
			return models.TransactionWithTags{Transaction: transaction, Tags: resolvedTags}, nil
		})

	return result, err
}

// ListTransactions returns one page of the account's transactions after
// verifying the account belongs to the user.
func (s *transactionService) ListTransactions(ctx context.Context, userID uuid.UUID, filter store.TransactionFilter) (models.TransactionPage, error) {
	if _, err := s.accountRepository.FindAccount(ctx, filter.AccountID, userID); err != nil {
		return models.TransactionPage{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 {
		filter.Size = 50
	}

	items, total, err := s.transactionRepository.ListTransactions(ctx, filter)
	if err != nil {
		return models.TransactionPage{}, err
	}

	totalPages := int((total + int64(filter.Size) - 1) / int64(filter.Size))
	return models.TransactionPage{
		Items:      items,
		Page:       filter.Page,
		Size:       filter.Size,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// tagsFingerprintComponent folds the tag set into one order-insensitive
// fingerprint field: lower-cased, sorted, comma-joined.
func tagsFingerprintComponent(tags []string) string {
	folded := make([]string, len(tags))
	for i, tag := range tags {
		folded[i] = strings.ToLower(tag)
	}
	sort.Strings(folded)
	return strings.Join(folded, ",")
}
