package deal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
	dealdto "github.com/LavaJover/shvark-deal-service/internal/usecase/dto/deal"
	"github.com/google/uuid"
)

const (
	maxCodeLength     = 32
	codeGenerateTries = 3
)

// CreateDeal stores a new deal as an inactive draft and then runs it through
// the same admission gate as a reactivation. When the tier quota is full the
// deal stays saved but inactive and the output carries the quota error.
func (uc *DefaultDealUsecase) CreateDeal(ctx context.Context, input *dealdto.CreateDealInput) (*dealdto.DealOutput, error) {
	now := uc.Clock.Now()
	if input != nil && input.StartsAt.IsZero() {
		input.StartsAt = now
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	if _, err := uc.RestaurantRepo.GetRestaurantByID(ctx, input.RestaurantID); err != nil {
		return nil, uc.wrapError("create_deal", err)
	}

	approval := domain.ApprovalApproved
	if uc.RequireApproval {
		approval = domain.ApprovalPending
	}
	perUserLimit := input.PerUserLimit
	if perUserLimit == 0 {
		perUserLimit = 1
	}

	deal := &domain.Deal{
		ID:             uuid.New().String(),
		Code:           strings.TrimSpace(input.Code),
		RestaurantID:   input.RestaurantID,
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		DiscountType:   domain.DiscountType(input.DiscountType),
		DiscountValue:  input.DiscountValue,
		MinOrderAmount: input.MinOrderAmount,
		MaxUses:        input.MaxUses,
		RemainingUses:  input.MaxUses,
		PerUserLimit:   perUserLimit,
		StartsAt:       input.StartsAt.UTC(),
		ExpiresAt:      input.ExpiresAt.UTC(),
		Status:         domain.DealStatusDraft,
		ApprovalStatus: approval,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.insertDeal(ctx, deal, deal.Code == ""); err != nil {
		return nil, uc.wrapError("create_deal", err)
	}
	uc.publishDeal(ctx, dealEvent(domain.DealCreated, deal, now))

	activated, err := uc.TryActivate(ctx, deal.ID)
	if err != nil {
		if qe, ok := domain.IsQuotaExceeded(err); ok {
			return &dealdto.DealOutput{Deal: *deal, Quota: qe}, nil
		}
		return nil, err
	}
	return &dealdto.DealOutput{Deal: *activated}, nil
}

// insertDeal saves the deal, drawing a fresh code on collision when the code
// was generated rather than chosen by the merchant.
func (uc *DefaultDealUsecase) insertDeal(ctx context.Context, deal *domain.Deal, generate bool) error {
	if !generate {
		return uc.DealRepo.CreateDeal(ctx, deal)
	}

	var err error
	for i := 0; i < codeGenerateTries; i++ {
		deal.Code = uc.newDealCode()
		err = uc.DealRepo.CreateDeal(ctx, deal)
		if !errors.Is(err, domain.ErrDuplicateDealCode) {
			return err
		}
	}
	return err
}

func validateCreateInput(input *dealdto.CreateDealInput) error {
	if input == nil {
		return fmt.Errorf("%w: empty input", domain.ErrInvalidDeal)
	}

	var problems []string
	if strings.TrimSpace(input.RestaurantID) == "" {
		problems = append(problems, "restaurant id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		problems = append(problems, "title is required")
	}
	if len(strings.TrimSpace(input.Code)) > maxCodeLength {
		problems = append(problems, fmt.Sprintf("code must be at most %d characters", maxCodeLength))
	}

	discountType := domain.DiscountType(input.DiscountType)
	if !discountType.Valid() {
		problems = append(problems, fmt.Sprintf("unknown discount type %q", input.DiscountType))
	}
	if !finiteNonNegative(input.DiscountValue) {
		problems = append(problems, "discount value must be a non-negative number")
	}
	if discountType == domain.DiscountPercentage && input.DiscountValue > 100 {
		problems = append(problems, "percentage discount cannot exceed 100")
	}
	if !finiteNonNegative(input.MinOrderAmount) {
		problems = append(problems, "minimum order amount must be a non-negative number")
	}

	if input.MaxUses <= 0 {
		problems = append(problems, "max uses must be positive")
	}
	if input.PerUserLimit < 0 {
		problems = append(problems, "per user limit must be positive")
	}
	if input.ExpiresAt.IsZero() || !input.ExpiresAt.After(input.StartsAt) {
		problems = append(problems, "expires at must be after starts at")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidDeal, strings.Join(problems, "; "))
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
