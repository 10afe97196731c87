package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lucerna/internal/domain/user"
	"lucerna/internal/shared/errors"
	"lucerna/internal/shared/logger"
)

// SubscriptionLinks fans the user's subscription URL out per client format.
type SubscriptionLinks struct {
	Universal string `json:"universal"`
	Clash     string `json:"clash"`
	ClashMeta string `json:"clash_meta"`
	SingBox   string `json:"sing_box"`
	Outline   string `json:"outline"`
	V2Ray     string `json:"v2ray"`
	V2RayJSON string `json:"v2ray_json"`
}

type ProfileResult struct {
	Username     string            `json:"username"`
	Email        *string           `json:"email"`
	Status       string            `json:"status"`
	StatusLabel  string            `json:"status_label"`
	UsedTraffic  int64             `json:"used_traffic"`
	DataLimit    *int64            `json:"data_limit"`
	ExpireAt     *time.Time        `json:"expire_at"`
	UsagePercent *float64          `json:"usage_percent"`
	Subscription SubscriptionLinks `json:"subscription"`
	CreatedAt    time.Time         `json:"created_at"`
}

// GetProfileUseCase assembles the portal's view of the signed-in account.
type GetProfileUseCase struct {
	userRepo user.Repository
	baseURL  string
	logger   logger.Interface
}

func NewGetProfileUseCase(userRepo user.Repository, baseURL string, logger logger.Interface) *GetProfileUseCase {
	return &GetProfileUseCase{
		userRepo: userRepo,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*ProfileResult, error) {
	existingUser, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to load user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if existingUser == nil {
		return nil, errors.NewNotFoundError("user not found")
	}

	subBase := fmt.Sprintf("%s/sub/%s", uc.baseURL, existingUser.Username())

	return &ProfileResult{
		Username:     existingUser.Username(),
		Email:        existingUser.Email(),
		Status:       existingUser.Status().String(),
		StatusLabel:  existingUser.Status().Label(),
		UsedTraffic:  existingUser.UsedTraffic(),
		DataLimit:    existingUser.DataLimit(),
		ExpireAt:     existingUser.ExpireAt(),
		UsagePercent: existingUser.UsagePercent(),
		Subscription: SubscriptionLinks{
			Universal: subBase,
			Clash:     subBase + "/clash",
			ClashMeta: subBase + "/clash-meta",
			SingBox:   subBase + "/sing-box",
			Outline:   subBase + "/outline",
			V2Ray:     subBase + "/v2ray",
			V2RayJSON: subBase + "/v2ray-json",
		},
		CreatedAt: existingUser.CreatedAt(),
	}, nil
}
