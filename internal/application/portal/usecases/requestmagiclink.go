package usecases

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"lucerna/internal/domain/auth"
	"lucerna/internal/domain/user"
	"lucerna/internal/infrastructure/email"
	"lucerna/internal/infrastructure/token"
	"lucerna/internal/shared/goroutine"
	"lucerna/internal/shared/logger"
)

type RequestMagicLinkCommand struct {
	Identifier string
	IP         *string
	UserAgent  *string
}

// RequestMagicLinkUseCase issues a single-use login token and mails the
// sign-in link. Execute never reveals whether the identifier matched an
// account; the handler returns the same generic response either way.
type RequestMagicLinkUseCase struct {
	userRepo   user.Repository
	tokenRepo  auth.LoginTokenRepository
	generator  token.Generator
	dispatcher *email.Dispatcher
	baseURL    string
	ttlMinutes int
	logger     logger.Interface
}

func NewRequestMagicLinkUseCase(
	userRepo user.Repository,
	tokenRepo auth.LoginTokenRepository,
	generator token.Generator,
	dispatcher *email.Dispatcher,
	baseURL string,
	ttlMinutes int,
	logger logger.Interface,
) *RequestMagicLinkUseCase {
	if ttlMinutes < 1 {
		ttlMinutes = 1
	}
	return &RequestMagicLinkUseCase{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		generator:  generator,
		dispatcher: dispatcher,
		baseURL:    strings.TrimRight(baseURL, "/"),
		ttlMinutes: ttlMinutes,
		logger:     logger,
	}
}

func (uc *RequestMagicLinkUseCase) Execute(ctx context.Context, cmd RequestMagicLinkCommand) error {
	identifier := strings.TrimSpace(cmd.Identifier)
	if identifier == "" {
		return nil
	}

	existingUser, err := uc.lookupUser(ctx, identifier)
	if err != nil {
		return err
	}
	if existingUser == nil {
		uc.logger.Infow("magic link requested for unknown identifier", "identifier", identifier)
		return nil
	}
	if !existingUser.HasEmail() {
		uc.logger.Infow("magic link requested for account without email", "user_id", existingUser.ID())
		return nil
	}

	plainToken, hash, err := uc.generator.Generate()
	if err != nil {
		uc.logger.Errorw("failed to generate login token", "error", err, "user_id", existingUser.ID())
		return fmt.Errorf("failed to generate login token: %w", err)
	}

	loginToken, err := auth.NewLoginToken(existingUser.ID(), hash, uc.ttlMinutes, cmd.IP, cmd.UserAgent)
	if err != nil {
		return fmt.Errorf("failed to build login token: %w", err)
	}

	if err := uc.tokenRepo.Create(ctx, loginToken); err != nil {
		return fmt.Errorf("failed to store login token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/magic?token=%s", uc.baseURL, plainToken)
	recipient := *existingUser.Email()
	username := existingUser.Username()
	ttl := uc.ttlMinutes
	userID := existingUser.ID()

	goroutine.SafeGo(uc.logger, "send-magic-link", func() {
		if !uc.dispatcher.SendMagicLink(context.Background(), recipient, username, link, ttl) {
			uc.logger.Warnw("magic link email was not delivered", "user_id", userID)
		}
	})

	uc.logger.Infow("magic link issued", "user_id", userID, "ttl_minutes", ttl)
	return nil
}

// lookupUser tries the identifier as given, then case-folded, so addresses
// typed with different casing still resolve. Caser values are stateful, so
// the folder is created per call.
func (uc *RequestMagicLinkUseCase) lookupUser(ctx context.Context, identifier string) (*user.User, error) {
	found, err := uc.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if found != nil {
		return found, nil
	}

	folded := cases.Fold().String(identifier)
	if folded == identifier {
		return nil, nil
	}

	found, err = uc.userRepo.GetByIdentifier(ctx, folded)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return found, nil
}
