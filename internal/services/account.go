package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventrsvp/internal/domain"
)

// SeedAdmin holds the credentials of the bootstrap administrator.
type SeedAdmin struct {
	Email    string
	Password string
	Name     string
}

// AccountConfig bounds collaborator calls made by the AccountService.
type AccountConfig struct {
	// DBTimeout bounds the persistence calls of one operation.
	DBTimeout time.Duration
	// NotifyTimeout bounds each email dispatch and event publish. It is detached from the request.
	NotifyTimeout time.Duration
	Seed          SeedAdmin
}

// AccountService drives the Unregistered -> Registered -> Verified lifecycle.
// Notifications run in background goroutines; call Wait before exiting.
type AccountService struct {
	userRepo     domain.UserRepository
	hasher       domain.PasswordHasher
	codes        domain.CodeGenerator
	tokens       domain.TokenIssuer
	emailService domain.EmailService
	publisher    domain.EventPublisher
	cfg          AccountConfig
	logger       *slog.Logger
	now          func() time.Time

	wg sync.WaitGroup

	dummyOnce sync.Once
	dummyHash string
}

var _ domain.AccountService = (*AccountService)(nil)

// NewAccountService creates an AccountService. A nil publisher disables lifecycle events.
func NewAccountService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	codes domain.CodeGenerator,
	tokens domain.TokenIssuer,
	emailService domain.EmailService,
	publisher domain.EventPublisher,
	cfg AccountConfig,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		userRepo:     userRepo,
		hasher:       hasher,
		codes:        codes,
		tokens:       tokens,
		emailService: emailService,
		publisher:    publisher,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *AccountService) Register(ctx context.Context, email, name, password string) (string, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()

	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	_, err := s.userRepo.GetByEmail(dbCtx, email)
	if err == nil {
		return "", domain.ErrDuplicateEmail
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	code := s.codes.Generate()

	user := domain.NewUser(email, name, hash, code, s.now().UTC())
	user.ID = uuid.NewString()
	if err := s.userRepo.Create(dbCtx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return "", err
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	s.dispatch(ctx, "verification email", func(ctx context.Context) error {
		return s.emailService.SendVerification(ctx, &domain.VerificationEmailData{Email: user.Email, Name: user.Name, Code: code})
	})
	s.publish(ctx, domain.EventUserRegistered, user)

	return user.ID, nil
}

func (s *AccountService) Verify(ctx context.Context, email, code string) error {
	dbCtx, cancel := context.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(dbCtx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}
	if user.VerificationCode == nil || *user.VerificationCode != code {
		return domain.ErrInvalidCode
	}
	if err := s.userRepo.MarkVerified(dbCtx, user.ID); err != nil {
		if errors.Is(err, domain.ErrAlreadyVerified) {
			return err
		}
		return fmt.Errorf("mark verified: %w", err)
	}
	user.IsVerified = true

	s.dispatch(ctx, "confirmation email", func(ctx context.Context) error {
		return s.emailService.SendConfirmation(ctx, &domain.ConfirmationEmailData{Email: user.Email, Name: user.Name, Code: code})
	})
	s.publish(ctx, domain.EventUserVerified, user)

	return nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.PublicUser, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.compareDummy(password)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsVerified {
		return "", nil, domain.ErrAccountNotVerified
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Principal())
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user.Public(), nil
}

// compareDummy runs one password comparison so an unknown email costs as much as a wrong password.
func (s *AccountService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.logger.Warn("failed to build dummy password hash", "err", err)
			return
		}
		s.dummyHash = hash
	})
	s.hasher.Verify(password, s.dummyHash)
}

// Seed creates the verified bootstrap ADMIN unless an ADMIN already exists.
func (s *AccountService) Seed(ctx context.Context) (*domain.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()

	exists, err := s.userRepo.ExistsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, false, fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return nil, false, nil
	}

	hash, err := s.hasher.Hash(s.cfg.Seed.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	admin := &domain.User{
		ID:           uuid.NewString(),
		Email:        s.cfg.Seed.Email,
		Name:         s.cfg.Seed.Name,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsVerified:   true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	s.logger.InfoContext(ctx, "admin user seeded", "user_id", admin.ID, "email", admin.Email)
	return admin, true, nil
}

// Wait blocks until every in-flight notification has finished.
func (s *AccountService) Wait() {
	s.wg.Wait()
}

// dispatch runs fn in the background with its own timeout. Failures are logged only.
func (s *AccountService) dispatch(ctx context.Context, what string, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.ErrorContext(ctx, "notification failed", "kind", what, "correlation_id", domain.CorrelationIDFromContext(ctx), "err", err)
		}
	}()
}

func (s *AccountService) publish(ctx context.Context, eventType domain.LifecycleEventType, user *domain.User) {
	if s.publisher == nil {
		return
	}
	correlationID := domain.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	evt := domain.LifecycleEvent{
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Type:          eventType,
		Timestamp:     s.now().UTC(),
		User:          *user.Public(),
	}
	body, err := json.Marshal(evt)
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal lifecycle event", "type", eventType, "err", err)
		return
	}
	s.dispatch(ctx, string(eventType), func(ctx context.Context) error {
		return s.publisher.Publish(ctx, string(eventType), body, correlationID)
	})
}
