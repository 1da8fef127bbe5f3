package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/AnthoniusHendriyanto/post-service/config"
	"github.com/AnthoniusHendriyanto/post-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/post-service/internal/auth/dto"
	autherror "github.com/AnthoniusHendriyanto/post-service/internal/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgUserCreated  = "User created successfully"
	MsgLoginSuccess = "Login successful"

	passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`
)

type UserService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	bcryptCost   int
	dummyHash    []byte
	log          *slog.Logger
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, cfg *config.Config, log *slog.Logger) *UserService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	// Compared against on unknown emails so both login failures cost one
	// bcrypt comparison.
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)

	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		bcryptCost:   cost,
		dummyHash:    dummyHash,
		log:          log.With(slog.String("component", "user_service")),
	}
}

// IsValidPassword reports whether password has at least one ASCII uppercase
// letter, one special character and one digit, on a single line.
func IsValidPassword(password string) bool {
	if password == "" || strings.ContainsAny(password, "\r\n") {
		return false
	}

	var hasUpper, hasSpecial, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			hasSpecial = true
		}
	}
	return hasUpper && hasSpecial && hasDigit
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique
// index agree on case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *UserService) Signup(ctx context.Context, input dto.SignupInput) (*dto.SignupResponse, error) {
	if !IsValidPassword(input.Password) {
		return nil, autherror.ErrInvalidPasswordFormat
	}

	email := NormalizeEmail(input.Email)
	if !isValidEmail(email) {
		return nil, autherror.ErrInvalidEmailFormat
	}

	existingUser, err := s.repo.GetActiveByEmail(ctx, email)
	if err != nil {
		s.log.Error("signup lookup failed", slog.Any("error", err))
		return nil, autherror.Internal(err)
	}
	if existingUser != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, autherror.Internal(err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// The pre-check above races with concurrent signups; the unique
		// index is the authority.
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, autherror.ErrEmailAlreadyInUse
		}
		s.log.Error("signup insert failed", slog.Any("error", err))
		return nil, autherror.Internal(err)
	}

	token, _, err := s.tokenService.Issue(user.ID)
	if err != nil {
		s.log.Error("token issue failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, autherror.Internal(err)
	}

	s.log.Info("user signed up", slog.String("user_id", user.ID))

	return &dto.SignupResponse{
		Token:   token,
		Message: MsgUserCreated,
	}, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error) {
	user, err := s.repo.GetActiveByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		s.log.Error("login lookup failed", slog.Any("error", err))
		return nil, autherror.Internal(err)
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
		return nil, autherror.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		s.log.Info("login rejected", slog.String("user_id", user.ID))
		return nil, autherror.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenService.Issue(user.ID)
	if err != nil {
		s.log.Error("token issue failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, autherror.Internal(err)
	}

	return &dto.LoginResponse{
		Token:   token,
		Exp:     ExpiryToUnix(expiresAt),
		Message: MsgLoginSuccess,
	}, nil
}
