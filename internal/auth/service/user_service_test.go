package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnthoniusHendriyanto/post-service/config"
	"github.com/AnthoniusHendriyanto/post-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/post-service/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/post-service/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/post-service/internal/errors"
	"github.com/AnthoniusHendriyanto/post-service/internal/logging"
	"github.com/AnthoniusHendriyanto/post-service/internal/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testConfig = &config.Config{BcryptCost: bcrypt.MinCost}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Abc123!", true},
		{"P@ssw0rd", true},
		{"X1{", true},
		{"abc123", false},
		{"abc123!", false},
		{"ABCDEF!", false},
		{"Abcdef1", false},
		{"", false},
		{"Abc\n123!", false},
		{"Ábc123!", false}, // uppercase must be ASCII
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.valid, service.IsValidPassword(tt.password))
		})
	}
}

func TestUserService_Signup_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewUserService(mockRepo, mockTokenService, testConfig, logging.Discard())

	input := dto.SignupInput{Email: " Test@Example.com ", Password: "Abc123!"}

	var created *domain.User
	mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), "test@example.com").Return(nil, nil)
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *domain.User) error {
		created = u
		return nil
	})
	mockTokenService.EXPECT().Issue(gomock.Any()).DoAndReturn(func(userID string) (string, time.Time, error) {
		return "token-for-" + userID, time.Now().Add(time.Hour), nil
	})

	resp, err := s.Signup(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, service.MsgUserCreated, resp.Message)
	assert.Equal(t, "token-for-"+created.ID, resp.Token)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "test@example.com", created.Email)
	assert.NotEqual(t, input.Password, created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte(input.Password)))
	assert.False(t, created.IsDeleted)
	assert.NotZero(t, created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestUserService_Signup_TokenRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokens, err := service.NewTokenService("round-trip-secret", "HS256", service.DefaultTokenValidity)
	require.NoError(t, err)

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := service.NewUserService(mockRepo, tokens, testConfig, logging.Discard())

	for _, input := range []dto.SignupInput{
		{Email: "one@example.com", Password: "Abc123!"},
		{Email: "two@example.com", Password: "Zz9#long-password"},
	} {
		var created *domain.User
		mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), input.Email).Return(nil, nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *domain.User) error {
			created = u
			return nil
		})

		resp, err := s.Signup(context.Background(), input)
		require.NoError(t, err)

		userID, ok := tokens.Verify(resp.Token)
		assert.True(t, ok)
		assert.Equal(t, created.ID, userID)
	}
}

func TestUserService_Signup_InvalidPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewUserService(mockRepo, mockTokenService, testConfig, logging.Discard())

	// No repository or token calls are expected.
	resp, err := s.Signup(context.Background(), dto.SignupInput{Email: "test@example.com", Password: "abc123"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, autherror.ErrInvalidPasswordFormat)
	assert.Equal(t, "Invalid password format", err.Error())
}

func TestUserService_Signup_InvalidEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewUserService(mockRepo, mockTokenService, testConfig, logging.Discard())

	for _, email := range []string{"", "not-an-email", "Name <name@example.com>"} {
		resp, err := s.Signup(context.Background(), dto.SignupInput{Email: email, Password: "Abc123!"})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, autherror.ErrInvalidEmailFormat, email)
	}
}

func TestUserService_Signup_EmailAlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewUserService(mockRepo, mockTokenService, testConfig, logging.Discard())

	input := dto.SignupInput{Email: "test@example.com", Password: "Abc123!"}

	t.Run("found by pre-check", func(t *testing.T) {
		mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), input.Email).
			Return(&domain.User{ID: "existing-id", Email: input.Email}, nil)

		resp, err := s.Signup(context.Background(), input)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
		assert.Equal(t, "Email already exists", err.Error())
	})

	t.Run("rejected by unique index", func(t *testing.T) {
		mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), input.Email).Return(nil, nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrEmailTaken)

		resp, err := s.Signup(context.Background(), input)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	})
}

func TestUserService_Signup_StorageErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewUserService(mockRepo, mockTokenService, testConfig, logging.Discard())

	input := dto.SignupInput{Email: "test@example.com", Password: "Abc123!"}

	t.Run("lookup error", func(t *testing.T) {
		mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), input.Email).Return(nil, errors.New("database error"))

		resp, err := s.Signup(context.Background(), input)

		assert.Nil(t, resp)
		var appErr *autherror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, autherror.KindInternal, appErr.Kind)
		assert.Equal(t, "database error", appErr.Message)
	})

	t.Run("create error", func(t *testing.T) {
		mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), input.Email).Return(nil, nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("create error"))

		resp, err := s.Signup(context.Background(), input)

		assert.Nil(t, resp)
		var appErr *autherror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, autherror.KindInternal, appErr.Kind)
		assert.Equal(t, "create error", appErr.Message)
	})

	t.Run("token error", func(t *testing.T) {
		mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), input.Email).Return(nil, nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		mockTokenService.EXPECT().Issue(gomock.Any()).Return("", time.Time{}, errors.New("sign error"))

		resp, err := s.Signup(context.Background(), input)

		assert.Nil(t, resp)
		assert.Equal(t, "sign error", err.Error())
	})
}

func TestUserService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewUserService(mockRepo, mockTokenService, testConfig, logging.Discard())

	password := "Abc123!"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &domain.User{ID: "user-id", Email: "test@example.com", PasswordHash: string(hashedPassword)}

	expiresAt := time.Date(2026, 11, 14, 10, 0, 0, 500_000_000, time.UTC)

	mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), user.Email).Return(user, nil)
	mockTokenService.EXPECT().Issue(user.ID).Return("access-token", expiresAt, nil)

	resp, err := s.Login(context.Background(), dto.LoginInput{Email: "TEST@example.com", Password: password})

	require.NoError(t, err)
	assert.Equal(t, "access-token", resp.Token)
	assert.Equal(t, float64(expiresAt.Unix())+0.5, resp.Exp)
	assert.Equal(t, service.MsgLoginSuccess, resp.Message)
}

func TestUserService_Login_EnumerationResistance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewUserService(mockRepo, mockTokenService, testConfig, logging.Discard())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Abc123!"), bcrypt.MinCost)
	user := &domain.User{ID: "user-id", Email: "known@example.com", PasswordHash: string(hashedPassword)}

	mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), "known@example.com").Return(user, nil)
	mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), "unknown@example.com").Return(nil, nil)

	_, wrongPasswordErr := s.Login(context.Background(), dto.LoginInput{Email: "known@example.com", Password: "Wrong123!"})
	_, unknownEmailErr := s.Login(context.Background(), dto.LoginInput{Email: "unknown@example.com", Password: "Abc123!"})

	assert.ErrorIs(t, wrongPasswordErr, autherror.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmailErr, autherror.ErrUserNotFound)
	assert.Equal(t, wrongPasswordErr.Error(), unknownEmailErr.Error())
	assert.Equal(t, "Invalid email or password", unknownEmailErr.Error())
}

func TestUserService_Login_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewUserService(mockRepo, mockTokenService, testConfig, logging.Discard())

	t.Run("lookup error", func(t *testing.T) {
		mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), "test@example.com").Return(nil, errors.New("db down"))

		resp, err := s.Login(context.Background(), dto.LoginInput{Email: "test@example.com", Password: "Abc123!"})

		assert.Nil(t, resp)
		assert.Equal(t, 500, autherror.StatusCode(err))
		assert.Equal(t, "db down", err.Error())
	})

	t.Run("token error", func(t *testing.T) {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Abc123!"), bcrypt.MinCost)
		user := &domain.User{ID: "user-id", Email: "test@example.com", PasswordHash: string(hashedPassword)}

		mockRepo.EXPECT().GetActiveByEmail(gomock.Any(), user.Email).Return(user, nil)
		mockTokenService.EXPECT().Issue(user.ID).Return("", time.Time{}, errors.New("sign error"))

		resp, err := s.Login(context.Background(), dto.LoginInput{Email: user.Email, Password: "Abc123!"})

		assert.Nil(t, resp)
		assert.Equal(t, 500, autherror.StatusCode(err))
	})
}
