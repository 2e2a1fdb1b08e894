package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"tiketku/internal/shared/config"
	"tiketku/internal/shared/errs"
	"tiketku/internal/users"
	"tiketku/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RewardsService grants signup and referral point lots. Defined locally to
// avoid a circular dependency on the rewards package.
type RewardsService interface {
	GrantSignupBonus(ctx context.Context, userID uuid.UUID) error
	GrantReferralReward(ctx context.Context, referrerID, referredID uuid.UUID) error
}

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type service struct {
	repo    Repository
	rewards RewardsService
	config  *config.Config
}

func NewService(repo Repository, rewards RewardsService, cfg *config.Config) Service {
	return &service{
		repo:    repo,
		rewards: rewards,
		config:  cfg,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.New(errs.KindConflict, "user already exists")
	}

	// Resolve the referrer before creating the account; an unknown referral
	// code is ignored rather than failing registration.
	var referrer *users.User
	if req.ReferralCode != "" {
		referrer, err = s.repo.GetUserByReferralCode(ctx, req.ReferralCode)
		if err != nil && !errs.IsKind(err, errs.KindNotFound) {
			return nil, err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := strings.ToUpper(req.Role)
	if !users.IsValidRole(role) {
		role = string(users.RoleUser)
	}

	referralCode, err := generateReferralCode()
	if err != nil {
		return nil, err
	}

	user := &users.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     string(hashedPassword),
		Role:         users.Role(role),
		ReferralCode: referralCode,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	// Reward grants are best-effort; a failed grant never blocks registration.
	if s.rewards != nil {
		if err := s.rewards.GrantSignupBonus(ctx, user.ID); err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "signup bonus grant failed", err,
				map[string]interface{}{"user_id": user.ID.String()})
		}
		if referrer != nil {
			if err := s.rewards.GrantReferralReward(ctx, referrer.ID, user.ID); err != nil {
				logger.GetDefault().ErrorWithContext(ctx, "referral reward grant failed", err,
					map[string]interface{}{"referrer_id": referrer.ID.String()})
			}
		}
	}

	tokenPair, err := s.generateTokenPair(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         toUserResponse(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return nil, errs.New(errs.KindUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errs.New(errs.KindUnauthorized, "invalid credentials")
	}

	tokenPair, err := s.generateTokenPair(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         toUserResponse(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errs.New(errs.KindUnauthorized, "invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errs.New(errs.KindUnauthorized, "invalid refresh token")
	}
	if tokenType, ok := claims["type"]; !ok || tokenType != "refresh" {
		return nil, errs.New(errs.KindUnauthorized, "invalid token type")
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errs.New(errs.KindUnauthorized, "invalid refresh token")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errs.New(errs.KindUnauthorized, "invalid refresh token")
	}

	return s.generateTokenPair(user.ID.String(), user.Email, string(user.Role))
}

func (s *service) generateTokenPair(userID, email, role string) (*TokenPair, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"type":    "access",
		"iat":     now.Unix(),
		"exp":     now.Add(s.config.JWT.JWTExpiresIn).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).
		SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return nil, err
	}

	refreshClaims := jwt.MapClaims{
		"user_id": userID,
		"type":    "refresh",
		"iat":     now.Unix(),
		"exp":     now.Add(s.config.JWT.RefreshExpiresIn).Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.JWTExpiresIn.Seconds()),
	}, nil
}

func toUserResponse(user *users.User) UserResponse {
	return UserResponse{
		ID:           user.ID.String(),
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Role:         string(user.Role),
		ReferralCode: user.ReferralCode,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// generateReferralCode generates an 8-letter shareable referral code.
func generateReferralCode() (string, error) {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	code := make([]byte, 8)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		code[i] = letters[num.Int64()]
	}
	return string(code), nil
}
