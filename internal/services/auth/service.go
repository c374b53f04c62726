// Package auth handles account registration, login and JWT issuance for
// the API layer.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fundflow/internal/models"
	"fundflow/internal/repositories"
	"fundflow/internal/services/wallet"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

const tokenTTL = 24 * time.Hour

type Service interface {
	Register(ctx context.Context, email, name, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ParseToken(tokenString string) (*models.UserClaims, error)
}

type service struct {
	userRepo  repositories.UserRepository
	walletSvc wallet.Service
	secret    []byte
}

func NewService(userRepo repositories.UserRepository, walletSvc wallet.Service, secret string) Service {
	return &service{
		userRepo:  userRepo,
		walletSvc: walletSvc,
		secret:    []byte(secret),
	}
}

// Register creates a user with a hashed password and an empty wallet.
func (s *service) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: string(hash),
		Role:     "user",
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	w, err := s.walletSvc.CreateWallet(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	user.WalletID = &w.ID
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		log.Printf("login failed: no user for %s", email)
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("login failed: wrong password for user %d", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	var walletID uint
	if user.WalletID != nil {
		walletID = *user.WalletID
	}

	claims := &models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   fmt.Sprintf("%d", user.ID),
		},
		UserID:   user.ID,
		WalletID: walletID,
		Email:    user.Email,
		Role:     user.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	user.LastLoginAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("failed to record login time for user %d: %v", user.ID, err)
	}

	return user, token, nil
}

func (s *service) ParseToken(tokenString string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
