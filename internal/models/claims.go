package models

import "github.com/golang-jwt/jwt/v5"

type UserClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	WalletID uint   `json:"wallet_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
