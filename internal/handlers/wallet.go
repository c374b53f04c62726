package handlers

import (
	"errors"
	"strconv"

	"fundflow/internal/models"
	"fundflow/internal/repositories"
	"fundflow/internal/services/wallet"
	"fundflow/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService   wallet.Service
	transactionRepo repositories.TransactionRepository
}

func NewWalletHandler(walletService wallet.Service, transactionRepo repositories.TransactionRepository) *WalletHandler {
	return &WalletHandler{
		walletService:   walletService,
		transactionRepo: transactionRepo,
	}
}

func claimsFromContext(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// GetWallet handles GET /api/wallet.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := claimsFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.WalletID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return response.NotFound(c, "wallet not found")
		}
		return response.ServerError(c, "failed to get wallet")
	}

	return response.Success(c, "wallet", fiber.Map{
		"wallet_id": w.ID,
		"balance":   w.Balance,
		"status":    w.Status,
	})
}

// GetTransactions handles GET /api/transactions with limit/offset paging.
func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := claimsFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	txns, err := h.transactionRepo.GetWalletHistory(c.Context(), claims.WalletID, limit, offset)
	if err != nil {
		return response.ServerError(c, "failed to get transactions")
	}

	return response.Success(c, "transactions", txns)
}
