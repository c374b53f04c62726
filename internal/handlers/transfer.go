package handlers

import (
	"errors"

	"fundflow/internal/models"
	"fundflow/internal/services/transfer"
	"fundflow/internal/services/wallet"
	"fundflow/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// TransferHandler exposes the wallet-to-wallet transfer endpoint.
type TransferHandler struct {
	service   transfer.Service
	walletSvc wallet.Service
}

func NewTransferHandler(s transfer.Service, walletSvc wallet.Service) *TransferHandler {
	return &TransferHandler{service: s, walletSvc: walletSvc}
}

// Transfer handles POST /api/transfer requests. The sending wallet is
// taken from the authenticated user's claims, never from the body.
func (h *TransferHandler) Transfer(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil || claims.WalletID == 0 {
		return response.Unauthorized(c, "invalid claims")
	}

	var req struct {
		RecipientID uint            `json:"recipient_id"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	result, err := h.service.ExecuteTransfer(c.Context(), claims.WalletID, req.RecipientID, req.Amount, req.Description)
	if err != nil {
		var notFound *transfer.WalletNotFoundError
		var insufficient *transfer.InsufficientFundsError
		switch {
		case errors.Is(err, transfer.ErrSelfTransfer), errors.Is(err, transfer.ErrInvalidAmount):
			return response.BadRequest(c, err.Error())
		case errors.As(err, &notFound):
			return response.NotFound(c, err.Error())
		case errors.As(err, &insufficient):
			return response.BadRequest(c, err.Error())
		default:
			return response.ServerError(c, "transfer failed")
		}
	}

	// Cached balances for both sides are stale now.
	h.walletSvc.Invalidate(c.Context(), claims.WalletID, req.RecipientID)

	return response.Success(c, "transfer completed", result)
}
