package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/healthchain-api/internal/ledger"
	"github.com/harentsoaR/healthchain-api/internal/utils"
)

// SaveLedger verifies the client's hash chain and replaces the stored copy.
func (h *Handler) SaveLedger(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var blocks []ledger.Block
	if err := c.ShouldBindJSON(&blocks); err != nil {
		bindError(c, err)
		return
	}

	if err := ledger.Verify(blocks); err != nil {
		var broken *ledger.BrokenChainError
		if errors.As(err, &broken) {
			utils.SendErrorDetails(c, http.StatusBadRequest, utils.CodeInvalidLedger, "Invalid blockchain", gin.H{
				"index":  broken.Index,
				"reason": broken.Reason,
			})
			return
		}
		utils.SendError(c, http.StatusBadRequest, utils.CodeInvalidLedger, "Invalid blockchain")
		return
	}

	if err := h.Store.ReplaceBlocks(c.Request.Context(), userID, ledger.ToModels(userID, blocks)); err != nil {
		h.internalError(c, "Failed to save blockchain", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "blocks": len(blocks)})
}

func (h *Handler) LedgerStatus(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	stored, err := h.Store.ListBlocks(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Failed to check blockchain status", err)
		return
	}
	c.JSON(http.StatusOK, ledger.Summarize(stored))
}

// GetLedger returns the stored chain in the form the client hashed it.
func (h *Handler) GetLedger(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	stored, err := h.Store.ListBlocks(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	body, err := ledger.Encode(ledger.FromModels(stored))
	if err != nil {
		h.internalError(c, "Failed to encode blockchain", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
