package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	portssvc "github.com/bekzod-t/trade_ledger_app/internal/core/ports/services"
	"github.com/bekzod-t/trade_ledger_app/internal/dto"
	"github.com/bekzod-t/trade_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// clientHandler handles HTTP requests related to clients.
type clientHandler struct {
	clientService      portssvc.ClientSvcFacade
	transactionService portssvc.TransactionSvcFacade
}

// newClientHandler creates a new clientHandler.
func newClientHandler(cs portssvc.ClientSvcFacade, ts portssvc.TransactionSvcFacade) *clientHandler {
	return &clientHandler{
		clientService:      cs,
		transactionService: ts,
	}
}

// registerClientRoutes registers routes related to clients.
func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade, transactionService portssvc.TransactionSvcFacade) {
	h := newClientHandler(clientService, transactionService)

	clients := rg.Group("/clients")
	{
		clients.GET("/:id", h.getClient)
		clients.GET("/:id/transactions", h.listClientTransactions)
	}
}

// getClient godoc
// @Summary Get a client
// @Description Retrieves a client with its current balance
// @Tags clients
// @Produce  json
// @Param   id path string true "Client ID"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 500 {object} map[string]string "Failed to retrieve client"
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("id")

	client, err := h.clientService.GetClientByID(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Client not found", slog.String("client_id", clientID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		} else {
			logger.Error("Failed to get client", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve client"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// listClientTransactions godoc
// @Summary List a client's transactions
// @Description Retrieves a token-paginated page of the client's active transactions, newest first
// @Tags clients
// @Produce  json
// @Param   id path string true "Client ID"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /clients/{id}/transactions [get]
func (h *clientHandler) listClientTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("id")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListClientTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.transactionService.ListTransactionsByClient(c.Request.Context(), clientID, params)
	if err != nil {
		respondTransactionError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
