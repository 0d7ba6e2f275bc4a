package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fintrack/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, auditService: auditService}
}

// AccountRequest is the payload for creating or fully replacing an account.
type AccountRequest struct {
	Name           string           `json:"name" binding:"required,max=100"`
	Type           string           `json:"type" binding:"required,max=50"`
	InitialBalance *decimal.Decimal `json:"initialBalance" binding:"required,gte=0,lte=1000000000" swaggertype:"string" example:"100.00"`
}

func (r *AccountRequest) input() services.AccountInput {
	return services.AccountInput{Name: r.Name, Type: r.Type, InitialBalance: *r.InitialBalance}
}

// ListAccounts returns every account of the authenticated user.
// @Summary     List accounts
// @Description List the authenticated user's accounts with their current balances
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  services.AccountView
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// GetAccount returns a single account.
// @Summary     Get account
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Account ID"
// @Success     200 {object} services.AccountView
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// CreateAccount handles the creation of a new account
// @Summary     Create account
// @Description Create a new account for the authenticated user
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AccountRequest true "Account details"
// @Success     201 {object} services.AccountView "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditCreateAccount, "account", account.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "type": req.Type, "initialBalance": account.InitialBalance.String()})

	c.JSON(http.StatusCreated, account)
}

// UpdateAccount replaces an account's name, type and initial balance.
// @Summary     Update account
// @Tags        accounts
// @Accept      json
// @Security    BearerAuth
// @Param       id      path string         true "Account ID"
// @Param       request body AccountRequest true "Account details"
// @Success     204
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	if err := h.accountService.UpdateAccount(c.Request.Context(), userID, accountID, req.input()); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditUpdateAccount, "account", accountID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "type": req.Type, "initialBalance": req.InitialBalance.String()})

	c.Status(http.StatusNoContent)
}

// DeleteAccount deletes an account that has no transactions.
// @Summary     Delete account
// @Tags        accounts
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     204
// @Failure     400 {object} ErrorResponse "Invalid ID or account still has transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditDeleteAccount, "account", accountID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}
