package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// TransactionRequest is the payload for creating or fully replacing a
// transaction. Amount is signed: positive for inflow, negative for outflow.
type TransactionRequest struct {
	Date        string           `json:"date" binding:"required" example:"2025-03-01T00:00:00Z"`
	Amount      *decimal.Decimal `json:"amount" binding:"required,gte=-1000000000,lte=1000000000" swaggertype:"string" example:"-20.00"`
	Description string           `json:"description" binding:"required,max=200"`
	Notes       *string          `json:"notes" binding:"omitempty,max=500"`
	AccountID   string           `json:"accountId" binding:"required,uuid"`
	CategoryID  string           `json:"categoryId" binding:"required,uuid"`
}

func (r *TransactionRequest) input() (services.TransactionInput, error) {
	date, err := parseDate("date", r.Date)
	if err != nil {
		return services.TransactionInput{}, err
	}
	return services.TransactionInput{
		Date:        date,
		Amount:      *r.Amount,
		Description: r.Description,
		Notes:       r.Notes,
		AccountID:   r.AccountID,
		CategoryID:  r.CategoryID,
	}, nil
}

// TransactionListQuery holds the optional filters of GET /transactions.
type TransactionListQuery struct {
	From       string `form:"from"`
	To         string `form:"to"`
	AccountID  string `form:"accountId"`
	CategoryID string `form:"categoryId"`
}

func (q *TransactionListQuery) filter() (services.TransactionFilter, error) {
	var (
		f   services.TransactionFilter
		err error
	)
	if f.FromDate, err = parseOptionalDate("from", q.From); err != nil {
		return f, err
	}
	if f.ToDate, err = parseOptionalEndDate("to", q.To); err != nil {
		return f, err
	}
	if f.AccountID, err = optionalUUID("accountId", q.AccountID); err != nil {
		return f, err
	}
	if f.CategoryID, err = optionalUUID("categoryId", q.CategoryID); err != nil {
		return f, err
	}
	return f, nil
}

// SummaryQuery holds the parameters of GET /transactions/summary.
type SummaryQuery struct {
	GroupBy string `form:"groupBy" binding:"omitempty,oneof=category month"`
	From    string `form:"from"`
	To      string `form:"to"`
}

// ListTransactions returns the user's transactions, newest first.
// @Summary     List transactions
// @Description List the authenticated user's transactions ordered by date descending. The total count is returned in X-Total-Count.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       from       query string false "Earliest date (inclusive)"
// @Param       to         query string false "Latest date (inclusive)"
// @Param       accountId  query string false "Only this account"
// @Param       categoryId query string false "Only this category"
// @Param       page       query int    false "Page number (enables pagination)"
// @Param       page_size  query int    false "Page size (max 100)"
// @Success     200 {array}  services.TransactionView
// @Header      200 {integer} X-Total-Count "Number of matching transactions"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithBindError(c, err)
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithBindError(c, err)
		return
	}

	filter, err := query.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, total, err := h.transactionService.ListTransactions(c.Request.Context(), userID, filter, &page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	if page.Requested() {
		c.Header("X-Total-Pages", strconv.Itoa(page.TotalPages(total)))
	}
	c.JSON(http.StatusOK, transactions)
}

// GetTransaction returns a single transaction.
// @Summary     Get transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Transaction ID"
// @Success     200 {object} services.TransactionView
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a transaction against an account and category owned by the user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} services.TransactionView "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or category not found or access denied"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditCreateTransaction, "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"accountId": in.AccountID, "categoryId": in.CategoryID, "amount": transaction.Amount.String()})

	c.JSON(http.StatusCreated, transaction)
}

// UpdateTransaction replaces every field of a transaction.
// @Summary     Update transaction
// @Tags        transactions
// @Accept      json
// @Security    BearerAuth
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     204
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction, account or category not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, transactionID, in); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditUpdateTransaction, "transaction", transactionID, c.ClientIP(),
		map[string]interface{}{"accountId": in.AccountID, "categoryId": in.CategoryID, "amount": in.Amount.String()})

	c.Status(http.StatusNoContent)
}

// DeleteTransaction deletes a transaction.
// @Summary     Delete transaction
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditDeleteTransaction, "transaction", transactionID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// Summarize totals income and expenses per category or month.
// @Summary     Summarize transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       groupBy query string false "category (default) or month"
// @Param       from    query string false "Earliest date (inclusive)"
// @Param       to      query string false "Latest date (inclusive)"
// @Success     200 {array}  services.TransactionSummary
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/summary [get]
func (h *TransactionHandler) Summarize(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query SummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithBindError(c, err)
		return
	}

	req := services.SummaryRequest{GroupBy: query.GroupBy}
	if req.FromDate, err = parseOptionalDate("from", query.From); err != nil {
		respondWithError(c, err)
		return
	}
	if req.ToDate, err = parseOptionalEndDate("to", query.To); err != nil {
		respondWithError(c, err)
		return
	}

	summaries, err := h.transactionService.Summarize(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}
