package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"financehub/internal/domain"
	"financehub/internal/view"
)

// filterAll is the select value meaning "no filter".
const filterAll = "all"

type listTransactionsQuery struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=all credit debit"`
	Status   string `form:"status" binding:"omitempty,oneof=all completed pending failed"`
	Category string `form:"category"`
	Sort     string `form:"sort" binding:"omitempty,oneof=date description amount status"`
	Dir      string `form:"dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func unlessAll(v string) string {
	if v == filterAll {
		return ""
	}
	return v
}

func (q listTransactionsQuery) state() view.State {
	s := view.DefaultState()
	s.Search = q.Search
	s.Type = domain.TransactionType(unlessAll(q.Type))
	s.Status = domain.TransactionStatus(unlessAll(q.Status))
	s.Category = unlessAll(q.Category)
	if q.Sort != "" {
		s.SortField = view.SortField(q.Sort)
	}
	if q.Dir != "" {
		s.SortDirection = view.SortDirection(q.Dir)
	}
	if q.Page > 0 {
		s.Page = q.Page
	}
	if q.PageSize > 0 {
		s.PageSize = q.PageSize
	}
	return s
}

type transactionsResponse struct {
	view.Result
	Sort view.SortField     `json:"sort"`
	Dir  view.SortDirection `json:"dir"`
}

type createTransactionRequest struct {
	Date        string                   `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description string                   `json:"description" binding:"required"`
	Category    string                   `json:"category"`
	Type        domain.TransactionType   `json:"type" binding:"required,oneof=credit debit"`
	Amount      domain.Amount            `json:"amount" binding:"gt=0,lte=100000000000"`
	Status      domain.TransactionStatus `json:"status" binding:"omitempty,oneof=completed pending failed"`
	Account     string                   `json:"account"`
}

type updateTransactionRequest struct {
	Date        *string                   `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description *string                   `json:"description"`
	Category    *string                   `json:"category"`
	Type        *domain.TransactionType   `json:"type" binding:"omitempty,oneof=credit debit"`
	Amount      *domain.Amount            `json:"amount" binding:"omitempty,gt=0,lte=100000000000"`
	Status      *domain.TransactionStatus `json:"status" binding:"omitempty,oneof=completed pending failed"`
	Account     *string                   `json:"account"`
}

var (
	errDescriptionTooShort = errors.New("description must be at least 2 characters")
	errAmountTooLarge      = fmt.Errorf("amount must not exceed %s", domain.MaxAmount)
)

func validDescription(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len([]rune(s)) < 2 {
		return "", errDescriptionTooShort
	}
	return s, nil
}

func (r updateTransactionRequest) input() (domain.UpdateTransactionInput, error) {
	in := domain.UpdateTransactionInput{
		Date:     r.Date,
		Category: r.Category,
		Type:     r.Type,
		Amount:   r.Amount,
		Status:   r.Status,
		Account:  r.Account,
	}
	if r.Description != nil {
		desc, err := validDescription(*r.Description)
		if err != nil {
			return domain.UpdateTransactionInput{}, err
		}
		in.Description = &desc
	}
	if r.Amount != nil && *r.Amount <= 0 {
		return domain.UpdateTransactionInput{}, errors.New("amount must be greater than 0")
	}
	if r.Amount != nil && *r.Amount > domain.MaxAmount {
		return domain.UpdateTransactionInput{}, errAmountTooLarge
	}
	return in, nil
}

func (h *Handler) listTransactions(c *gin.Context) {
	var q listTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	txns, err := h.transactions.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	s := q.state()
	c.JSON(http.StatusOK, transactionsResponse{
		Result: view.Derive(txns, s),
		Sort:   s.SortField,
		Dir:    s.SortDirection,
	})
}

func (h *Handler) exportTransactions(c *gin.Context) {
	var q listTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	txns, err := h.transactions.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	c.Status(http.StatusOK)
	if err := view.WriteCSV(c.Writer, view.Sorted(txns, q.state())); err != nil {
		h.logger.Errorf("export transactions: %v", err)
	}
}

func (h *Handler) transactionCategories(c *gin.Context) {
	txns, err := h.transactions.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories":     view.Categories(txns),
		"formCategories": domain.Categories,
		"accounts":       domain.Accounts,
	})
}

func (h *Handler) getTransaction(c *gin.Context) {
	txn, found, err := h.transactions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *Handler) createTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	desc, err := validDescription(req.Description)
	if err != nil {
		badRequest(c, err)
		return
	}
	if req.Amount > domain.MaxAmount {
		badRequest(c, errAmountTooLarge)
		return
	}
	if req.Date == "" {
		req.Date = h.now().Format(domain.DateLayout)
	}
	if req.Status == "" {
		req.Status = domain.TransactionCompleted
	}
	if req.Category == "" {
		req.Category = domain.DefaultCategory
	}
	if req.Account == "" {
		req.Account = domain.DefaultAccount
	}

	txn, err := h.transactions.Create(c.Request.Context(), domain.CreateTransactionInput{
		Date:        req.Date,
		Description: desc,
		Category:    req.Category,
		Type:        req.Type,
		Amount:      req.Amount,
		Status:      req.Status,
		Account:     req.Account,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func (h *Handler) updateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		badRequest(c, err)
		return
	}

	txn, err := h.transactions.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *Handler) deleteTransaction(c *gin.Context) {
	if err := h.transactions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
