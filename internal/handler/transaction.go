package handler

import (
	"net/http"
	"time"

	"github.com/Flinmt/pinanca/internal/models"
	"github.com/Flinmt/pinanca/internal/repository"
	"github.com/Flinmt/pinanca/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler serves income/expense records.
type TransactionHandler struct {
	DB *gorm.DB
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{DB: db}
}

type transactionReq struct {
	CategoryID    *uint  `json:"category_id"`
	Amount        string `json:"amount" binding:"required"`
	Type          string `json:"type" binding:"required,oneof=income expense"`
	Fixed         bool   `json:"fixed"`
	Periodicity   string `json:"periodicity"`
	NextExecution string `json:"next_execution"`
	Description   string `json:"description" binding:"max=255"`
	Notes         string `json:"notes"`
	OccurredAt    string `json:"occurred_at"`
	InstallmentID *uint  `json:"installment_id"`
}

func transactionResp(tx *models.Transaction) gin.H {
	resp := gin.H{
		"id":             tx.ID,
		"category_id":    tx.CategoryID,
		"amount_cent":    tx.Amount,
		"amount":         util.FormatAmount(tx.Amount),
		"type":           tx.Type,
		"fixed":          tx.Fixed,
		"periodicity":    tx.Periodicity,
		"description":    tx.Description,
		"notes":          tx.Notes,
		"occurred_at":    tx.OccurredAt,
		"installment_id": tx.InstallmentID,
		"created_at":     tx.CreatedAt,
	}
	if tx.NextExecution != nil {
		resp["next_execution"] = tx.NextExecution.Format("2006-01-02")
	}
	return resp
}

// parseOccurredAt accepts a full timestamp or a plain date.
func parseOccurredAt(s string) (time.Time, bool) {
	if s == "" {
		return time.Now().UTC(), true
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func bindTransaction(c *gin.Context, userID uint) (*models.Transaction, bool) {
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return nil, false
	}

	amountCent, err := util.ParseAmount(req.Amount)
	if err != nil || util.ValidateAmountCents(amountCent) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return nil, false
	}
	occurredAt, ok := parseOccurredAt(req.OccurredAt)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid occurred_at")
		return nil, false
	}

	tx := &models.Transaction{
		UserID:        userID,
		CategoryID:    req.CategoryID,
		Amount:        amountCent,
		Type:          req.Type,
		Fixed:         req.Fixed,
		Periodicity:   req.Periodicity,
		Description:   req.Description,
		Notes:         req.Notes,
		OccurredAt:    occurredAt,
		InstallmentID: req.InstallmentID,
	}
	if req.NextExecution != "" {
		next, err := util.ValidateDate(req.NextExecution)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "next_execution must be YYYY-MM-DD")
			return nil, false
		}
		tx.NextExecution = &next
	}
	return tx, true
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tx, ok := bindTransaction(c, user.ID)
	if !ok {
		return
	}

	if err := repository.NewTransactionRepository(h.DB).Create(tx); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": transactionResp(tx)})
}

func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var f repository.TxFilters
	f.Limit, f.Offset = pageParams(c)

	if s := c.Query("type"); s != "" {
		f.Type = &s
	}
	if v, ok := uintQuery(c, "category_id"); ok {
		f.CategoryID = &v
	}
	if s := c.Query("fixed"); s != "" {
		fixed := s == "true" || s == "1"
		f.Fixed = &fixed
	}
	if s := c.Query("periodicity"); s != "" {
		f.Periodicity = &s
	}
	if s := c.Query("start"); s != "" {
		t, err := util.ValidateDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start must be YYYY-MM-DD")
			return
		}
		f.Start = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := util.ValidateDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end must be YYYY-MM-DD")
			return
		}
		// treat the end date as inclusive up to the last instant of the day
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.End = &end
	}
	if v, ok := uintQuery(c, "installment_id"); ok {
		f.InstallmentID = &v
	}

	txs, err := repository.NewTransactionRepository(h.DB).ListByFilters(user.ID, f)
	if err != nil {
		failure(c, err)
		return
	}

	// running totals over the filtered rows
	var incomeCent, expenseCent int64
	items := make([]gin.H, 0, len(txs))
	for i := range txs {
		if txs[i].Type == models.TxIncome {
			incomeCent += txs[i].Amount
		} else {
			expenseCent += txs[i].Amount
		}
		items = append(items, transactionResp(&txs[i]))
	}

	util.Success(c, util.Response{
		"items": items,
		"summary": gin.H{
			"total_income_cent":  incomeCent,
			"total_income":       util.FormatAmount(incomeCent),
			"total_expense_cent": expenseCent,
			"total_expense":      util.FormatAmount(expenseCent),
			"balance_cent":       incomeCent - expenseCent,
			"balance":            util.FormatAmount(incomeCent - expenseCent),
		},
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	tx, err := repository.NewTransactionRepository(h.DB).GetByID(id)
	if err != nil {
		failure(c, err)
		return
	}
	if tx.UserID != user.ID {
		failure(c, repository.NewNotFound("transaction not found"))
		return
	}
	util.Success(c, util.Response{"transaction": transactionResp(tx)})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.checkOwner(user.ID, id); err != nil {
		failure(c, err)
		return
	}

	tx, ok := bindTransaction(c, user.ID)
	if !ok {
		return
	}
	tx.ID = id

	if err := repository.NewTransactionRepository(h.DB).Update(tx); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": transactionResp(tx)})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.checkOwner(user.ID, id); err != nil {
		failure(c, err)
		return
	}

	if err := repository.NewTransactionRepository(h.DB).Delete(id); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

func (h *TransactionHandler) checkOwner(userID, id uint) error {
	tx, err := repository.NewTransactionRepository(h.DB).GetByID(id)
	if err != nil {
		return err
	}
	if tx.UserID != userID {
		return repository.NewNotFound("transaction not found")
	}
	return nil
}
