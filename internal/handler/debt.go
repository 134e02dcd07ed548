package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Flinmt/pinanca/internal/models"
	"github.com/Flinmt/pinanca/internal/repository"
	"github.com/Flinmt/pinanca/internal/scheduler"
	"github.com/Flinmt/pinanca/internal/service"
	"github.com/Flinmt/pinanca/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DebtHandler serves debts and their installment schedules. All writes go
// through the schedule-aware service.
type DebtHandler struct {
	DB      *gorm.DB
	Service *service.DebtService
}

func NewDebtHandler(db *gorm.DB, svc *service.DebtService) *DebtHandler {
	return &DebtHandler{DB: db, Service: svc}
}

type debtReq struct {
	OriginID      uint   `json:"origin_id" binding:"required"`
	CategoryID    *uint  `json:"category_id"`
	ResponsibleID *uint  `json:"responsible_id"`
	DebtDate      string `json:"debt_date" binding:"required"`
	Description   string `json:"description" binding:"max=255"`
	Amount        string `json:"amount" binding:"required"`
	Installments  int    `json:"installments" binding:"required,min=1"`
	Notes         string `json:"notes"`
	Paid          bool   `json:"paid"`
}

func debtResp(d *models.Debt) gin.H {
	lastDue := scheduler.AddMonths(d.DebtDate, d.Installments-1)
	return gin.H{
		"id":               d.ID,
		"origin_id":        d.OriginID,
		"category_id":      d.CategoryID,
		"responsible_id":   d.ResponsibleID,
		"debt_date":        d.DebtDate.Format("2006-01-02"),
		"description":      d.Description,
		"amount_cent":      d.TotalAmount,
		"amount":           util.FormatAmount(d.TotalAmount),
		"installments":     d.Installments,
		"last_installment": lastDue.Format("2006-01-02"),
		"notes":            d.Notes,
		"paid":             d.Paid,
		"created_at":       d.CreatedAt,
	}
}

// bindDebt converts the request into a model, validating date and amount.
func bindDebt(c *gin.Context, userID uint) (*models.Debt, bool) {
	var req debtReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return nil, false
	}

	debtDate, err := util.ValidateDate(req.DebtDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "debt_date must be YYYY-MM-DD")
		return nil, false
	}
	amountCent, err := util.ParseAmount(req.Amount)
	if err != nil || util.ValidateAmountCents(amountCent) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return nil, false
	}

	return &models.Debt{
		UserID:        userID,
		OriginID:      req.OriginID,
		CategoryID:    req.CategoryID,
		ResponsibleID: req.ResponsibleID,
		DebtDate:      debtDate,
		Description:   req.Description,
		TotalAmount:   amountCent,
		Installments:  req.Installments,
		Notes:         req.Notes,
		Paid:          req.Paid,
	}, true
}

func (h *DebtHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	debt, ok := bindDebt(c, user.ID)
	if !ok {
		return
	}

	if err := h.Service.CreateWithSchedule(debt); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"debt": debtResp(debt)})
}

func (h *DebtHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var f repository.DebtFilters
	f.Limit, f.Offset = pageParams(c)

	if s := c.Query("paid"); s != "" {
		paid := s == "true" || s == "1"
		f.Paid = &paid
	}
	if v, ok := uintQuery(c, "origin_id"); ok {
		f.OriginID = &v
	}
	if v, ok := uintQuery(c, "category_id"); ok {
		f.CategoryID = &v
	}
	if v, ok := uintQuery(c, "responsible_id"); ok {
		f.ResponsibleID = &v
	}
	if s := c.Query("start"); s != "" {
		t, err := util.ValidateDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start must be YYYY-MM-DD")
			return
		}
		f.StartDate = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := util.ValidateDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end must be YYYY-MM-DD")
			return
		}
		f.EndDate = &t
	}
	if s := c.Query("installments_min"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			f.InstallmentsMin = &n
		}
	}
	if s := c.Query("installments_max"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			f.InstallmentsMax = &n
		}
	}

	debts, err := repository.NewDebtRepository(h.DB).ListByFilters(user.ID, f)
	if err != nil {
		failure(c, err)
		return
	}

	items := make([]gin.H, 0, len(debts))
	for i := range debts {
		items = append(items, debtResp(&debts[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *DebtHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	debt, err := h.ownedDebt(user.ID, id)
	if err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"debt": debtResp(debt)})
}

func (h *DebtHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, err := h.ownedDebt(user.ID, id); err != nil {
		failure(c, err)
		return
	}

	debt, ok := bindDebt(c, user.ID)
	if !ok {
		return
	}
	debt.ID = id

	if err := h.Service.UpdateWithSchedule(debt); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"debt": debtResp(debt)})
}

func (h *DebtHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, err := h.ownedDebt(user.ID, id); err != nil {
		failure(c, err)
		return
	}

	cascade := c.Query("cascade") == "true"
	if err := h.Service.Delete(id, cascade); err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

type bulkSaveReq struct {
	Items []struct {
		ID uint `json:"id" binding:"required"`
		debtReq
	} `json:"items" binding:"required"`
}

// BulkSave applies row edits one by one and reports per-row failures,
// mirroring the edit-grid save flow.
func (h *DebtHandler) BulkSave(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req bulkSaveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	saved := 0
	errs := make([]gin.H, 0)
	for _, item := range req.Items {
		debtDate, err := util.ValidateDate(item.DebtDate)
		if err != nil {
			errs = append(errs, gin.H{"id": item.ID, "error": "debt_date must be YYYY-MM-DD"})
			continue
		}
		amountCent, err := util.ParseAmount(item.Amount)
		if err != nil {
			errs = append(errs, gin.H{"id": item.ID, "error": "invalid amount"})
			continue
		}
		if _, err := h.ownedDebt(user.ID, item.ID); err != nil {
			errs = append(errs, gin.H{"id": item.ID, "error": err.Error()})
			continue
		}

		debt := &models.Debt{
			ID:            item.ID,
			UserID:        user.ID,
			OriginID:      item.OriginID,
			CategoryID:    item.CategoryID,
			ResponsibleID: item.ResponsibleID,
			DebtDate:      debtDate,
			Description:   item.Description,
			TotalAmount:   amountCent,
			Installments:  item.Installments,
			Notes:         item.Notes,
			Paid:          item.Paid,
		}
		if err := h.Service.UpdateWithSchedule(debt); err != nil {
			errs = append(errs, gin.H{"id": item.ID, "error": err.Error()})
			continue
		}
		saved++
	}

	util.Success(c, util.Response{"saved": saved, "errors": errs})
}

type bulkDeleteReq struct {
	IDs     []uint `json:"ids" binding:"required"`
	Cascade bool   `json:"cascade"`
}

// BulkDelete removes the selected debts, reporting per-row failures.
func (h *DebtHandler) BulkDelete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req bulkDeleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	deleted := 0
	errs := make([]gin.H, 0)
	for _, id := range req.IDs {
		if _, err := h.ownedDebt(user.ID, id); err != nil {
			errs = append(errs, gin.H{"id": id, "error": err.Error()})
			continue
		}
		if err := h.Service.Delete(id, req.Cascade); err != nil {
			errs = append(errs, gin.H{"id": id, "error": err.Error()})
			continue
		}
		deleted++
	}

	util.Success(c, util.Response{"deleted": deleted, "errors": errs})
}

// ListInstallments returns a debt's schedule ordered by number.
func (h *DebtHandler) ListInstallments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, err := h.ownedDebt(user.ID, id); err != nil {
		failure(c, err)
		return
	}

	limit, offset := pageParams(c)
	insts, err := repository.NewInstallmentRepository(h.DB).ListByDebt(id, limit, offset)
	if err != nil {
		failure(c, err)
		return
	}

	items := make([]gin.H, 0, len(insts))
	for i := range insts {
		items = append(items, installmentResp(&insts[i]))
	}
	util.Success(c, util.Response{"items": items})
}

// ownedDebt loads a debt and hides other users' rows behind not-found.
func (h *DebtHandler) ownedDebt(userID, id uint) (*models.Debt, error) {
	debt, err := repository.NewDebtRepository(h.DB).GetByID(id)
	if err != nil {
		return nil, err
	}
	if debt.UserID != userID {
		return nil, repository.NewNotFound(fmt.Sprintf("debt %d not found", id))
	}
	return debt, nil
}

// uintQuery parses an optional positive integer query parameter.
func uintQuery(c *gin.Context, name string) (uint, bool) {
	s := c.Query(name)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint(n), true
}
