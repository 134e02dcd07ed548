package handler

import (
	"net/http"

	"github.com/Flinmt/pinanca/internal/models"
	"github.com/Flinmt/pinanca/internal/repository"
	"github.com/Flinmt/pinanca/internal/service"
	"github.com/Flinmt/pinanca/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InstallmentHandler serves per-installment operations.
type InstallmentHandler struct {
	DB      *gorm.DB
	Service *service.DebtService
}

func NewInstallmentHandler(db *gorm.DB, svc *service.DebtService) *InstallmentHandler {
	return &InstallmentHandler{DB: db, Service: svc}
}

func installmentResp(inst *models.DebtInstallment) gin.H {
	return gin.H{
		"id":          inst.ID,
		"debt_id":     inst.DebtID,
		"number":      inst.Number,
		"amount_cent": inst.Amount,
		"amount":      util.FormatAmount(inst.Amount),
		"due_on":      inst.DueOn.Format("2006-01-02"),
		"paid":        inst.Paid,
		"paid_at":     inst.PaidAt,
	}
}

type setPaidReq struct {
	Paid *bool `json:"paid" binding:"required"`
}

// SetPaid toggles the installment's paid flag. The parent debt's own
// paid flag is never changed here.
func (h *InstallmentHandler) SetPaid(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req setPaidReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	if err := h.checkOwner(user.ID, id); err != nil {
		failure(c, err)
		return
	}

	inst, err := h.Service.SetInstallmentPaid(id, *req.Paid)
	if err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"installment": installmentResp(inst)})
}

type recordPaymentReq struct {
	CategoryID  *uint  `json:"category_id"`
	Description string `json:"description" binding:"max=255"`
}

// RecordPayment marks the installment paid and creates the linked
// expense transaction.
func (h *InstallmentHandler) RecordPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	// both fields are optional, so an empty body is fine
	var req recordPaymentReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
			return
		}
	}

	payment, err := h.Service.RecordInstallmentPayment(user.ID, id, req.CategoryID, req.Description)
	if err != nil {
		failure(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": transactionResp(payment)})
}

// checkOwner hides other users' installments behind not-found.
func (h *InstallmentHandler) checkOwner(userID, installmentID uint) error {
	inst, err := repository.NewInstallmentRepository(h.DB).GetByID(installmentID)
	if err != nil {
		return err
	}
	debt, err := repository.NewDebtRepository(h.DB).GetByID(inst.DebtID)
	if err != nil {
		return err
	}
	if debt.UserID != userID {
		return repository.NewNotFound("installment not found")
	}
	return nil
}
