package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/Flinmt/pinanca/internal/models"
	"github.com/Flinmt/pinanca/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

// categoryNames builds an id -> name map for the user's categories so
// exports carry readable labels instead of foreign keys.
func (h *ExportHandler) categoryNames(userID uint) (map[uint]string, error) {
	var cats []models.Category
	if err := h.DB.Where("user_id = ?", userID).Find(&cats).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}

// ExportCSV streams the user's transactions as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var txs []models.Transaction
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("occurred_at DESC").
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	names, err := h.categoryNames(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM so Excel picks the right encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write([]string{"Type", "Category", "Amount", "Fixed", "Periodicity", "Description", "Date"})

	for _, tx := range txs {
		category := ""
		if tx.CategoryID != nil {
			category = names[*tx.CategoryID]
		}
		fixed := "no"
		if tx.Fixed {
			fixed = "yes"
		}
		writer.Write([]string{
			tx.Type,
			category,
			util.FormatAmount(tx.Amount),
			fixed,
			tx.Periodicity,
			tx.Description,
			tx.OccurredAt.Format("2006-01-02"),
		})
	}
}

// ExportXLSX builds a workbook with a transactions sheet and a debts
// sheet that includes the installment schedule.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var txs []models.Transaction
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("occurred_at DESC").
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	var debts []models.Debt
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("debt_date, id").
		Find(&debts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	names, err := h.categoryNames(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	f := excelize.NewFile()

	txSheet := "Transactions"
	index, err := f.NewSheet(txSheet)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "sheet creation failed")
		return
	}
	f.SetActiveSheet(index)

	txHeaders := []string{"Type", "Category", "Amount", "Fixed", "Periodicity", "Description", "Date"}
	for i, hd := range txHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(txSheet, cell, hd)
	}
	for idx, tx := range txs {
		row := idx + 2
		category := ""
		if tx.CategoryID != nil {
			category = names[*tx.CategoryID]
		}
		fixed := "no"
		if tx.Fixed {
			fixed = "yes"
		}
		f.SetCellValue(txSheet, fmt.Sprintf("A%d", row), tx.Type)
		f.SetCellValue(txSheet, fmt.Sprintf("B%d", row), category)
		f.SetCellValue(txSheet, fmt.Sprintf("C%d", row), util.FormatAmount(tx.Amount))
		f.SetCellValue(txSheet, fmt.Sprintf("D%d", row), fixed)
		f.SetCellValue(txSheet, fmt.Sprintf("E%d", row), tx.Periodicity)
		f.SetCellValue(txSheet, fmt.Sprintf("F%d", row), tx.Description)
		f.SetCellValue(txSheet, fmt.Sprintf("G%d", row), tx.OccurredAt.Format("2006-01-02"))
	}
	f.SetColWidth(txSheet, "A", "A", 10)
	f.SetColWidth(txSheet, "B", "B", 15)
	f.SetColWidth(txSheet, "C", "C", 12)
	f.SetColWidth(txSheet, "D", "E", 10)
	f.SetColWidth(txSheet, "F", "F", 30)
	f.SetColWidth(txSheet, "G", "G", 12)

	debtSheet := "Debts"
	if _, err := f.NewSheet(debtSheet); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "sheet creation failed")
		return
	}
	debtHeaders := []string{"Description", "Category", "Total", "Installments", "Number", "Installment Amount", "Due", "Paid"}
	for i, hd := range debtHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(debtSheet, cell, hd)
	}
	row := 2
	for _, d := range debts {
		var insts []models.DebtInstallment
		if err := h.DB.Where("debt_id = ?", d.ID).
			Order("number").
			Find(&insts).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
			return
		}
		category := ""
		if d.CategoryID != nil {
			category = names[*d.CategoryID]
		}
		writeDebtCells := func(inst *models.DebtInstallment) {
			f.SetCellValue(debtSheet, fmt.Sprintf("A%d", row), d.Description)
			f.SetCellValue(debtSheet, fmt.Sprintf("B%d", row), category)
			f.SetCellValue(debtSheet, fmt.Sprintf("C%d", row), util.FormatAmount(d.TotalAmount))
			f.SetCellValue(debtSheet, fmt.Sprintf("D%d", row), d.Installments)
			if inst != nil {
				paid := "no"
				if inst.Paid {
					paid = "yes"
				}
				f.SetCellValue(debtSheet, fmt.Sprintf("E%d", row), inst.Number)
				f.SetCellValue(debtSheet, fmt.Sprintf("F%d", row), util.FormatAmount(inst.Amount))
				f.SetCellValue(debtSheet, fmt.Sprintf("G%d", row), inst.DueOn.Format("2006-01-02"))
				f.SetCellValue(debtSheet, fmt.Sprintf("H%d", row), paid)
			}
			row++
		}
		if len(insts) == 0 {
			writeDebtCells(nil)
			continue
		}
		for i := range insts {
			writeDebtCells(&insts[i])
		}
	}
	f.SetColWidth(debtSheet, "A", "A", 30)
	f.SetColWidth(debtSheet, "B", "B", 15)
	f.SetColWidth(debtSheet, "C", "D", 12)
	f.SetColWidth(debtSheet, "E", "H", 12)

	f.DeleteSheet("Sheet1")

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"pinanca_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
