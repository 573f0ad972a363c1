package controllers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// AdminExportReferralReportHandler exports the commission ledger for a date
// range as an Excel workbook
func AdminExportReferralReportHandler(c *gin.Context) {
	utils.LogInfo("AdminExportReferralReportHandler called")

	from, to, err := reportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		utils.BadRequest(c, "Invalid date range, use YYYY-MM-DD", err.Error())
		return
	}

	var commissions []models.ReferralCommission
	if err := config.DB.
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&commissions).Error; err != nil {
		utils.LogError("Failed to load commissions for report: %v", err)
		utils.InternalServerError(c, "Failed to load report data", nil)
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Referral Earnings")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", nil)
		return
	}

	header := sheet.AddRow()
	for _, title := range []string{"Commission ID", "Referrer ID", "Referred User ID", "Purchase ID", "Sale Amount", "Platform Fee", "Commission", "Status", "Created At"} {
		cell := header.AddCell()
		cell.Value = title
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	var totalSales, totalCommission int64
	for _, commission := range commissions {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(commission.ID))
		row.AddCell().SetInt(int(commission.ReferrerID))
		row.AddCell().SetInt(int(commission.ReferredUserID))
		row.AddCell().SetInt(int(commission.PurchaseID))
		row.AddCell().SetFloat(float64(commission.SaleAmountCents) / 100)
		row.AddCell().SetFloat(float64(commission.PlatformFeeCents) / 100)
		row.AddCell().SetFloat(float64(commission.CommissionCents) / 100)
		row.AddCell().Value = commission.Status
		row.AddCell().Value = commission.CreatedAt.Format("2006-01-02 15:04:05")

		totalSales += commission.SaleAmountCents
		totalCommission += commission.CommissionCents
	}

	sheet.AddRow()
	totals := sheet.AddRow()
	totals.AddCell().Value = "Totals"
	totals.AddCell()
	totals.AddCell()
	totals.AddCell()
	totals.AddCell().SetFloat(float64(totalSales) / 100)
	totals.AddCell()
	totals.AddCell().SetFloat(float64(totalCommission) / 100)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.LogError("Failed to write Excel report: %v", err)
		utils.InternalServerError(c, "Failed to generate report", nil)
		return
	}

	filename := fmt.Sprintf("referral-report-%s-%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// reportRange parses the export window, defaulting to the trailing 30 days.
// The upper bound is exclusive.
func reportRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return from, to, err
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return from, to, err
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}
