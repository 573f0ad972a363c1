package controllers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadInvoiceHandler generates and returns a PDF invoice for a
// completed purchase
func DownloadInvoiceHandler(c *gin.Context) {
	utils.LogInfo("DownloadInvoiceHandler called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var purchase models.Purchase
	if err := config.DB.Preload("Product").
		Where("id = ? AND buyer_id = ?", c.Param("id"), user.ID).
		First(&purchase).Error; err != nil {
		utils.NotFound(c, "Purchase not found")
		return
	}

	if purchase.Status != models.PurchaseStatusCompleted {
		utils.BadRequest(c, "Invoice is only available for completed purchases", purchase.Status)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "DigiKart")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(100, 6, "Digital goods marketplace")
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(100, 8, fmt.Sprintf("Invoice #%d", purchase.ID))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(60, 7, "Billed to:")
	pdf.Cell(100, 7, user.Email)
	pdf.Ln(7)
	pdf.Cell(60, 7, "Date:")
	completedAt := time.Now()
	if purchase.CompletedAt != nil {
		completedAt = *purchase.CompletedAt
	}
	pdf.Cell(100, 7, completedAt.Format("2006-01-02 15:04"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(120, 8, "Item")
	pdf.Cell(40, 8, "Amount")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(120, 8, purchase.Product.Name)
	pdf.Cell(40, 8, fmt.Sprintf("%.2f", float64(purchase.AmountCents)/100))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(120, 8, "Total")
	pdf.Cell(40, 8, fmt.Sprintf("%.2f", float64(purchase.AmountCents)/100))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to render invoice for purchase %d: %v", purchase.ID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", purchase.ID))
	c.Data(200, "application/pdf", buf.Bytes())
}
