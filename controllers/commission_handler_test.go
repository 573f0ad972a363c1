package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Nikhil-737/DigiKart/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postCommissionTrigger(t *testing.T, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/admin/referrals/commissions/process", ProcessCommissionHandler)

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/admin/referrals/commissions/process", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

func TestProcessCommissionHandlerSuccess(t *testing.T) {
	setupTestDB(t)

	referrer := createTestUser(t, "referrer@digikart.test")
	buyer := createTestUser(t, "buyer@digikart.test")
	createTestReferral(t, referrer.ID, &buyer.ID, "HANDLER1", models.ReferralStatusCompleted, time.Now().Add(-48*time.Hour))
	purchase := createTestPurchase(t, buyer.ID, 10000, models.PurchaseStatusCompleted)

	w, body := postCommissionTrigger(t, gin.H{"purchase_id": purchase.ID})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	require.Contains(t, body, "commission")

	commission := body["commission"].(map[string]any)
	assert.Equal(t, float64(300), commission["commission_cents"])
}

func TestProcessCommissionHandlerMissingPurchaseID(t *testing.T) {
	setupTestDB(t)

	w, body := postCommissionTrigger(t, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestProcessCommissionHandlerPurchaseNotFound(t *testing.T) {
	setupTestDB(t)

	w, body := postCommissionTrigger(t, gin.H{"purchase_id": 12345})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "purchase not found", body["message"])
}

func TestProcessCommissionHandlerPurchaseNotCompleted(t *testing.T) {
	setupTestDB(t)

	buyer := createTestUser(t, "buyer@digikart.test")
	purchase := createTestPurchase(t, buyer.ID, 10000, models.PurchaseStatusPending)

	w, body := postCommissionTrigger(t, gin.H{"purchase_id": purchase.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "purchase is not completed", body["message"])
}

func TestProcessCommissionHandlerNoReferralStillSucceeds(t *testing.T) {
	setupTestDB(t)

	buyer := createTestUser(t, "organic@digikart.test")
	purchase := createTestPurchase(t, buyer.ID, 10000, models.PurchaseStatusCompleted)

	w, body := postCommissionTrigger(t, gin.H{"purchase_id": purchase.ID})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "commission")
}
