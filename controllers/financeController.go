package controllers

import (
	"OdontoSystem/handlers"

	"github.com/gin-gonic/gin"
)

// SetupFinanceRoutes registers both ledgers. Budget goals exist only on the
// personal ledger.
func SetupFinanceRoutes(router gin.IRouter, clinic, personal *handlers.LedgerHandler, guards ...gin.HandlerFunc) {
	registerLedger(router.Group("/finance/clinic", guards...), clinic)

	personalGroup := router.Group("/finance/personal", guards...)
	personalGroup.GET("/goals", personal.GetGoals)
	personalGroup.POST("/goals", personal.UpsertGoal)
	registerLedger(personalGroup, personal)
}

func registerLedger(group *gin.RouterGroup, h *handlers.LedgerHandler) {
	group.GET("", h.GetEntries)
	group.POST("", h.CreateEntry)
	group.GET("/categories", h.GetCategories)
	group.GET("/summary", h.GetSummary)
	group.GET("/:id", h.GetEntry)
	group.PUT("/:id", h.UpdateEntry)
	group.DELETE("/:id", h.DeleteEntry)
}
