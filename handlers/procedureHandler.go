package handlers

import (
	"net/http"

	"OdontoSystem/middlewares"
	"OdontoSystem/models"
	"OdontoSystem/repositories"
	"OdontoSystem/services"

	"github.com/gin-gonic/gin"
)

type ProcedureHandler struct {
	service *services.ProcedureService
}

func NewProcedureHandler(service *services.ProcedureService) *ProcedureHandler {
	return &ProcedureHandler{service: service}
}

func (h *ProcedureHandler) CreateProcedure(c *gin.Context) {
	var input models.ProcedureInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	procedure, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, procedure, http.StatusCreated)
}

func (h *ProcedureHandler) GetProcedureByID(c *gin.Context) {
	procedure, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, procedure, http.StatusOK)
}

func (h *ProcedureHandler) GetAllProcedures(c *gin.Context) {
	if !allowQuery(c, "active") {
		return
	}
	active, err := queryBool(c, "active")
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	procedures, err := h.service.GetAll(c.Request.Context(), repositories.ActiveFilter{Active: active})
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, procedures, http.StatusOK)
}

func (h *ProcedureHandler) UpdateProcedure(c *gin.Context) {
	var input models.ProcedureInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	procedure, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, procedure, http.StatusOK)
}

// DeleteProcedure removes the procedure permanently.
func (h *ProcedureHandler) DeleteProcedure(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middlewares.HttpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
