package handlers

import (
	"net/http"

	"OdontoSystem/middlewares"
	"OdontoSystem/models"
	"OdontoSystem/repositories"
	"OdontoSystem/services"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	service *services.AppointmentService
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var input models.AppointmentInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	appointment, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusCreated)
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

func (h *AppointmentHandler) GetAllAppointments(c *gin.Context) {
	if !allowQuery(c, "dentist_id", "patient_id", "status", "date") {
		return
	}
	day, err := queryDate(c, "date")
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	filter := repositories.AppointmentFilter{
		DentistID: c.Query("dentist_id"),
		PatientID: c.Query("patient_id"),
		Status:    c.Query("status"),
		Day:       day,
	}
	appointments, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointments, http.StatusOK)
}

func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var input models.AppointmentInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	appointment, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, appointment, http.StatusOK)
}

// DeleteAppointment cancels the appointment.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		middlewares.HttpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
