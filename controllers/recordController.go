package controllers

import (
	"OdontoSystem/handlers"

	"github.com/gin-gonic/gin"
)

// RecordHandlers groups the clinic record handlers.
type RecordHandlers struct {
	Patients     *handlers.PatientHandler
	Dentists     *handlers.DentistHandler
	Procedures   *handlers.ProcedureHandler
	Appointments *handlers.AppointmentHandler
}

// SetupRecordRoutes registers CRUD routes for patients, dentists, procedures
// and appointments. guards run before every handler.
func SetupRecordRoutes(router gin.IRouter, h RecordHandlers, guards ...gin.HandlerFunc) {
	patients := router.Group("/patients", guards...)
	{
		patients.GET("", h.Patients.GetAllPatients)
		patients.POST("", h.Patients.CreatePatient)
		patients.GET("/:id", h.Patients.GetPatientByID)
		patients.PUT("/:id", h.Patients.UpdatePatient)
		patients.DELETE("/:id", h.Patients.DeletePatient)
	}

	dentists := router.Group("/dentists", guards...)
	{
		dentists.GET("", h.Dentists.GetAllDentists)
		dentists.POST("", h.Dentists.CreateDentist)
		dentists.GET("/:id", h.Dentists.GetDentistByID)
		dentists.PUT("/:id", h.Dentists.UpdateDentist)
		dentists.DELETE("/:id", h.Dentists.DeleteDentist)
	}

	procedures := router.Group("/procedures", guards...)
	{
		procedures.GET("", h.Procedures.GetAllProcedures)
		procedures.POST("", h.Procedures.CreateProcedure)
		procedures.GET("/:id", h.Procedures.GetProcedureByID)
		procedures.PUT("/:id", h.Procedures.UpdateProcedure)
		procedures.DELETE("/:id", h.Procedures.DeleteProcedure)
	}

	appointments := router.Group("/appointments", guards...)
	{
		appointments.GET("", h.Appointments.GetAllAppointments)
		appointments.POST("", h.Appointments.CreateAppointment)
		appointments.GET("/:id", h.Appointments.GetAppointmentByID)
		appointments.PUT("/:id", h.Appointments.UpdateAppointment)
		appointments.DELETE("/:id", h.Appointments.DeleteAppointment)
	}
}
