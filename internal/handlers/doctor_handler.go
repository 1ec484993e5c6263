package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/healthtrack/healthtrack-api/internal/service"
	"github.com/healthtrack/healthtrack-api/internal/utils"
)

// DoctorHandler serves the doctor dashboard
type DoctorHandler struct {
	doctorService  *service.DoctorService
	consentService *service.ConsentService
}

// NewDoctorHandler creates a new doctor handler instance
func NewDoctorHandler(doctorService *service.DoctorService, consentService *service.ConsentService) *DoctorHandler {
	return &DoctorHandler{doctorService: doctorService, consentService: consentService}
}

// Stats handles GET /api/doctor/stats
func (h *DoctorHandler) Stats(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	stats, err := h.doctorService.GetDashboardStats(c.Request.Context(), user.ID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", stats)
}

// SearchPatients handles GET /api/doctor/patients?search=
func (h *DoctorHandler) SearchPatients(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	patients, err := h.doctorService.SearchPatients(c.Request.Context(), user.ID, c.Query("search"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", patients)
}

// RequestAccess handles POST /api/doctor/patients/:patientId/request-access
func (h *DoctorHandler) RequestAccess(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	sendRequestAccessResult(c, h.consentService, user.ID, c.Param("patientId"))
}

// PatientRecords handles GET /api/doctor/patients/:patientId/records
func (h *DoctorHandler) PatientRecords(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	records, err := h.doctorService.GetPatientRecords(c.Request.Context(), user.ID, user.Name, c.Param("patientId"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "", records)
}
