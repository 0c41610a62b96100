package v1

import (
	"strings"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves /api/admin for the clinic operator.
type AdminHandler struct {
	auth          AuthService
	directory     DirectoryService
	appointments  AppointmentService
	maxUploadSize int64
	log           *zap.Logger
}

func NewAdminHandler(auth AuthService, directory DirectoryService, appointments AppointmentService, maxUploadSize int64, log *zap.Logger) *AdminHandler {
	return &AdminHandler{auth: auth, directory: directory, appointments: appointments, maxUploadSize: maxUploadSize, log: log}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	token, err := h.auth.LoginOperator(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Login successful", gin.H{"token": token})
}

func (h *AdminHandler) AddPractitioner(c *gin.Context) {
	var req addPractitionerRequest
	if !bind(c, &req) {
		return
	}

	image, closeImage, err := formImage(c, "image", h.maxUploadSize)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	defer closeImage()

	_, err = h.directory.AddPractitioner(c.Request.Context(), &practitioner.CreatePractitionerCommand{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Speciality: req.Speciality,
		Degree:     req.Degree,
		Experience: req.experience(),
		About:      req.About,
		Fees:       int64(req.Fees),
		Address:    req.Address.Address,
	}, image)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Doctor added successfully", nil)
}

func (h *AdminHandler) ListPractitioners(c *gin.Context) {
	list, err := h.directory.ListPractitioners(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "", gin.H{"doctors": newPractitionerViews(list)})
}

func (h *AdminHandler) DeletePractitioner(c *gin.Context) {
	var req deletePractitionerRequest
	if !bind(c, &req) {
		return
	}
	id, ok := parseID(c, req.ID, "id")
	if !ok {
		return
	}

	if err := h.directory.DeletePractitioner(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Doctor deleted successfully", nil)
}

func (h *AdminHandler) UpdatePractitioner(c *gin.Context) {
	var req updatePractitionerRequest
	if !bind(c, &req) {
		return
	}
	id, ok := parseID(c, req.DocID, "docId")
	if !ok {
		return
	}

	image, closeImage, err := formImage(c, "image", h.maxUploadSize)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	defer closeImage()

	cmd := &practitioner.UpdatePractitionerCommand{
		Name:       optional(req.Name),
		Email:      optional(req.Email),
		Phone:      optional(req.Phone),
		Speciality: optional(req.Speciality),
		Degree:     optional(req.Degree),
		Experience: optional(req.Experiance),
		About:      optional(req.About),
	}
	if cmd.Experience == nil {
		cmd.Experience = optional(req.Experience)
	}
	if req.Fees != 0 {
		fees := int64(req.Fees)
		cmd.Fees = &fees
	}
	cmd.Address = req.Address.ptr()

	if _, err := h.directory.UpdatePractitioner(c.Request.Context(), id, cmd, image); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Doctor updated successfully", nil)
}

func (h *AdminHandler) ChangeAvailability(c *gin.Context) {
	var req availabilityRequest
	if !bind(c, &req) {
		return
	}
	id, ok := parseID(c, req.DocID, "docId")
	if !ok {
		return
	}

	available, err := h.directory.ChangeAvailability(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Availability changed", gin.H{"available": available})
}

func (h *AdminHandler) ListAppointments(c *gin.Context) {
	list, err := h.appointments.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "", gin.H{"appointments": newAppointmentDetailViews(list)})
}

func (h *AdminHandler) GetAppointment(c *gin.Context) {
	id, ok := parseID(c, c.Param("id"), "appointment id")
	if !ok {
		return
	}

	d, err := h.appointments.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "", gin.H{"appointment": newAppointmentDetailView(d)})
}

func (h *AdminHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req updateStatusRequest
	if !bind(c, &req) {
		return
	}
	id, ok := parseID(c, req.AppointmentID, "appointmentId")
	if !ok {
		return
	}
	target, err := appointment.ParseTarget(req.Status)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	if _, err := h.appointments.Transition(c.Request.Context(), id, target, callerClaims(c)); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Status updated", nil)
}

func (h *AdminHandler) DashboardStats(c *gin.Context) {
	st, err := h.appointments.DashboardStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "", gin.H{"stats": statsView{
		TotalAppointments:     st.TotalAppointments,
		TotalDoctors:          st.TotalPractitioners,
		PendingAppointments:   st.PendingAppointments,
		CompletedAppointments: st.CompletedAppointments,
		CancelledAppointments: st.CancelledAppointments,
	}})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
