package v1

import (
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DoctorHandler serves /api/doctor: the public listing and the practitioner portal.
type DoctorHandler struct {
	auth         AuthService
	directory    DirectoryService
	appointments AppointmentService
	log          *zap.Logger
}

func NewDoctorHandler(auth AuthService, directory DirectoryService, appointments AppointmentService, log *zap.Logger) *DoctorHandler {
	return &DoctorHandler{auth: auth, directory: directory, appointments: appointments, log: log}
}

func (h *DoctorHandler) List(c *gin.Context) {
	list, err := h.directory.ListPractitioners(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "", gin.H{"doctors": newPractitionerViews(list)})
}

func (h *DoctorHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	token, err := h.auth.LoginPractitioner(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Login successful", gin.H{"token": token})
}

func (h *DoctorHandler) Appointments(c *gin.Context) {
	list, err := h.appointments.ListForPractitioner(c.Request.Context(), callerClaims(c).SubjectID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "", gin.H{"appointments": newAppointmentDetailViews(list)})
}

func (h *DoctorHandler) CompleteAppointment(c *gin.Context) {
	h.transition(c, appointment.StatusCompleted, "Appointment Completed")
}

func (h *DoctorHandler) CancelAppointment(c *gin.Context) {
	h.transition(c, appointment.StatusCancelled, "Appointment Cancelled")
}

func (h *DoctorHandler) transition(c *gin.Context, target appointment.Status, message string) {
	var req appointmentRequest
	if !bind(c, &req) {
		return
	}
	id, ok := parseID(c, req.AppointmentID, "appointmentId")
	if !ok {
		return
	}

	if _, err := h.appointments.Transition(c.Request.Context(), id, target, callerClaims(c)); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, message, nil)
}

func (h *DoctorHandler) Dashboard(c *gin.Context) {
	st, err := h.appointments.PractitionerDashboard(c.Request.Context(), callerClaims(c).SubjectID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	latest := make([]appointmentView, 0, len(st.LatestAppointments))
	for _, a := range st.LatestAppointments {
		latest = append(latest, newAppointmentView(a))
	}
	respondOK(c, "", gin.H{"dashData": practitionerDashboardView{
		Earnings:           st.Earnings,
		Appointments:       st.Appointments,
		Patients:           st.Patients,
		LatestAppointments: latest,
	}})
}

func (h *DoctorHandler) Profile(c *gin.Context) {
	p, err := h.directory.GetPractitioner(c.Request.Context(), callerClaims(c).SubjectID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "", gin.H{"profileData": newPractitionerView(p)})
}

func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	var req practitionerProfileRequest
	if !bind(c, &req) {
		return
	}

	p, err := h.directory.UpdateOwnProfile(c.Request.Context(), callerClaims(c).SubjectID, &practitioner.SelfUpdateCommand{
		Fees:      int64(req.Fees),
		Address:   req.Address.ptr(),
		Available: *req.Available,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Profile Updated", gin.H{"profileData": newPractitionerView(p)})
}
