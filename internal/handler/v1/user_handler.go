package v1

import (
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/appointment"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves /api/user: patient registration, profile, booking and payment.
type UserHandler struct {
	auth          AuthService
	accounts      AccountService
	appointments  AppointmentService
	maxUploadSize int64
	log           *zap.Logger
}

func NewUserHandler(auth AuthService, accounts AccountService, appointments AppointmentService, maxUploadSize int64, log *zap.Logger) *UserHandler {
	return &UserHandler{auth: auth, accounts: accounts, appointments: appointments, maxUploadSize: maxUploadSize, log: log}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}

	err := h.auth.RegisterAccount(c.Request.Context(), &account.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Registration successful", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	token, err := h.auth.LoginAccount(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Login successful", gin.H{"token": token})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	a, err := h.accounts.GetProfile(c.Request.Context(), callerClaims(c).SubjectID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "", gin.H{"userData": newAccountView(a)})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bind(c, &req) {
		return
	}

	image, closeImage, err := formImage(c, "image", h.maxUploadSize)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	defer closeImage()

	a, err := h.accounts.UpdateProfile(c.Request.Context(), callerClaims(c).SubjectID, &account.UpdateProfileCommand{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address.ptr(),
		DateOfBirth: req.DateOfBirth,
		Gender:      account.Gender(req.Gender),
	}, image)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Profile updated", gin.H{"userData": newAccountView(a)})
}

func (h *UserHandler) BookAppointment(c *gin.Context) {
	var req bookRequest
	if !bind(c, &req) {
		return
	}
	docID, ok := parseID(c, req.DocID, "docId")
	if !ok {
		return
	}

	a, err := h.appointments.Book(c.Request.Context(), &appointment.BookCommand{
		AccountID:      callerClaims(c).SubjectID,
		PractitionerID: docID,
		SlotDate:       req.SlotDate,
		SlotTime:       req.SlotTime,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Appointment Booked", gin.H{"appointmentId": a.ID.String()})
}

func (h *UserHandler) ListAppointments(c *gin.Context) {
	list, err := h.appointments.ListForAccount(c.Request.Context(), callerClaims(c).SubjectID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "", gin.H{"appointments": newAppointmentDetailViews(list)})
}

func (h *UserHandler) CancelAppointment(c *gin.Context) {
	var req appointmentRequest
	if !bind(c, &req) {
		return
	}
	id, ok := parseID(c, req.AppointmentID, "appointmentId")
	if !ok {
		return
	}

	if _, err := h.appointments.Transition(c.Request.Context(), id, appointment.StatusCancelled, callerClaims(c)); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Appointment cancelled", nil)
}

func (h *UserHandler) GeneratePaymentQR(c *gin.Context) {
	var req appointmentRequest
	if !bind(c, &req) {
		return
	}
	id, ok := parseID(c, req.AppointmentID, "appointmentId")
	if !ok {
		return
	}

	qr, amount, err := h.appointments.PaymentCode(c.Request.Context(), callerClaims(c).SubjectID, id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "", gin.H{"qrCode": qr, "amount": amount})
}

func (h *UserHandler) VerifyPayment(c *gin.Context) {
	var req appointmentRequest
	if !bind(c, &req) {
		return
	}
	id, ok := parseID(c, req.AppointmentID, "appointmentId")
	if !ok {
		return
	}

	a, err := h.appointments.MarkPaid(c.Request.Context(), callerClaims(c).SubjectID, id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, "Payment verified", gin.H{"appointment": newAppointmentView(a)})
}
