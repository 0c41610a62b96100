package v1

import (
	"encoding/json"
	"errors"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/service"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/media"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgFieldsRequired = "All fields are required"
	msgInternal       = "something went wrong, please try again"
)

// Every response is {success, message?, <payload>...}. Failures use HTTP
// 200 apart from missing required fields, which is a 400.

func respondOK(c *gin.Context, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func respondFail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

func respondFieldsRequired(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgFieldsRequired})
}

func respondServiceError(c *gin.Context, log *zap.Logger, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		respondFail(c, strings.Join(validErr.Fields, "; "))
		return
	}

	switch {
	case errors.Is(err, service.ErrFieldsRequired):
		respondFieldsRequired(c)

	case errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, practitioner.ErrPractitionerNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound):
		respondFail(c, err.Error())

	case errors.Is(err, account.ErrEmailTaken),
		errors.Is(err, practitioner.ErrEmailTaken):
		respondFail(c, err.Error())

	case errors.Is(err, practitioner.ErrPractitionerUnavailable),
		errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrInvalidTargetStatus),
		errors.Is(err, account.ErrInvalidGender),
		errors.Is(err, practitioner.ErrInvalidFee),
		errors.Is(err, practitioner.ErrImageRequired):
		respondFail(c, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		respondFail(c, "Invalid credentials")

	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenRoleMismatch):
		respondFail(c, err.Error())

	default:
		log.Error("request failed",
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		respondFail(c, msgInternal)
	}
}

// bind decodes the body into obj. Missing required fields answer 400;
// anything else malformed answers the regular failure envelope.
func bind(c *gin.Context, obj any) bool {
	err := c.ShouldBind(obj)
	if err == nil {
		return true
	}

	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		respondFail(c, strings.Join(validErr.Fields, "; "))
		return false
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				respondFieldsRequired(c)
				return false
			}
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, "invalid "+strings.ToLower(fe.Field()))
		}
		respondFail(c, strings.Join(fields, "; "))
		return false
	}

	respondFail(c, "invalid request: "+err.Error())
	return false
}

func parseID(c *gin.Context, raw, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		respondFail(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func callerClaims(c *gin.Context) *domain.Claims {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		// The route was registered without its Require middleware.
		panic("handler reached without claims")
	}
	return claims
}

// parseAddress accepts the address as a JSON object, either as a form
// string or already decoded.
func parseAddress(raw string) (domain.Address, error) {
	var addr domain.Address
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return addr, nil
	}
	if err := json.Unmarshal([]byte(raw), &addr); err != nil {
		return addr, &service.ValidationError{Fields: []string{"address must be a JSON object with line1 and line2"}}
	}
	return addr, nil
}

func parseFees(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	fees, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		return fees, nil
	}
	// Clients sometimes send "500.0"; anything with a fraction is refused.
	f, ferr := strconv.ParseFloat(raw, 64)
	if ferr != nil {
		return 0, &service.ValidationError{Fields: []string{"fees must be a number"}}
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/2 {
		return 0, &service.ValidationError{Fields: []string{"fees must be a whole amount"}}
	}
	return int64(f), nil
}

// formImage reads the optional image part of a multipart request. The
// returned closer is never nil.
func formImage(c *gin.Context, field string, maxSize int64) (*media.Object, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, &service.ValidationError{Fields: []string{"could not read image upload"}}
	}
	if maxSize > 0 && fh.Size > maxSize {
		return nil, noop, &service.ValidationError{Fields: []string{"image is too large"}}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &media.Object{
		ContentType: contentType(fh),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
