package v1

import (
	"errors"
	"net/http"

	"marketing-site/internal/delivery/http/response"
	"marketing-site/internal/domain"
	"marketing-site/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, limit gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/contact", limit, handler.SubmitContact)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validate a contact message and forward it to the contact backend. This is a public endpoint.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactSubmission  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response{error=map[string]string}
// @Failure      502      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	if err := h.contactUC.Submit(c.Request.Context(), &req); err != nil {
		c.Error(submitError(err))
		return
	}

	response.Success(c, http.StatusOK, domain.SubmitSuccessMessage, nil)
}

// submitError maps a failed submit to the client-facing error
func submitError(err error) *apperror.AppError {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return apperror.Validation("Please correct the highlighted fields", verr.Fields)
	}
	var be *domain.BackendError
	if errors.As(err, &be) {
		return apperror.BadGateway(be.Message, err)
	}
	return apperror.BadGateway(domain.SubmitTransportMessage, err)
}
