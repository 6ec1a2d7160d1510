package v1

import (
	"errors"
	"net/http"

	"marketing-site/internal/delivery/http/response"
	"marketing-site/internal/domain"
	"marketing-site/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

// SubmissionsData is the payload of the submissions listing
type SubmissionsData struct {
	Contacts []domain.StoredContact `json:"contacts"`
}

// NewAdminHandler registers the submissions listing. The route carries no
// authentication, same as the page's admin button.
func NewAdminHandler(public *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	public.GET("/submissions", handler.ListSubmissions)
}

// ListSubmissions godoc
// @Summary      List contact submissions
// @Description  Returns stored submissions in backend order
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response{data=SubmissionsData}
// @Failure      502  {object}  response.Response
// @Router       /submissions [get]
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	contacts, err := h.adminUC.ListSubmissions(c.Request.Context())
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) {
			c.Error(apperror.BadGateway(be.Message, err))
			return
		}
		c.Error(apperror.BadGateway(domain.ListFailedMessage, err))
		return
	}

	response.Success(c, http.StatusOK, "Contact submissions", SubmissionsData{Contacts: contacts})
}
