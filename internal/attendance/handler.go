package attendance

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ATS-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts the employee-facing attendance endpoints. The group
// must already carry RequireAuth.
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/attendance/checkin", h.CheckIn)
	r.POST("/attendance/checkout", h.CheckOut)
	r.GET("/attendance/history", h.History)
	r.GET("/attendance/summary/:month", h.MonthlySummary)
	r.GET("/attendance/today", h.TodayStatus)
}

func callerID(c *gin.Context) string {
	return c.GetString(auth.CtxUserIDKey)
}

func (h *Handler) CheckIn(c *gin.Context) {
	res, err := h.svc.CheckIn(c.Request.Context(), callerID(c))
	if err != nil {
		c.JSON(ToHTTPStatus(err), APIErrFrom(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) CheckOut(c *gin.Context) {
	res, err := h.svc.CheckOut(c.Request.Context(), callerID(c))
	if err != nil {
		c.JSON(ToHTTPStatus(err), APIErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) History(c *gin.Context) {
	res, err := h.svc.History(c.Request.Context(), callerID(c))
	if err != nil {
		c.JSON(ToHTTPStatus(err), APIErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res, "total": len(res)})
}

func (h *Handler) MonthlySummary(c *gin.Context) {
	res, err := h.svc.MonthlySummary(c.Request.Context(), callerID(c), c.Param("month"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), APIErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) TodayStatus(c *gin.Context) {
	res, err := h.svc.TodayStatus(c.Request.Context(), callerID(c))
	if err != nil {
		c.JSON(ToHTTPStatus(err), APIErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}
