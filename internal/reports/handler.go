package reports

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ATS-backend/internal/attendance"
	"ATS-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts the dashboard and manager endpoints. r must carry
// RequireAuth; mgr must additionally carry RequireRole(manager) — the role
// gate plus the service-side department scope together form the access
// policy.
func RegisterRoutes(r gin.IRoutes, mgr gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/dashboard/employee", h.EmployeeDashboard)

	mgr.GET("/dashboard/manager", h.ManagerDashboard)
	mgr.GET("/manager/records", h.AllRecords)
	mgr.PUT("/manager/records/:record_id", h.UpdateRecord)
	mgr.GET("/manager/calendar/:month", h.Calendar)
	mgr.GET("/manager/export", h.Export)
	mgr.GET("/manager/employees", h.Employees)
}

func callerID(c *gin.Context) string {
	return c.GetString(auth.CtxUserIDKey)
}

func filtersFromQuery(c *gin.Context) Filters {
	return Filters{
		Employee:   c.Query("employee"),
		Department: c.Query("department"),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
		Status:     c.Query("status"),
	}
}

func (h *Handler) EmployeeDashboard(c *gin.Context) {
	res, err := h.svc.EmployeeDashboard(c.Request.Context(), callerID(c))
	if err != nil {
		c.JSON(attendance.ToHTTPStatus(err), attendance.APIErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ManagerDashboard(c *gin.Context) {
	res, err := h.svc.ManagerDashboard(c.Request.Context(), callerID(c))
	if err != nil {
		c.JSON(attendance.ToHTTPStatus(err), attendance.APIErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) AllRecords(c *gin.Context) {
	res, err := h.svc.AllRecords(c.Request.Context(), callerID(c), filtersFromQuery(c))
	if err != nil {
		c.JSON(attendance.ToHTTPStatus(err), attendance.APIErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res, "total": len(res)})
}

func (h *Handler) UpdateRecord(c *gin.Context) {
	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, attendance.ErrInvalid("invalid json"))
		return
	}
	res, err := h.svc.UpdateRecord(c.Request.Context(), callerID(c), c.Param("record_id"), req)
	if err != nil {
		c.JSON(attendance.ToHTTPStatus(err), attendance.APIErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Calendar(c *gin.Context) {
	res, err := h.svc.Calendar(c.Request.Context(), callerID(c), c.Param("month"))
	if err != nil {
		c.JSON(attendance.ToHTTPStatus(err), attendance.APIErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Export(c *gin.Context) {
	out, err := h.svc.ExportCSV(c.Request.Context(), callerID(c), filtersFromQuery(c), c.Query("encoding"))
	if err != nil {
		c.JSON(attendance.ToHTTPStatus(err), attendance.APIErrFrom(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename=attendance_report.csv`)
	c.Data(http.StatusOK, "text/csv", out)
}

func (h *Handler) Employees(c *gin.Context) {
	res, err := h.svc.Employees(c.Request.Context(), callerID(c))
	if err != nil {
		c.JSON(attendance.ToHTTPStatus(err), attendance.APIErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res, "total": len(res)})
}
