package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"progresstracker/internal/model"
	"progresstracker/internal/service"
	"progresstracker/pkg/logger"
)

type ProgressHandler struct {
	svc    *service.ProgressService
	logger *zap.Logger
}

func NewProgressHandler(svc *service.ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{svc: svc, logger: logger}
}

type progressListQuery struct {
	ProjectCode string `form:"projectCode"`
	Reporter    string `form:"reporter"`
	StartDate   string `form:"startDate"`
	EndDate     string `form:"endDate"`
	NeedHelp    string `form:"needHelp"`
	Search      string `form:"search"`
	SortBy      string `form:"sortBy"`
	SortOrder   string `form:"sortOrder"`
	Paging
}

type scopedQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	SortOrder string `form:"sortOrder"`
	Limit     *int   `form:"limit" binding:"omitempty,min=1"`
}

type needHelpQuery struct {
	ProjectCode string `form:"projectCode"`
	Limit       *int   `form:"limit" binding:"omitempty,min=1"`
}

type batchHelpRequest struct {
	ProgressIDs []any  `json:"progressIds"`
	NeedHelp    string `json:"needHelp"`
}

var progressFailures = failureMessages{
	notFound:    MsgProgressNotFound,
	persistence: "failed to save progress report",
}

func (h *ProgressHandler) ListProgress(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("ListProgress request received",
		zap.String("query", c.Request.URL.RawQuery),
		zap.String("client_ip", c.ClientIP()),
	)

	var q progressListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		log.Warn("ListProgress: invalid query", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgInvalidQuery, nil)
		return
	}

	res := h.svc.List(c.Request.Context(), service.ProgressListParams{
		ProjectCode: q.ProjectCode,
		Reporter:    q.Reporter,
		StartDate:   q.StartDate,
		EndDate:     q.EndDate,
		NeedHelp:    q.NeedHelp,
		Search:      q.Search,
		SortBy:      q.SortBy,
		SortOrder:   q.SortOrder,
		Page:        q.page(),
		Limit:       q.limit(),
	})

	log.Info("ListProgress: success", zap.Int("total", res.Total), zap.Int("returned", len(res.Items)))
	respond(c, http.StatusOK, res.Items, gin.H{"pagination": res.Pagination})
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	idStr := c.Param("id")
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("GetProgress request received", zap.String("progress_id", idStr))

	id, ok := parseID(idStr)
	if !ok {
		log.Warn("GetProgress: invalid id format", zap.String("progress_id", idStr))
		fail(c, http.StatusBadRequest, MsgInvalidProgressID, nil)
		return
	}

	r, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, log, "GetProgress", err, progressFailures)
		return
	}
	respond(c, http.StatusOK, r, nil)
}

func (h *ProgressHandler) CreateProgress(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("CreateProgress request received", zap.String("client_ip", c.ClientIP()))

	var in model.ProgressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		log.Warn("CreateProgress: invalid request body", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgInvalidBody, nil)
		return
	}

	r, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, log, "CreateProgress", err, progressFailures)
		return
	}

	log.Info("CreateProgress: success",
		zap.Int64("progress_id", r.ID),
		zap.String("project_code", r.ProjectCode),
	)
	respond(c, http.StatusCreated, r, gin.H{"message": "progress report created"})
}

func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	idStr := c.Param("id")
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("UpdateProgress request received", zap.String("progress_id", idStr))

	id, ok := parseID(idStr)
	if !ok {
		log.Warn("UpdateProgress: invalid id format", zap.String("progress_id", idStr))
		fail(c, http.StatusBadRequest, MsgInvalidProgressID, nil)
		return
	}

	var patch model.ProgressPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		log.Warn("UpdateProgress: invalid request body", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgInvalidBody, nil)
		return
	}

	r, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, log, "UpdateProgress", err, progressFailures)
		return
	}

	log.Info("UpdateProgress: success", zap.Int64("progress_id", id))
	respond(c, http.StatusOK, r, gin.H{"message": "progress report updated"})
}

func (h *ProgressHandler) DeleteProgress(c *gin.Context) {
	idStr := c.Param("id")
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("DeleteProgress request received", zap.String("progress_id", idStr))

	id, ok := parseID(idStr)
	if !ok {
		log.Warn("DeleteProgress: invalid id format", zap.String("progress_id", idStr))
		fail(c, http.StatusBadRequest, MsgInvalidProgressID, nil)
		return
	}

	r, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, log, "DeleteProgress", err, progressFailures)
		return
	}

	log.Info("DeleteProgress: success", zap.Int64("progress_id", id))
	respond(c, http.StatusOK, r, gin.H{"message": "progress report deleted"})
}

func (h *ProgressHandler) ListByProject(c *gin.Context) {
	code := c.Param("projectCode")
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("ListByProject request received", zap.String("project_code", code))

	var q scopedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		log.Warn("ListByProject: invalid query", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgInvalidQuery, nil)
		return
	}

	items, err := h.svc.ListByProject(c.Request.Context(), code, deref(q.Limit), q.SortOrder)
	if err != nil {
		writeError(c, log, "ListByProject", err, failureMessages{notFound: MsgProjectNotFound})
		return
	}
	respond(c, http.StatusOK, items, gin.H{"total": len(items)})
}

func (h *ProgressHandler) ListByReporter(c *gin.Context) {
	reporter := c.Param("reporter")
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("ListByReporter request received", zap.String("reporter", reporter))

	var q scopedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		log.Warn("ListByReporter: invalid query", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgInvalidQuery, nil)
		return
	}

	items := h.svc.ListByReporter(c.Request.Context(), reporter, q.StartDate, q.EndDate, deref(q.Limit), q.SortOrder)
	respond(c, http.StatusOK, items, gin.H{"total": len(items)})
}

func (h *ProgressHandler) NeedHelp(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("NeedHelp request received", zap.String("query", c.Request.URL.RawQuery))

	var q needHelpQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		log.Warn("NeedHelp: invalid query", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgInvalidQuery, nil)
		return
	}

	items := h.svc.NeedHelp(c.Request.Context(), q.ProjectCode, deref(q.Limit))
	respond(c, http.StatusOK, items, gin.H{"total": len(items)})
}

func (h *ProgressHandler) BatchUpdateNeedHelp(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("BatchUpdateNeedHelp request received", zap.String("client_ip", c.ClientIP()))

	var req batchHelpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("BatchUpdateNeedHelp: invalid request body", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgInvalidBody, nil)
		return
	}

	updated, err := h.svc.BatchUpdateNeedHelp(c.Request.Context(), toIDs(req.ProgressIDs), req.NeedHelp)
	if err != nil {
		writeError(c, log, "BatchUpdateNeedHelp", err, progressFailures)
		return
	}

	log.Info("BatchUpdateNeedHelp: success",
		zap.Int("requested", len(req.ProgressIDs)),
		zap.Int("updated", len(updated)),
	)
	respond(c, http.StatusOK, updated, gin.H{
		"message":      fmt.Sprintf("updated need-help flag of %d progress reports", len(updated)),
		"updatedCount": len(updated),
	})
}

func (h *ProgressHandler) Summary(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("ProgressSummary request received")
	respond(c, http.StatusOK, h.svc.Summary(c.Request.Context()), nil)
}
