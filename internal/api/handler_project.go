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

type ProjectHandler struct {
	svc    *service.ProjectService
	logger *zap.Logger
}

func NewProjectHandler(svc *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{svc: svc, logger: logger}
}

type projectListQuery struct {
	Status    string `form:"status"`
	Owner     string `form:"owner"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
	Paging
}

type batchStatusRequest struct {
	ProjectIDs []any  `json:"projectIds"`
	Status     string `json:"status"`
}

var projectFailures = failureMessages{
	notFound:    MsgProjectNotFound,
	persistence: "failed to save project",
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("ListProjects request received",
		zap.String("query", c.Request.URL.RawQuery),
		zap.String("client_ip", c.ClientIP()),
	)

	var q projectListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		log.Warn("ListProjects: invalid query", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgInvalidQuery, nil)
		return
	}

	res := h.svc.List(c.Request.Context(), service.ProjectListParams{
		Status:    q.Status,
		Owner:     q.Owner,
		Search:    q.Search,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
		Page:      q.page(),
		Limit:     q.limit(),
	})

	log.Info("ListProjects: success", zap.Int("total", res.Total), zap.Int("returned", len(res.Items)))
	respond(c, http.StatusOK, res.Items, gin.H{"total": res.Total, "pagination": res.Pagination})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	code := c.Param("projectCode")
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("GetProject request received", zap.String("project_code", code))

	p, err := h.svc.GetByCode(c.Request.Context(), code)
	if err != nil {
		writeError(c, log, "GetProject", err, projectFailures)
		return
	}
	respond(c, http.StatusOK, p, nil)
}

func (h *ProjectHandler) GetProjectByID(c *gin.Context) {
	idStr := c.Param("id")
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("GetProjectByID request received", zap.String("project_id", idStr))

	id, ok := parseID(idStr)
	if !ok {
		log.Warn("GetProjectByID: invalid project id format", zap.String("project_id", idStr))
		fail(c, http.StatusBadRequest, MsgInvalidProjectID, nil)
		return
	}

	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, log, "GetProjectByID", err, projectFailures)
		return
	}
	respond(c, http.StatusOK, p, nil)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("CreateProject request received", zap.String("client_ip", c.ClientIP()))

	var in model.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		log.Warn("CreateProject: invalid request body", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgInvalidBody, nil)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, log, "CreateProject", err, projectFailures)
		return
	}

	log.Info("CreateProject: success", zap.Int64("project_id", p.ID), zap.String("project_code", p.ProjectCode))
	respond(c, http.StatusCreated, p, gin.H{"message": "project created"})
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	code := c.Param("projectCode")
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("UpdateProject request received", zap.String("project_code", code))

	var patch model.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		log.Warn("UpdateProject: invalid request body", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgInvalidBody, nil)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), code, patch)
	if err != nil {
		writeError(c, log, "UpdateProject", err, projectFailures)
		return
	}

	log.Info("UpdateProject: success", zap.Int64("project_id", p.ID))
	respond(c, http.StatusOK, p, gin.H{"message": "project updated"})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	idStr := c.Param("id")
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("DeleteProject request received", zap.String("project_id", idStr))

	id, ok := parseID(idStr)
	if !ok {
		log.Warn("DeleteProject: invalid project id format", zap.String("project_id", idStr))
		fail(c, http.StatusBadRequest, MsgInvalidProjectID, nil)
		return
	}

	p, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, log, "DeleteProject", err, projectFailures)
		return
	}

	log.Info("DeleteProject: success", zap.Int64("project_id", id))
	respond(c, http.StatusOK, p, gin.H{"message": "project deleted"})
}

func (h *ProjectHandler) BatchUpdateStatus(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("BatchUpdateStatus request received", zap.String("client_ip", c.ClientIP()))

	var req batchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("BatchUpdateStatus: invalid request body", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgInvalidBody, nil)
		return
	}

	updated, err := h.svc.BatchUpdateStatus(c.Request.Context(), toIDs(req.ProjectIDs), req.Status)
	if err != nil {
		writeError(c, log, "BatchUpdateStatus", err, projectFailures)
		return
	}

	log.Info("BatchUpdateStatus: success",
		zap.Int("requested", len(req.ProjectIDs)),
		zap.Int("updated", len(updated)),
	)
	respond(c, http.StatusOK, updated, gin.H{
		"message":      fmt.Sprintf("updated status of %d projects", len(updated)),
		"updatedCount": len(updated),
	})
}

func (h *ProjectHandler) Summary(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("ProjectSummary request received")
	respond(c, http.StatusOK, h.svc.Summary(c.Request.Context()), nil)
}
