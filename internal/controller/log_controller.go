package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"logreader-backend/internal/dto"
	"logreader-backend/internal/logfile"
	"logreader-backend/internal/model"
	"logreader-backend/internal/reader"
	"logreader-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type LogController struct {
	logReaderService service.LogReaderService
}

func NewLogController(logReaderService service.LogReaderService) *LogController {
	return &LogController{
		logReaderService: logReaderService,
	}
}

func RegisterLogRoutes(router *gin.Engine, controller *LogController) {
	v1 := router.Group("/api/v1/logs")
	{
		v1.GET("", controller.GetLogs)
		v1.DELETE("", controller.DeleteLogs)
		v1.POST("/read", controller.MarkAllRead)
		v1.POST("/collapse", controller.Collapse)
		v1.GET("/files", controller.GetFiles)
		v1.DELETE("/files", controller.RemoveFiles)
		v1.GET("/classes", controller.GetClasses)
		v1.GET("/:id", controller.GetLog)
		v1.DELETE("/:id", controller.DeleteLog)
		v1.POST("/:id/read", controller.MarkRead)
	}
}

func parseListRequest(ctx *gin.Context) dto.LogListRequest {
	var levels []string
	if levelsStr := ctx.Query("levels"); levelsStr != "" {
		levels = reader.ParseLevels(levelsStr)
	}
	withRead, _ := strconv.ParseBool(ctx.DefaultQuery("withRead", "false"))
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.DefaultQuery("size", strconv.Itoa(reader.DefaultPerPage)))
	if err != nil || size <= 0 {
		size = reader.DefaultPerPage
	}
	return dto.LogListRequest{
		Filename:    ctx.Query("filename"),
		Environment: ctx.Query("environment"),
		Levels:      levels,
		Class:       ctx.Query("class"),
		IncludeRead: withRead,
		OrderBy:     ctx.Query("orderBy"),
		Direction:   strings.ToLower(ctx.Query("direction")),
		Page:        page,
		Size:        size,
	}
}

func respondError(ctx *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, reader.ErrEntryNotFound):
		ctx.JSON(http.StatusNotFound, model.NewResponse("Log entry not found", nil))
	case errors.Is(err, logfile.ErrFilesUnavailable):
		log.Error().Err(err).Msg(message)
		ctx.JSON(http.StatusServiceUnavailable, model.NewResponse("Log files are unavailable", nil))
	default:
		log.Error().Err(err).Msg(message)
		ctx.JSON(http.StatusInternalServerError, model.NewResponse(message, nil))
	}
}

// GetLogs godoc
// @Summary      List and filter log entries
// @Description  Parses the configured log files and returns entries filtered by environment, levels, class and read state. Supports ordering and pagination.
// @Tags         logs
// @Produce      json
// @Param        filename     query     string  false  "Filename glob inside the log directory"
// @Param        environment  query     string  false  "Environment name (e.g., local, production)"
// @Param        levels       query     string  false  "Comma-separated list of levels (e.g., ERROR,WARNING)"
// @Param        class        query     string  false  "Exact class marker"
// @Param        withRead     query     bool    false  "Include entries already marked as read"
// @Param        orderBy      query     string  false  "Field to order by" Enums(id, date, level, class, environment, file_path)
// @Param        direction    query     string  false  "Order direction (default: asc)" Enums(asc, desc)
// @Param        page         query     int     false  "Page number (default: 1)" minimum(1)
// @Param        size         query     int     false  "Entries per page (default: 25, max: 1000)" minimum(1) maximum(1000)
// @Success      200          {object}  dto.LogListResponse
// @Failure      503          {object}  model.Response "Log files unavailable"
// @Failure      500          {object}  model.Response "Internal server error"
// @Router       /api/v1/logs [get]
func (c *LogController) GetLogs(ctx *gin.Context) {
	result, err := c.logReaderService.ListLogs(ctx.Request.Context(), parseListRequest(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to list logs")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetLog godoc
// @Summary      Get one log entry
// @Tags         logs
// @Produce      json
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  dto.LogEntryResponse
// @Failure      404  {object}  model.Response "Log entry not found"
// @Router       /api/v1/logs/{id} [get]
func (c *LogController) GetLog(ctx *gin.Context) {
	result, err := c.logReaderService.GetLog(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "Failed to get log entry")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// MarkRead godoc
// @Summary      Mark one log entry as read
// @Tags         logs
// @Produce      json
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  dto.CountResponse "Count is 0 when the entry was already read"
// @Failure      404  {object}  model.Response "Log entry not found"
// @Router       /api/v1/logs/{id}/read [post]
func (c *LogController) MarkRead(ctx *gin.Context) {
	changed, err := c.logReaderService.MarkRead(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "Failed to mark log entry as read")
		return
	}
	ctx.JSON(http.StatusOK, dto.CountResponse{Count: boolCount(changed)})
}

// MarkAllRead godoc
// @Summary      Mark every matching log entry as read
// @Tags         logs
// @Produce      json
// @Param        filename     query     string  false  "Filename glob inside the log directory"
// @Param        environment  query     string  false  "Environment name"
// @Param        levels       query     string  false  "Comma-separated list of levels"
// @Param        class        query     string  false  "Exact class marker"
// @Success      200          {object}  dto.CountResponse
// @Router       /api/v1/logs/read [post]
func (c *LogController) MarkAllRead(ctx *gin.Context) {
	count, err := c.logReaderService.MarkAllRead(ctx.Request.Context(), parseListRequest(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to mark log entries as read")
		return
	}
	ctx.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

// DeleteLog godoc
// @Summary      Delete one log entry from its file
// @Tags         logs
// @Produce      json
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  dto.CountResponse "Count is 0 when the entry text was no longer in the file"
// @Failure      404  {object}  model.Response "Log entry not found"
// @Router       /api/v1/logs/{id} [delete]
func (c *LogController) DeleteLog(ctx *gin.Context) {
	deleted, err := c.logReaderService.DeleteLog(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "Failed to delete log entry")
		return
	}
	ctx.JSON(http.StatusOK, dto.CountResponse{Count: boolCount(deleted)})
}

// DeleteLogs godoc
// @Summary      Delete every matching log entry
// @Description  Removes each matching entry from its file. Files themselves are kept.
// @Tags         logs
// @Produce      json
// @Param        filename     query     string  false  "Filename glob inside the log directory"
// @Param        environment  query     string  false  "Environment name"
// @Param        levels       query     string  false  "Comma-separated list of levels"
// @Param        class        query     string  false  "Exact class marker"
// @Param        withRead     query     bool    false  "Include entries already marked as read"
// @Success      200          {object}  dto.CountResponse
// @Router       /api/v1/logs [delete]
func (c *LogController) DeleteLogs(ctx *gin.Context) {
	count, err := c.logReaderService.DeleteAll(ctx.Request.Context(), parseListRequest(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to delete log entries")
		return
	}
	ctx.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

// GetFiles godoc
// @Summary      List log files
// @Tags         files
// @Produce      json
// @Param        pattern  query     string  false  "Filename glob (default: *.*)"
// @Success      200      {object}  dto.FilesResponse
// @Router       /api/v1/logs/files [get]
func (c *LogController) GetFiles(ctx *gin.Context) {
	files, err := c.logReaderService.ListFiles(ctx.Request.Context(), ctx.Query("pattern"))
	if err != nil {
		respondError(ctx, err, "Failed to list log files")
		return
	}
	ctx.JSON(http.StatusOK, dto.FilesResponse{Files: files})
}

// RemoveFiles godoc
// @Summary      Remove log files
// @Tags         files
// @Produce      json
// @Param        filename  query     string  false  "Filename glob (default: configured filename)"
// @Success      200       {object}  dto.PathsResponse
// @Router       /api/v1/logs/files [delete]
func (c *LogController) RemoveFiles(ctx *gin.Context) {
	removed, err := c.logReaderService.RemoveFiles(ctx.Request.Context(), ctx.Query("filename"))
	if err != nil {
		respondError(ctx, err, "Failed to remove log files")
		return
	}
	ctx.JSON(http.StatusOK, dto.PathsResponse{Count: len(removed), Paths: nonNil(removed)})
}

// GetClasses godoc
// @Summary      List distinct class markers
// @Tags         logs
// @Produce      json
// @Param        filename  query     string  false  "Filename glob inside the log directory"
// @Success      200       {object}  dto.ClassesResponse
// @Router       /api/v1/logs/classes [get]
func (c *LogController) GetClasses(ctx *gin.Context) {
	classes, err := c.logReaderService.ListClasses(ctx.Request.Context(), ctx.Query("filename"))
	if err != nil {
		respondError(ctx, err, "Failed to list classes")
		return
	}
	ctx.JSON(http.StatusOK, dto.ClassesResponse{Classes: nonNil(classes)})
}

// Collapse godoc
// @Summary      Collapse continuation entries
// @Description  Rewrites files whose entries contain "Next" continuation blocks so each block carries its canonical header.
// @Tags         files
// @Produce      json
// @Param        filename  query     string  false  "Filename glob inside the log directory"
// @Success      200       {object}  dto.PathsResponse
// @Router       /api/v1/logs/collapse [post]
func (c *LogController) Collapse(ctx *gin.Context) {
	collapsed, err := c.logReaderService.Collapse(ctx.Request.Context(), ctx.Query("filename"))
	if err != nil {
		respondError(ctx, err, "Failed to collapse log files")
		return
	}
	ctx.JSON(http.StatusOK, dto.PathsResponse{Count: len(collapsed), Paths: nonNil(collapsed)})
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
