package controller

import (
	"strconv"

	"skillify_backend/internal/course"
	"skillify_backend/internal/service"
	"skillify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VideoController struct {
	ProgressService *service.ProgressService
	VideoService    *service.VideoService
	Catalog         *course.Catalog
}

func NewVideoController(progressService *service.ProgressService, videoService *service.VideoService, catalog *course.Catalog) *VideoController {
	return &VideoController{
		ProgressService: progressService,
		VideoService:    videoService,
		Catalog:         catalog,
	}
}

type ProgressRequest struct {
	VideoID        string `json:"videoId" binding:"required,max=64"`
	CourseFile     string `json:"courseFile" binding:"required,max=100"`
	ModuleIndex    int    `json:"moduleIndex"`
	WatchedPercent int    `json:"watchedPercent"`
}

type LikeRequest struct {
	VideoID string `json:"videoId" binding:"required,max=64"`
}

type CommentRequest struct {
	VideoID string `json:"videoId" binding:"required,max=64"`
	Content string `json:"content" binding:"required,max=5000"`
}

// ReportProgress godoc
// @Summary Report how much of a video was watched
// @Description Completion is reached at 90%. The first completion of a video awards 100 XP exactly once.
// @Tags Video
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ProgressRequest true "watch report"
// @Success 200 {object} util.Response{data=service.ProgressResult}
// @Router /api/video/progress [post]
func (c *VideoController) ReportProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.ReportProgress(ctx.Request.Context(), userID, service.ProgressReport{
		VideoID:        req.VideoID,
		CourseFile:     req.CourseFile,
		ModuleIndex:    req.ModuleIndex,
		WatchedPercent: req.WatchedPercent,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	msg := "Progress saved"
	if result.JustCompleted {
		msg = "Video completed! +100 XP"
	}
	util.SuccessWithMessage(ctx, msg, gin.H{
		"progress":      result.Progress,
		"justCompleted": result.JustCompleted,
		"xpAwarded":     result.XPAwarded,
		"stats":         result.Stats,
		"nextUnlocked":  result.Progress.Completed,
	})
}

func (c *VideoController) GetProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	rows, err := c.ProgressService.GetProgress(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// GetCourseProgress godoc
// @Summary Progress and lock state of every video in a course
// @Tags Video
// @Produce json
// @Security BearerAuth
// @Param courseFile path string true "course key, e.g. web.html"
// @Success 200 {object} util.Response{data=service.CourseProgress}
// @Failure 404 {object} util.Response "unknown course"
// @Router /api/video/progress/{courseFile} [get]
func (c *VideoController) GetCourseProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	out, err := c.ProgressService.GetCourseProgress(userID, ctx.Param("courseFile"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

func (c *VideoController) IsUnlocked(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "index must be a number")
		return
	}
	unlocked, err := c.ProgressService.IsUnlocked(userID, ctx.Param("courseFile"), index)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unlocked": unlocked})
}

func (c *VideoController) ToggleLike(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req LikeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	liked, err := c.VideoService.ToggleLike(ctx.Request.Context(), userID, req.VideoID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"liked": liked})
}

func (c *VideoController) CountLikes(ctx *gin.Context) {
	count, err := c.VideoService.CountLikes(ctx.Param("videoId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"count": count})
}

func (c *VideoController) IsLiked(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	liked, err := c.VideoService.IsLiked(userID, ctx.Param("videoId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"liked": liked})
}

func (c *VideoController) AddComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	comment, err := c.VideoService.AddComment(ctx.Request.Context(), userID, req.VideoID, req.Content)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, comment)
}

func (c *VideoController) Comments(ctx *gin.Context) {
	comments, err := c.VideoService.Comments(ctx.Param("videoId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, comments)
}

func (c *VideoController) DeleteComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.VideoService.DeleteComment(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Comment deleted", nil)
}

// Courses lists the catalog in unlock order.
func (c *VideoController) Courses(ctx *gin.Context) {
	keys := c.Catalog.Keys()
	courses := make([]course.Course, 0, len(keys))
	for _, key := range keys {
		if co, err := c.Catalog.Get(key); err == nil {
			courses = append(courses, co)
		}
	}
	util.Success(ctx, courses)
}
