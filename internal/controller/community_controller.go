package controller

import (
	"skillify_backend/internal/service"
	"skillify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CommunityController struct {
	CommunityService *service.CommunityService
}

func NewCommunityController(communityService *service.CommunityService) *CommunityController {
	return &CommunityController{CommunityService: communityService}
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// ListPosts godoc
// @Summary Community feed, newest first
// @Tags Community
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/community [get]
func (c *CommunityController) ListPosts(ctx *gin.Context) {
	page, limit := util.PageParams(ctx)
	posts, total, err := c.CommunityService.ListPosts(page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPage(posts, total, page, limit))
}

func (c *CommunityController) CreatePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	post, err := c.CommunityService.CreatePost(userID, req.Content)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, post)
}
