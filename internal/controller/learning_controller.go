package controller

import (
	"github.com/gin-gonic/gin"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/internal/service"
	"curiolearn_backend/internal/util"
)

type LearningController struct {
	LearningService  *service.LearningService
	ProgressService  *service.ProgressService
	HierarchyService *service.HierarchyService
}

func NewLearningController(learning *service.LearningService, progress *service.ProgressService, hierarchy *service.HierarchyService) *LearningController {
	return &LearningController{
		LearningService:  learning,
		ProgressService:  progress,
		HierarchyService: hierarchy,
	}
}

// FinishContentRequest defines the completion payload
// swagger:model FinishContentRequest
type FinishContentRequest struct {
	CourseID  string `json:"courseId" binding:"required"`
	ContentID string `json:"contentId" binding:"required"`
	Type      string `json:"type" binding:"required"`
}

// Learn godoc
// @Summary What the user should see next in a course
// @Description Returns the current content node, or the detail of an explicitly requested question.
// @Tags learning
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "course id"
// @Param questionId query string false "question to expand instead of sequencing"
// @Success 200 {object} util.Response{data=model.LearnResponse}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/learn/{courseId} [get]
func (c *LearningController) Learn(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := ctx.Param("courseId")
	questionID := ctx.Query("questionId")

	resp, err := c.LearningService.GetLearningContent(ctx.Request.Context(), courseID, claims.UserID, questionID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// FinishContent godoc
// @Summary Mark a chapter or sub-content as finished
// @Description Idempotent; questions under the node are marked answered in the same transaction.
// @Tags learning
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body FinishContentRequest true "node to finish"
// @Success 200 {object} util.Response{data=model.FinishResult}
// @Failure 404 {object} util.Response
// @Router /api/courses/finish-content [post]
func (c *LearningController) FinishContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req FinishContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	typ := model.ContentType(req.Type)
	if !typ.Valid() {
		util.BadRequest(ctx, "unknown content type: "+req.Type)
		return
	}

	result, err := c.ProgressService.MarkContentFinished(ctx.Request.Context(), req.CourseID, claims.UserID, req.ContentID, typ)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ResetProgress godoc
// @Summary Delete the user's progress in a course
// @Description Removes completion and answer marks; enrollment and content survive.
// @Tags learning
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "course id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/courses/{courseId}/progress [delete]
func (c *LearningController) ResetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := ctx.Param("courseId")
	if err := c.ProgressService.ResetCourseProgress(ctx.Request.Context(), courseID, claims.UserID); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courseId": courseID})
}

// Hierarchy godoc
// @Summary Flattened course tree in reading order
// @Tags learning
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "course id"
// @Param currentId query string false "content node to flag as current"
// @Success 200 {object} util.Response{data=[]model.HierarchyItem}
// @Router /api/courses/{courseId}/hierarchy [get]
func (c *LearningController) Hierarchy(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := ctx.Param("courseId")
	currentID := ctx.Query("currentId")

	hierarchy, err := c.HierarchyService.CourseHierarchy(ctx.Request.Context(), courseID, currentID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, hierarchy)
}
