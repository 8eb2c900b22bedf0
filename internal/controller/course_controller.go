package controller

import (
	"github.com/gin-gonic/gin"

	"curiolearn_backend/internal/model"
	"curiolearn_backend/internal/service"
	"curiolearn_backend/internal/util"
)

type CourseController struct {
	CreationService   *service.CourseCreationService
	EnrollmentService *service.EnrollmentService
}

func NewCourseController(creation *service.CourseCreationService, enrollment *service.EnrollmentService) *CourseController {
	return &CourseController{CreationService: creation, EnrollmentService: enrollment}
}

// CreateCourseRequest defines the course creation payload
// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Complexity string `json:"complexity" binding:"required"`
}

// EnrollRequest defines the enrollment payload
// swagger:model EnrollRequest
type EnrollRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}

// CreateCourse godoc
// @Summary Generate a course for a topic, or reuse a near-identical one
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCourseRequest true "topic and complexity"
// @Success 201 {object} util.Response{data=service.CreateCourseResult}
// @Failure 400 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	complexity := model.Complexity(req.Complexity)
	if !complexity.Valid() {
		util.BadRequest(ctx, "unknown complexity level: "+req.Complexity)
		return
	}

	result, err := c.CreationService.CreateOrEnroll(ctx.Request.Context(), claims.UserID, req.Topic, complexity)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// AvailableCourses godoc
// @Summary Courses the user has not enrolled in
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.CourseSummary}
// @Router /api/courses/available [get]
func (c *CourseController) AvailableCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courses, err := c.EnrollmentService.AvailableCourses(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// EnrolledCourses godoc
// @Summary Courses the user is enrolled in, most recently touched first
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.CourseSummary}
// @Router /api/courses/enrolled [get]
func (c *CourseController) EnrolledCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courses, err := c.EnrollmentService.EnrolledCourses(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Enroll godoc
// @Summary Enroll in an existing course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EnrollRequest true "course to enroll in"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.EnrollmentService.EnrollInCourse(ctx.Request.Context(), req.CourseID, claims.UserID); err != nil {
		util.DomainError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courseId": req.CourseID})
}
