package handler

import (
	"net/http"

	"anoa.com/ideaboard/internal/modules/review/dto"
	"anoa.com/ideaboard/internal/modules/review/service"
	commonDto "anoa.com/ideaboard/pkg/dto"
	"anoa.com/ideaboard/pkg/response"
	"anoa.com/ideaboard/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	service service.ReviewService
}

func NewReviewHandler(service service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) GetAllIdeasForReview(c *gin.Context) {
	ideas, err := h.service.GetAllIdeasForReview(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ideas})
}

func (h *ReviewHandler) GetIdeasByStatus(c *gin.Context) {
	ideas, err := h.service.GetIdeasByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ideas})
}

func (h *ReviewHandler) GetIdeaForReview(c *gin.Context) {
	ideaID, ok := bindIdeaID(c)
	if !ok {
		return
	}

	res, err := h.service.GetIdeaForReview(c.Request.Context(), ideaID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReviewHandler) ChangeIdeaStatus(c *gin.Context) {
	managerID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ideaID, ok := bindIdeaID(c)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.ChangeIdeaStatus(c.Request.Context(), ideaID, managerID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReviewHandler) SubmitFeedback(c *gin.Context) {
	managerID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ideaID, ok := bindIdeaID(c)
	if !ok {
		return
	}

	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.SubmitFeedback(c.Request.Context(), ideaID, managerID, req.Feedback)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ReviewHandler) GetReviewByID(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	res, err := h.service.GetReviewByID(c.Request.Context(), uuid.MustParse(uri.ID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReviewHandler) GetReviewsForIdea(c *gin.Context) {
	ideaID, ok := bindIdeaID(c)
	if !ok {
		return
	}

	reviews, err := h.service.GetReviewsForIdea(c.Request.Context(), ideaID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reviews})
}

func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	managerID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	reviews, err := h.service.GetMyReviews(c.Request.Context(), managerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reviews})
}

func bindIdeaID(c *gin.Context) (uuid.UUID, bool) {
	var uri commonDto.IdeaIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid idea id")
		return uuid.Nil, false
	}
	return uuid.MustParse(uri.IdeaID), true
}
