package handler

import (
	"net/http"

	"anoa.com/ideaboard/internal/modules/idea/dto"
	"anoa.com/ideaboard/internal/modules/idea/service"
	commonDto "anoa.com/ideaboard/pkg/dto"
	"anoa.com/ideaboard/pkg/response"
	"anoa.com/ideaboard/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IdeaHandler struct {
	service service.IdeaService
}

func NewIdeaHandler(service service.IdeaService) *IdeaHandler {
	return &IdeaHandler{service: service}
}

func (h *IdeaHandler) SubmitIdea(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SubmitIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.SubmitIdea(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *IdeaHandler) GetAllIdeas(c *gin.Context) {
	var query commonDto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.GetAllIdeas(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *IdeaHandler) GetMyIdeas(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ideas, err := h.service.GetMyIdeas(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ideas})
}

func (h *IdeaHandler) GetIdeaByID(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	res, err := h.service.GetIdeaByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *IdeaHandler) SearchIdeas(c *gin.Context) {
	var query dto.SearchIdeaQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	ideas, err := h.service.SearchIdeas(c.Request.Context(), query.Query, query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ideas})
}

func (h *IdeaHandler) UpdateIdea(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.UpdateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.UpdateIdea(c.Request.Context(), id, userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *IdeaHandler) DeleteIdea(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteIdea(c.Request.Context(), id, userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Idea deleted successfully"})
}

func bindID(c *gin.Context) (uuid.UUID, bool) {
	var req commonDto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid idea id")
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}
