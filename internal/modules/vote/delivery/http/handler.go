package handler

import (
	"net/http"

	"anoa.com/ideaboard/internal/modules/vote/dto"
	"anoa.com/ideaboard/internal/modules/vote/service"
	commonDto "anoa.com/ideaboard/pkg/dto"
	"anoa.com/ideaboard/pkg/response"
	"anoa.com/ideaboard/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VoteHandler struct {
	service service.VoteService
}

func NewVoteHandler(service service.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

func (h *VoteHandler) Upvote(c *gin.Context) {
	userID, ideaID, ok := bindCaller(c)
	if !ok {
		return
	}

	res, err := h.service.Upvote(c.Request.Context(), ideaID, userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *VoteHandler) Downvote(c *gin.Context) {
	userID, ideaID, ok := bindCaller(c)
	if !ok {
		return
	}

	var req dto.DownvoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.Downvote(c.Request.Context(), ideaID, userID, req.CommentText)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *VoteHandler) RemoveVote(c *gin.Context) {
	userID, ideaID, ok := bindCaller(c)
	if !ok {
		return
	}

	if err := h.service.RemoveVote(c.Request.Context(), ideaID, userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote removed successfully"})
}

func (h *VoteHandler) GetUserVoteStatus(c *gin.Context) {
	userID, ideaID, ok := bindCaller(c)
	if !ok {
		return
	}

	res, err := h.service.GetUserVoteStatus(c.Request.Context(), ideaID, userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *VoteHandler) GetVotesForIdea(c *gin.Context) {
	var uri commonDto.IdeaIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid idea id")
		return
	}

	votes, err := h.service.GetVotesForIdea(c.Request.Context(), uuid.MustParse(uri.IdeaID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": votes})
}

func bindCaller(c *gin.Context) (userID, ideaID uuid.UUID, ok bool) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	var uri commonDto.IdeaIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid idea id")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, uuid.MustParse(uri.IdeaID), true
}
