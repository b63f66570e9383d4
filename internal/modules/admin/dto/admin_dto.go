package dto

import (
	"anoa.com/ideaboard/internal/entity"
	"github.com/google/uuid"
)

type UserResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Status string    `json:"status"`
}

type UserDetailResponse struct {
	UserResponse
	IdeasSubmitted   int64 `json:"ideas_submitted"`
	CommentsPosted   int64 `json:"comments_posted"`
	VotesCasted      int64 `json:"votes_casted"`
	ReviewsSubmitted int64 `json:"reviews_submitted"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

type UpdateRoleInput struct {
	Role string `json:"role" binding:"required"`
}

type UserChangeResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type RoleBreakdown struct {
	Employees int64 `json:"employees"`
	Managers  int64 `json:"managers"`
	Admins    int64 `json:"admins"`
}

type UserStatisticsResponse struct {
	TotalUsers    int64         `json:"total_users"`
	ActiveUsers   int64         `json:"active_users"`
	InactiveUsers int64         `json:"inactive_users"`
	RoleBreakdown RoleBreakdown `json:"role_breakdown"`
}

func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
		Status: string(u.Status),
	}
}

func ToUserResponses(users []*entity.User) []UserResponse {
	res := make([]UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, ToUserResponse(u))
	}
	return res
}
