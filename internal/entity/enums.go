package entity

import (
	"fmt"
	"strings"

	"anoa.com/ideaboard/pkg/apperror"
)

type UserRole string

const (
	RoleEmployee UserRole = "Employee"
	RoleManager  UserRole = "Manager"
	RoleAdmin    UserRole = "Admin"
)

var userRoles = []UserRole{RoleEmployee, RoleManager, RoleAdmin}

// ParseUserRole matches s against the known roles ignoring case.
func ParseUserRole(s string) (UserRole, error) {
	for _, r := range userRoles {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid role %q, must be 'Employee', 'Manager', or 'Admin': %w", s, apperror.ErrInvalidInput)
}

type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
)

func ParseUserStatus(s string) (UserStatus, error) {
	for _, st := range []UserStatus{StatusActive, StatusInactive} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid user status %q, must be 'Active' or 'Inactive': %w", s, apperror.ErrInvalidInput)
}

type IdeaStatus string

const (
	IdeaRejected    IdeaStatus = "Rejected"
	IdeaUnderReview IdeaStatus = "UnderReview"
	IdeaApproved    IdeaStatus = "Approved"
)

func ParseIdeaStatus(s string) (IdeaStatus, error) {
	for _, st := range []IdeaStatus{IdeaRejected, IdeaUnderReview, IdeaApproved} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid idea status %q, must be 'Rejected', 'UnderReview', or 'Approved': %w", s, apperror.ErrInvalidInput)
}

type VoteType string

const (
	VoteUp   VoteType = "Upvote"
	VoteDown VoteType = "Downvote"
)

type NotificationType string

const (
	NotificationNewIdea        NotificationType = "NewIdea"
	NotificationReviewDecision NotificationType = "ReviewDecision"
)

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "Unread"
	NotificationRead   NotificationStatus = "Read"
)
