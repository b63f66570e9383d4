package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/internal/modules/notification/dto"
	notifRepo "anoa.com/ideaboard/internal/modules/notification/repository"
	"anoa.com/ideaboard/pkg/apperror"
	commonDto "anoa.com/ideaboard/pkg/dto"
	"github.com/google/uuid"
)

var ErrNotificationNotFound = apperror.New(apperror.ErrNotFound, "Notification not found")

// ReviewDecision describes a status change a submitter is told about.
type ReviewDecision struct {
	IdeaID       uuid.UUID
	Title        string
	SubmitterID  uuid.UUID
	ReviewerID   uuid.UUID
	ReviewerName string
	Status       entity.IdeaStatus
}

type NotificationService interface {
	NotifyNewIdea(ctx context.Context, ideaID uuid.UUID, title string, submitterID uuid.UUID) error
	NotifyReviewDecision(ctx context.Context, decision ReviewDecision) error
	GetNotifications(ctx context.Context, userID uuid.UUID, query commonDto.PaginationQuery) (*dto.PaginatedNotificationResponse, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo notifRepo.NotificationRepository
}

func NewNotificationService(repo notifRepo.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// NotifyNewIdea writes one unread row for every active user except the submitter.
func (s *notificationService) NotifyNewIdea(ctx context.Context, ideaID uuid.UUID, title string, submitterID uuid.UUID) error {
	recipients, err := s.repo.FindActiveUserIDsExcept(ctx, submitterID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	message := fmt.Sprintf("New idea submitted: %s", title)
	notifications := make([]*entity.Notification, 0, len(recipients))
	for _, userID := range recipients {
		id := ideaID
		notifications = append(notifications, &entity.Notification{
			UserID:    userID,
			Type:      entity.NotificationNewIdea,
			Message:   message,
			Status:    entity.NotificationUnread,
			IdeaID:    &id,
			CreatedAt: now,
		})
	}

	return s.repo.CreateBatch(ctx, notifications)
}

func (s *notificationService) NotifyReviewDecision(ctx context.Context, decision ReviewDecision) error {
	ideaID := decision.IdeaID
	reviewerID := decision.ReviewerID
	message := fmt.Sprintf(`Your idea "%s" has been %s by %s`,
		decision.Title, strings.ToLower(string(decision.Status)), decision.ReviewerName)

	return s.repo.Create(ctx, &entity.Notification{
		UserID:     decision.SubmitterID,
		Type:       entity.NotificationReviewDecision,
		Message:    message,
		Status:     entity.NotificationUnread,
		IdeaID:     &ideaID,
		ReviewerID: &reviewerID,
		CreatedAt:  time.Now().UTC(),
	})
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, query commonDto.PaginationQuery) (*dto.PaginatedNotificationResponse, error) {
	limit, offset := query.Resolve(20)

	notifications, total, err := s.repo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	data := make([]dto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		data[i] = dto.ToNotificationResponse(n)
	}

	return &dto.PaginatedNotificationResponse{
		Data: data,
		Meta: commonDto.NewPaginationMeta(query.Page, limit, total),
	}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	found, err := s.repo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
