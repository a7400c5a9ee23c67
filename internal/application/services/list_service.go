package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/infrastructure/logger"
	"github.com/odysseyapp/core/internal/ports"
)

// ListService handles task list operations
type ListService struct {
	listRepo ports.ListRepository
	logger   *logger.Logger
}

// NewListService creates a new list service
func NewListService(listRepo ports.ListRepository, logger *logger.Logger) *ListService {
	return &ListService{
		listRepo: listRepo,
		logger:   logger,
	}
}

// CreateList creates a new task list for the user
func (s *ListService) CreateList(ctx context.Context, userID uuid.UUID, req ports.CreateListRequest) (*entities.TaskList, error) {
	icon := req.Icon
	if icon == "" {
		icon = "list-outline"
	}

	list := &entities.TaskList{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     req.Title,
		Icon:      icon,
		CreatedAt: time.Now(),
	}

	if err := s.listRepo.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	s.logger.Infow("List created", "list_id", list.ID, "user_id", userID, "title", list.Title)

	return list, nil
}

// GetLists returns all of a user's lists, oldest first
func (s *ListService) GetLists(ctx context.Context, userID uuid.UUID) ([]*entities.TaskList, error) {
	lists, err := s.listRepo.GetForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lists: %w", err)
	}
	return lists, nil
}

// RenameList changes a list's title
func (s *ListService) RenameList(ctx context.Context, userID, listID uuid.UUID, title string) (*entities.TaskList, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("list not found: %w", err)
	}
	if list.UserID != userID {
		return nil, entities.ErrUnauthorized
	}

	list.Title = title
	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}

	s.logger.Infow("List renamed", "list_id", listID, "title", title)

	return list, nil
}

// DeleteList deletes a list and its tasks
func (s *ListService) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return fmt.Errorf("list not found: %w", err)
	}
	if list.UserID != userID {
		return entities.ErrUnauthorized
	}

	if err := s.listRepo.Delete(ctx, listID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}

	s.logger.Infow("List deleted", "list_id", listID, "user_id", userID)

	return nil
}
