package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasbarrena/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/lucasbarrena/shoplane-backend/pkg/errors"
)

type repository interface {
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]models.Order, string, error)
	ListAll(ctx context.Context, cursor string, limit int) ([]models.Order, string, error)
}

// Service exposes order history reads for customers and admins.
type Service interface {
	Get(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (OrderPageDTO, error)
	ListAll(ctx context.Context, cursor string, limit int) (OrderPageDTO, error)
}

type service struct {
	repo repository
}

// NewService builds an order read service backed by the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error) {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return ToDTO(order), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (OrderPageDTO, error) {
	if userID == uuid.Nil {
		return OrderPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, nextCursor, err := s.repo.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		return OrderPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return toPage(rows, nextCursor), nil
}

func (s *service) ListAll(ctx context.Context, cursor string, limit int) (OrderPageDTO, error) {
	rows, nextCursor, err := s.repo.ListAll(ctx, cursor, limit)
	if err != nil {
		return OrderPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return toPage(rows, nextCursor), nil
}

func toPage(rows []models.Order, nextCursor string) OrderPageDTO {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i]))
	}
	return OrderPageDTO{Orders: dtos, NextCursor: nextCursor}
}
