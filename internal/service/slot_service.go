package service

import (
	"context"
	"time"

	"gatescore-service/internal/models"
	"gatescore-service/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

type SlotService struct {
	Repo *repository.SlotRepository
}

func NewSlotService(repo *repository.SlotRepository) *SlotService {
	return &SlotService{Repo: repo}
}

func (s *SlotService) ListSlots(ctx context.Context) ([]models.Slot, error) {
	return s.Repo.FindAll(ctx)
}

func (s *SlotService) GetSlot(ctx context.Context, id string) (*models.Slot, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *SlotService) CreateSlot(ctx context.Context, slot *models.Slot) error {
	now := time.Now()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	return s.Repo.Create(ctx, slot)
}

func (s *SlotService) UpdateSlot(ctx context.Context, id string, update map[string]any) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range update {
		set[k] = v
	}
	return s.Repo.Update(ctx, id, set)
}
