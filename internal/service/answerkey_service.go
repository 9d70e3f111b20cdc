package service

import (
	"context"
	"errors"
	"io"
	"log"

	"gatescore-service/internal/answerkey"
	"gatescore-service/internal/event"
	"gatescore-service/internal/models"
	"gatescore-service/internal/repository"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrNoAnswerKey  = errors.New("no answer key for slot")
)

type AnswerKeyService struct {
	Repo   *repository.AnswerKeyRepository
	Slots  *repository.SlotRepository
	Events EventSink // nil when no broker is configured
}

func NewAnswerKeyService(repo *repository.AnswerKeyRepository, slots *repository.SlotRepository) *AnswerKeyService {
	return &AnswerKeyService{Repo: repo, Slots: slots}
}

// Replace validates the uploaded key and swaps the slot's entries
// atomically. Validation failures (answerkey.FormatError, RowErrors)
// reject the upload without touching the stored key.
func (s *AnswerKeyService) Replace(ctx context.Context, slotID string, r io.Reader) (int, error) {
	slot, err := s.Slots.FindByID(ctx, slotID)
	if err != nil {
		return 0, err
	}
	if slot == nil {
		return 0, ErrSlotNotFound
	}

	entries, err := answerkey.Load(r)
	if err != nil {
		return 0, err
	}

	created, err := s.Repo.ReplaceForSlot(ctx, slotID, entries)
	if err != nil {
		return 0, err
	}
	if s.Events != nil {
		if err := s.Events.Publish(event.KeyReplaced, map[string]any{"slot_id": slotID, "entries": created}); err != nil {
			log.Printf("Failed to publish %s: %v", event.KeyReplaced, err)
		}
	}
	return created, nil
}

func (s *AnswerKeyService) GetBySlot(ctx context.Context, slotID string) ([]models.AnswerKeyEntry, error) {
	entries, err := s.Repo.FindBySlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoAnswerKey
	}
	return entries, nil
}
