package repository

import (
	"context"

	"gatescore-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AnswerKeyRepository struct {
	Col    *mongo.Collection
	client *mongo.Client
}

func NewAnswerKeyRepository(db *mongo.Database) *AnswerKeyRepository {
	return &AnswerKeyRepository{Col: db.Collection("answer_keys"), client: db.Client()}
}

// FindBySlot returns the slot's key entries ordered by question number.
func (r *AnswerKeyRepository) FindBySlot(ctx context.Context, slotID string) ([]models.AnswerKeyEntry, error) {
	cur, err := r.Col.Find(ctx, bson.M{"slot_id": slotID}, options.Find().SetSort(bson.D{{Key: "question_no", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.AnswerKeyEntry
	for cur.Next(ctx) {
		var e models.AnswerKeyEntry
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ReplaceForSlot swaps the slot's entire answer key inside one
// transaction: the previous entries are dropped and the new batch is
// inserted, all or nothing.
func (r *AnswerKeyRepository) ReplaceForSlot(ctx context.Context, slotID string, entries []models.AnswerKeyEntry) (int, error) {
	docs := make([]interface{}, len(entries))
	for i, e := range entries {
		e.ID = uuid.NewString()
		e.SlotID = slotID
		docs[i] = e
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return 0, err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.Col.DeleteMany(sc, bson.M{"slot_id": slotID}); err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, nil
		}
		if _, err := r.Col.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
