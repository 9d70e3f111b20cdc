package repository

import (
	"context"

	"gatescore-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SlotRepository struct {
	Col *mongo.Collection
}

func NewSlotRepository(db *mongo.Database) *SlotRepository {
	return &SlotRepository{Col: db.Collection("slots")}
}

func (r *SlotRepository) FindByID(ctx context.Context, id string) (*models.Slot, error) {
	var slot models.Slot
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// FindByDepartment resolves the slot for a department, narrowed by shift
// when one is given.
func (r *SlotRepository) FindByDepartment(ctx context.Context, department, shift string) (*models.Slot, error) {
	filter := bson.M{"department": department}
	if shift != "" {
		filter["shift"] = shift
	}
	var slot models.Slot
	err := r.Col.FindOne(ctx, filter).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepository) FindAll(ctx context.Context) ([]models.Slot, error) {
	cur, err := r.Col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var slots []models.Slot
	for cur.Next(ctx) {
		var s models.Slot
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}

func (r *SlotRepository) Create(ctx context.Context, slot *models.Slot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	_, err := r.Col.InsertOne(ctx, slot)
	return err
}

func (r *SlotRepository) Update(ctx context.Context, id string, update bson.M) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
