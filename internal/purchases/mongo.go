package purchases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "purchases"

// Collections is the slice of the persistence gateway this repository needs.
type Collections interface {
	Collection(ctx context.Context, name string) (*mongo.Collection, error)
}

// MongoRepo implements Repository on the "purchases" collection.
type MongoRepo struct {
	db Collections
}

func NewMongoRepo(db Collections) *MongoRepo {
	return &MongoRepo{db: db}
}

func (r *MongoRepo) col(ctx context.Context) (*mongo.Collection, error) {
	return r.db.Collection(ctx, collectionName)
}

func (r *MongoRepo) Insert(ctx context.Context, p *Purchase) error {
	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	res, err := col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *MongoRepo) ByBuyerWithModel(ctx context.Context, subject string) ([]*Receipt, error) {
	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	// $unwind makes the join inner: entries whose listing is gone vanish here
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"purchasedBy": subject}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "models",
			"localField":   "modelId",
			"foreignField": "_id",
			"as":           "model",
		}}},
		{{Key: "$unwind", Value: "$model"}},
		{{Key: "$sort", Value: bson.M{"purchasedAt": -1}}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"purchasedAt": 1,
			"purchasedBy": 1,
			"model":       1,
		}}},
	}
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := []*Receipt{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepo) ByModel(ctx context.Context, modelID primitive.ObjectID) ([]*Purchase, error) {
	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "purchasedAt", Value: -1}})
	cur, err := col.Find(ctx, bson.M{"modelId": modelID}, opts)
	if err != nil {
		return nil, err
	}
	out := []*Purchase{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
