package catalog

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "models"

// Collections is the slice of the persistence gateway this repository needs.
type Collections interface {
	Collection(ctx context.Context, name string) (*mongo.Collection, error)
}

// MongoRepo implements Repository on the "models" collection. The collection
// is resolved per call so the gateway can connect lazily on first use.
type MongoRepo struct {
	db Collections
}

func NewMongoRepo(db Collections) *MongoRepo {
	return &MongoRepo{db: db}
}

func (r *MongoRepo) col(ctx context.Context) (*mongo.Collection, error) {
	return r.db.Collection(ctx, collectionName)
}

func (r *MongoRepo) Insert(ctx context.Context, m *Model) error {
	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	res, err := col.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	return nil
}

func (r *MongoRepo) Search(ctx context.Context, f ListFilter) ([]*Model, int64, error) {
	col, err := r.col(ctx)
	if err != nil {
		return nil, 0, err
	}

	match := bson.M{}
	if f.Query != "" {
		// substring match, not user-supplied regex
		match["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
	}
	if len(f.Frameworks) > 0 {
		match["framework"] = bson.M{"$in": f.Frameworks}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))
	cur, err := col.Find(ctx, match, opts)
	if err != nil {
		return nil, 0, err
	}
	items := []*Model{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}

	total, err := col.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MongoRepo) Latest(ctx context.Context, limit int) ([]*Model, error) {
	return r.find(ctx, bson.M{}, int64(limit))
}

func (r *MongoRepo) ByCreator(ctx context.Context, subject string) ([]*Model, error) {
	return r.find(ctx, bson.M{"createdBy": subject}, 0)
}

func (r *MongoRepo) find(ctx context.Context, match bson.M, limit int64) ([]*Model, error) {
	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := col.Find(ctx, match, opts)
	if err != nil {
		return nil, err
	}
	items := []*Model{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepo) Get(ctx context.Context, id primitive.ObjectID) (*Model, error) {
	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	var m Model
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MongoRepo) Set(ctx context.Context, id primitive.ObjectID, fields map[string]string) (*Model, error) {
	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Model
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	col, err := r.col(ctx)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) IncPurchased(ctx context.Context, id primitive.ObjectID, delta int64) (*Model, error) {
	col, err := r.col(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{"purchased": delta}}
	var updated Model
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}
