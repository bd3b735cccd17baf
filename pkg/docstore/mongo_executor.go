package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongostore "github.com/wshaddix/cosmosdb-client-go/pkg/store/mongodb"
)

// MongoExecutor adapts the store/mongodb adapter to the Executor contract,
// rendering structured queries to Mongo filters. Records keep their "id"
// field; a mirrored "_id" keys the document for point operations.
type MongoExecutor struct {
	adapter    *mongostore.Adapter
	collection string
}

// NewMongoExecutor creates a new MongoExecutor for one collection.
func NewMongoExecutor(adapter *mongostore.Adapter, collection string) (*MongoExecutor, error) {
	if adapter == nil {
		return nil, fmt.Errorf("mongodb adapter is required")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	return &MongoExecutor{adapter: adapter, collection: collection}, nil
}

// Query renders q to a Mongo filter and returns every matching record.
func (e *MongoExecutor) Query(ctx context.Context, q Query) ([]Record, error) {
	filter, opts := renderMongo(q)
	var docs []bson.M
	if err := e.adapter.Find(ctx, e.collection, filter, opts, &docs); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		delete(doc, "_id")
		records = append(records, Record(doc))
	}
	return records, nil
}

// ReadItem fetches a record by id.
func (e *MongoExecutor) ReadItem(ctx context.Context, id string) (Record, error) {
	doc := bson.M{}
	err := e.adapter.FindOne(ctx, e.collection, bson.M{"_id": id}, &doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	delete(doc, "_id")
	return Record(doc), nil
}

// UpsertItem inserts or replaces a record by its id.
func (e *MongoExecutor) UpsertItem(ctx context.Context, rec Record) error {
	id, _ := rec[idField].(string)
	if id == "" {
		return fmt.Errorf("record id is required")
	}
	doc := bson.M{"_id": id}
	for k, v := range rec {
		doc[k] = v
	}
	_, err := e.adapter.ReplaceOne(ctx, e.collection, bson.M{"_id": id}, doc)
	return err
}

// DeleteItem removes a record by id.
func (e *MongoExecutor) DeleteItem(ctx context.Context, id string) error {
	result, err := e.adapter.DeleteOne(ctx, e.collection, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

// renderMongo translates the structured query into a Mongo filter and find
// options in a single step.
func renderMongo(q Query) (bson.M, *options.FindOptions) {
	var parts []bson.M
	if q.Predicate != nil {
		for _, cond := range q.Predicate.Conditions() {
			field := NormalizeField(cond.Field)
			switch cond.Op {
			case OpEqual:
				parts = append(parts, bson.M{field: cond.Value})
			case OpNotEqual:
				parts = append(parts, bson.M{field: bson.M{"$ne": cond.Value}})
			case OpGreaterThan:
				parts = append(parts, bson.M{field: bson.M{"$gt": cond.Value}})
			case OpGreaterOrEqual:
				parts = append(parts, bson.M{field: bson.M{"$gte": cond.Value}})
			case OpLessThan:
				parts = append(parts, bson.M{field: bson.M{"$lt": cond.Value}})
			case OpLessOrEqual:
				parts = append(parts, bson.M{field: bson.M{"$lte": cond.Value}})
			case OpContains:
				// The substring is a literal, so regex metacharacters in it
				// must be escaped before the value becomes a pattern.
				literal := regexp.QuoteMeta(fmt.Sprintf("%v", cond.Value))
				parts = append(parts, bson.M{field: bson.M{"$regex": literal}})
			case OpIn:
				parts = append(parts, bson.M{field: bson.M{"$in": cond.Value}})
			}
		}
	}
	filter := bson.M{}
	switch len(parts) {
	case 0:
	case 1:
		filter = parts[0]
	default:
		filter = bson.M{"$and": parts}
	}

	opts := options.Find()
	if q.Sort != nil {
		dir := 1
		if q.Sort.Order == SortDesc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: NormalizeField(q.Sort.Field), Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if len(q.Projection) > 0 {
		projection := bson.M{}
		for _, field := range q.Projection {
			projection[NormalizeField(field)] = 1
		}
		opts.SetProjection(projection)
	}
	return filter, opts
}
