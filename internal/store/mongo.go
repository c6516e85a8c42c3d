package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements DocumentStore on a Mongo database. Ids are stored as
// string _id values so documents round-trip through the generic interface.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return Document(doc), nil
}

func (s *MongoStore) Put(ctx context.Context, collection, id string, fields Document) error {
	doc := bson.M(fields)
	doc["_id"] = id
	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func (s *MongoStore) Query(ctx context.Context, collection string, filter Document) ([]Document, error) {
	if filter == nil {
		filter = Document{}
	}
	cur, err := s.db.Collection(collection).Find(ctx, bson.M(filter))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []Document
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, Document(doc))
	}
	return docs, cur.Err()
}

func (s *MongoStore) Count(ctx context.Context, collection string, filter Document) (int64, error) {
	if filter == nil {
		filter = Document{}
	}
	return s.db.Collection(collection).CountDocuments(ctx, bson.M(filter))
}
