package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"quiz-engine/internal/store"
)

// encode and decode round-trip models through bson so the same field names
// land in Mongo and in the in-memory store.

func encode(v interface{}) (store.Document, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return store.Document(doc), nil
}

func decode(doc store.Document, v interface{}) error {
	raw, err := bson.Marshal(bson.M(doc))
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, v)
}
