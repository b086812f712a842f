package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoAccountService struct {
	postsCol    *mongo.Collection
	profilesCol *mongo.Collection
	usersCol    *mongo.Collection
}

func NewMongoAccountService(db *mongo.Database) *MongoAccountService {
	return &MongoAccountService{
		postsCol:    db.Collection("posts"),
		profilesCol: db.Collection("profiles"),
		usersCol:    db.Collection("users"),
	}
}

// DeleteAccount removes everything the user owns. Order matters: dependents
// first (posts, then the profile), the user record last. There is no
// transaction; a failure partway leaves earlier deletions in place.
func (s *MongoAccountService) DeleteAccount(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	if _, err := s.postsCol.DeleteMany(ctx, bson.M{"user": oid}); err != nil {
		return err
	}
	if _, err := s.profilesCol.DeleteOne(ctx, bson.M{"user": oid}); err != nil {
		return err
	}
	if _, err := s.usersCol.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return err
	}
	return nil
}

// Helper for handlers that want a sane timeout for the cascade.
func DefaultAccountTimeout() time.Duration { return 20 * time.Second }
