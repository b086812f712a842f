package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnect/backend/internal/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEntryNotFound   = errors.New("entry not found")
)

var userRefProjection = bson.M{"name": 1, "avatar": 1}

type MongoProfileService struct {
	profilesCol *mongo.Collection
	usersCol    *mongo.Collection
}

func NewMongoProfileService(ctx context.Context, db *mongo.Database) *MongoProfileService {
	col := db.Collection("profiles")

	// Best-effort index; the service enforces one-profile-per-user anyway.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoProfileService{
		profilesCol: col,
		usersCol:    db.Collection("users"),
	}
}

// GetByUserID returns the profile owned by userID with the user reference
// populated. A malformed id is indistinguishable from a missing profile.
func (s *MongoProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"user": oid}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	ensureCollections(&prof)

	if err := s.populateUser(ctx, &prof); err != nil {
		return nil, err
	}
	return &prof, nil
}

// List returns every profile with user references populated in one batch.
func (s *MongoProfileService) List(ctx context.Context) ([]models.Profile, error) {
	cur, err := s.profilesCol.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	profiles := make([]models.Profile, 0)
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	for i := range profiles {
		ensureCollections(&profiles[i])
	}

	if len(profiles) == 0 {
		return profiles, nil
	}

	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	ucur, err := s.usersCol.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(userRefProjection))
	if err != nil {
		return nil, err
	}
	defer ucur.Close(ctx)

	var refs []models.UserRef
	if err := ucur.All(ctx, &refs); err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.UserRef, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}
	for i := range profiles {
		if ref, ok := byID[profiles[i].UserID]; ok {
			r := ref
			profiles[i].User = &r
		}
	}
	return profiles, nil
}

// Upsert applies a sparse merge of the supplied fields to the caller's
// profile, creating it on first use. Absent fields are never cleared.
func (s *MongoProfileService) Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set":         buildProfileFields(req),
		"$setOnInsert": bson.M{"user": oid, "date": time.Now()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var prof models.Profile
	if err := s.profilesCol.FindOneAndUpdate(ctx, bson.M{"user": oid}, update, opts).Decode(&prof); err != nil {
		return nil, err
	}
	ensureCollections(&prof)
	return &prof, nil
}

// AddExperience prepends exp to the caller's profile and saves the document.
func (s *MongoProfileService) AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	prof, err := s.findOwned(ctx, userID)
	if err != nil {
		return nil, err
	}
	prof.AddExperience(exp)
	return s.save(ctx, prof)
}

// RemoveExperience removes the entry with id expID. An unknown id is a no-op
// reported as ErrEntryNotFound; nothing else is ever removed.
func (s *MongoProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	prof, err := s.findOwned(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !prof.RemoveExperience(expID) {
		return nil, ErrEntryNotFound
	}
	return s.save(ctx, prof)
}

// AddEducation prepends edu to the caller's profile and saves the document.
func (s *MongoProfileService) AddEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error) {
	prof, err := s.findOwned(ctx, userID)
	if err != nil {
		return nil, err
	}
	prof.AddEducation(edu)
	return s.save(ctx, prof)
}

// RemoveEducation removes the entry with id eduID, with the same not-found
// semantics as RemoveExperience.
func (s *MongoProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	prof, err := s.findOwned(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !prof.RemoveEducation(eduID) {
		return nil, ErrEntryNotFound
	}
	return s.save(ctx, prof)
}

func (s *MongoProfileService) findOwned(ctx context.Context, userID string) (*models.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"user": oid}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	ensureCollections(&prof)
	return &prof, nil
}

// save persists a mutated in-memory profile. Concurrent writers to the same
// profile are last-write-wins; that matches the contract of this service.
func (s *MongoProfileService) save(ctx context.Context, prof *models.Profile) (*models.Profile, error) {
	if _, err := s.profilesCol.ReplaceOne(ctx, bson.M{"_id": prof.ID}, prof); err != nil {
		return nil, err
	}
	return prof, nil
}

func (s *MongoProfileService) populateUser(ctx context.Context, prof *models.Profile) error {
	var ref models.UserRef
	err := s.usersCol.FindOne(ctx, bson.M{"_id": prof.UserID},
		options.FindOne().SetProjection(userRefProjection)).Decode(&ref)
	if err == mongo.ErrNoDocuments {
		// Dangling reference; return the profile unpopulated.
		return nil
	}
	if err != nil {
		return err
	}
	prof.User = &ref
	return nil
}

// buildProfileFields translates the flat request into a $set document
// containing only the fields the caller supplied. Social links use dotted
// paths so the nested record merges one level down instead of being replaced.
func buildProfileFields(req *models.UpsertProfileRequest) bson.M {
	set := bson.M{}
	if req.Company != "" {
		set["company"] = req.Company
	}
	if req.Website != "" {
		set["website"] = req.Website
	}
	if req.Location != "" {
		set["location"] = req.Location
	}
	if req.Bio != "" {
		set["bio"] = req.Bio
	}
	if req.Status != "" {
		set["status"] = req.Status
	}
	if req.GithubUsername != "" {
		set["githubusername"] = req.GithubUsername
	}
	if req.Skills != "" {
		set["skills"] = models.SplitSkills(req.Skills)
	}
	if req.Youtube != "" {
		set["social.youtube"] = req.Youtube
	}
	if req.Twitter != "" {
		set["social.twitter"] = req.Twitter
	}
	if req.Facebook != "" {
		set["social.facebook"] = req.Facebook
	}
	if req.Linkedin != "" {
		set["social.linkedin"] = req.Linkedin
	}
	if req.Instagram != "" {
		set["social.instagram"] = req.Instagram
	}
	return set
}

// Decoded documents created before any sub-record was added have nil slices;
// responses always carry arrays.
func ensureCollections(prof *models.Profile) {
	if prof.Skills == nil {
		prof.Skills = []string{}
	}
	if prof.Experience == nil {
		prof.Experience = []models.Experience{}
	}
	if prof.Education == nil {
		prof.Education = []models.Education{}
	}
}
