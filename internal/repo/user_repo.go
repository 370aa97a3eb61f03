package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/Kasamvinay/phishformer/internal/domain"
)

// FindUserByEmail looks up by the lower-cased natural key. Returns (nil, nil)
// when no document matches.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := s.colUsers.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// UpsertGoogleUser inserts or refreshes an account keyed by email after a
// completed provider exchange. Existing accounts keep their password
// credential; inserted ones never get one.
func (s *Store) UpsertGoogleUser(ctx context.Context, email, name, picture, subject string) (*domain.User, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.upsert_google",
		tracer.Tag("provider", "google"),
	)
	defer sp.Finish()

	now := time.Now().UTC()
	existing, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		sp.SetTag("error", err)
		return nil, err
	}

	if existing != nil {
		update := bson.M{"$set": bson.M{
			"name":       name,
			"picture":    picture,
			"updated_at": now,
		}}
		if _, ok := existing.Identity("google"); !ok {
			update["$push"] = bson.M{"identities": domain.ExternalIdentity{Provider: "google", Subject: subject}}
		}
		if _, err := s.colUsers.UpdateOne(ctx, bson.M{"_id": existing.ID}, update); err != nil {
			sp.SetTag("error", err)
			return nil, err
		}
		return s.FindUserByID(ctx, existing.ID)
	}

	u := &domain.User{
		Email:      email,
		Name:       name,
		Picture:    picture,
		Identities: []domain.ExternalIdentity{{Provider: "google", Subject: subject}},
	}
	if err := s.CreateUser(ctx, u); err != nil {
		sp.SetTag("error", err)
		return nil, err
	}
	return u, nil
}

func (s *Store) UpdateUserName(ctx context.Context, id primitive.ObjectID, name string) error {
	_, err := s.colUsers.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":       name,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// userUpdatable is the allow-list for partial profile updates; anything else
// in the input is silently dropped.
var userUpdatable = map[string]bool{
	"name": true, "email": true, "notifications": true, "privacy": true,
}

func (s *Store) UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) (int64, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		if userUpdatable[k] {
			set[k] = v
		}
	}
	res, err := s.colUsers.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.colUsers.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":   domain.PasswordCredential{Hash: hash},
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (s *Store) DeleteUser(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.colUsers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
