package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social-feed/internal/domain"
	"social-feed/internal/repository"
)

const postsCollection = "posts"

type postDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"userId"`
	FirstName       string             `bson:"firstName"`
	LastName        string             `bson:"lastName"`
	Location        string             `bson:"location"`
	Description     string             `bson:"description"`
	UserPicturePath string             `bson:"userPicturePath"`
	PicturePath     string             `bson:"picturePath"`
	Likes           map[string]bool    `bson:"likes"`
	Comments        []string           `bson:"comments"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func (d postDocument) toDomain() domain.Post {
	likes := make(map[string]bool, len(d.Likes))
	for userID, liked := range d.Likes {
		if liked {
			likes[userID] = true
		}
	}
	comments := d.Comments
	if comments == nil {
		comments = []string{}
	}
	return domain.Post{
		ID:              d.ID.Hex(),
		UserID:          d.UserID,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Location:        d.Location,
		UserPicturePath: d.UserPicturePath,
		Description:     d.Description,
		PicturePath:     d.PicturePath,
		Likes:           likes,
		Comments:        comments,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) repository.PostRepository {
	return &PostRepository{collection: db.Collection(postsCollection)}
}

func (r *PostRepository) Init(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create posts user index: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	now := time.Now().UTC()
	if post.Likes == nil {
		post.Likes = map[string]bool{}
	}
	if post.Comments == nil {
		post.Comments = []string{}
	}
	doc := postDocument{
		ID:              primitive.NewObjectID(),
		UserID:          post.UserID,
		FirstName:       post.FirstName,
		LastName:        post.LastName,
		Location:        post.Location,
		Description:     post.Description,
		UserPicturePath: post.UserPicturePath,
		PicturePath:     post.PicturePath,
		Likes:           post.Likes,
		Comments:        post.Comments,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	post.ID = doc.ID.Hex()
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (*domain.Post, error) {
	if !validLikeKey(userID) {
		return nil, fmt.Errorf("like key %q: %w", userID, repository.ErrInvalidID)
	}
	oid, err := objectID(postID)
	if err != nil {
		return nil, err
	}

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		toggleLikeUpdate(userID, time.Now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("toggle like: %w", err)
	}

	var doc postDocument
	if err := result.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	post := doc.toDomain()
	return &post, nil
}

func (r *PostRepository) find(ctx context.Context, filter bson.M) ([]domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]domain.Post, len(docs))
	for i := range docs {
		posts[i] = docs[i].toDomain()
	}
	return posts, nil
}

// toggleLikeUpdate builds a pipeline update that removes userID from likes
// when present and adds it otherwise, evaluated server side in one write.
func toggleLikeUpdate(userID string, now time.Time) mongo.Pipeline {
	liked := bson.D{{Key: "$ne", Value: bson.A{
		bson.D{{Key: "$type", Value: "$likes." + userID}},
		"missing",
	}}}
	without := bson.D{{Key: "$arrayToObject", Value: bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$objectToArray", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$likes", bson.D{}}}}}}},
		{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this.k", userID}}}},
	}}}}}
	with := bson.D{{Key: "$mergeObjects", Value: bson.A{"$likes", bson.D{{Key: userID, Value: true}}}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: bson.D{{Key: "$cond", Value: bson.A{liked, without, with}}}},
			{Key: "updatedAt", Value: now},
		}}},
	}
}

// validLikeKey reports whether userID can be used as a likes field name.
func validLikeKey(userID string) bool {
	return userID != "" && !strings.HasPrefix(userID, "$") && !strings.Contains(userID, ".")
}
