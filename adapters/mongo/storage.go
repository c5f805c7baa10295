package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forumkit/core"
	"forumkit/engine"
)

// Config holds MongoDB connection configuration.
type Config struct {
	URI        string `json:"uri" env:"MONGO_URI"`
	Database   string `json:"database" env:"MONGO_DATABASE"`
	Collection string `json:"collection" env:"MONGO_COLLECTION"`
	// PostsCollection is scanned by the likes leaderboard.
	PostsCollection string `json:"posts_collection" env:"MONGO_POSTS_COLLECTION"`
}

// DefaultConfig targets a local mongod with the forum's default names.
func DefaultConfig() Config {
	return Config{
		URI:             "mongodb://localhost:27017",
		Database:        "forum",
		Collection:      "user_stats",
		PostsCollection: "posts",
	}
}

// document is the persisted shape of a stats snapshot. The user id doubles
// as the document key so Save can upsert by _id.
type document struct {
	ID               string     `bson:"_id"`
	TotalScore       int        `bson:"total_score"`
	Level            int        `bson:"level"`
	TopicsCreated    int        `bson:"topics_created"`
	PostsCreated     int        `bson:"posts_created"`
	LikesReceived    int        `bson:"likes_received"`
	CurrentStreak    int        `bson:"current_streak"`
	LongestStreak    int        `bson:"longest_streak"`
	LastActivityDate *time.Time `bson:"last_activity_date,omitempty"`
	Badges           []string   `bson:"badges"`
	Achievements     []string   `bson:"achievements"`
	Updated          time.Time  `bson:"updated"`
}

type postDocument struct {
	AuthorID string `bson:"author_id"`
	Likes    int    `bson:"likes"`
}

// Store implements engine.UserStore and engine.PostStore on MongoDB.
type Store struct {
	client *mongo.Client
	stats  *mongo.Collection
	posts  *mongo.Collection
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg Config) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	return &Store{
		client: client,
		stats:  db.Collection(cfg.Collection),
		posts:  db.Collection(cfg.PostsCollection),
	}, nil
}

// NewWithCollections builds a Store over existing collections (useful for testing).
func NewWithCollections(stats, posts *mongo.Collection) *Store {
	return &Store{stats: stats, posts: posts}
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *Store) Get(ctx context.Context, id core.UserID) (core.UserStats, error) {
	var doc document
	err := s.stats.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.UserStats{}, engine.ErrNotFound
	}
	if err != nil {
		return core.UserStats{}, fmt.Errorf("failed to load stats: %w", err)
	}
	return doc.toStats(), nil
}

func (s *Store) Save(ctx context.Context, stats core.UserStats) error {
	doc := fromStats(stats)
	opts := options.Replace().SetUpsert(true)
	if _, err := s.stats.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]core.UserStats, error) {
	cursor, err := s.stats.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list stats: %w", err)
	}
	return decodeAll(ctx, cursor)
}

func (s *Store) TopNByScore(ctx context.Context, n int) ([]core.UserStats, error) {
	if n <= 0 {
		return nil, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "total_score", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(n))
	cursor, err := s.stats.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to rank stats: %w", err)
	}
	return decodeAll(ctx, cursor)
}

func (s *Store) AllPosts(ctx context.Context) ([]core.PostRef, error) {
	opts := options.Find().SetProjection(bson.M{"author_id": 1, "likes": 1})
	cursor, err := s.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan posts: %w", err)
	}
	defer cursor.Close(ctx)

	var out []core.PostRef
	for cursor.Next(ctx) {
		var doc postDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		out = append(out, core.PostRef{AuthorID: core.UserID(doc.AuthorID), Likes: doc.Likes})
	}
	return out, cursor.Err()
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]core.UserStats, error) {
	defer cursor.Close(ctx)
	var out []core.UserStats
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode stats: %w", err)
		}
		out = append(out, doc.toStats())
	}
	return out, cursor.Err()
}

func (d document) toStats() core.UserStats {
	return core.UserStats{
		UserID:           core.UserID(d.ID),
		TotalScore:       d.TotalScore,
		Level:            d.Level,
		TopicsCreated:    d.TopicsCreated,
		PostsCreated:     d.PostsCreated,
		LikesReceived:    d.LikesReceived,
		CurrentStreak:    d.CurrentStreak,
		LongestStreak:    d.LongestStreak,
		LastActivityDate: d.LastActivityDate,
		Badges:           d.Badges,
		Achievements:     d.Achievements,
		Updated:          d.Updated,
	}
}

func fromStats(s core.UserStats) document {
	return document{
		ID:               string(s.UserID),
		TotalScore:       s.TotalScore,
		Level:            s.Level,
		TopicsCreated:    s.TopicsCreated,
		PostsCreated:     s.PostsCreated,
		LikesReceived:    s.LikesReceived,
		CurrentStreak:    s.CurrentStreak,
		LongestStreak:    s.LongestStreak,
		LastActivityDate: s.LastActivityDate,
		Badges:           s.Badges,
		Achievements:     s.Achievements,
		Updated:          s.Updated,
	}
}

var _ engine.UserStore = (*Store)(nil)
var _ engine.PostStore = (*Store)(nil)
