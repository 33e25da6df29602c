package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"social-feed/internal/domain"
	"social-feed/internal/repository"
)

const createPostsTables = `
CREATE TABLE IF NOT EXISTS posts (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	user_picture_path TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	picture_path TEXT NOT NULL DEFAULT '',
	comments TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
CREATE TABLE IF NOT EXISTS post_likes (
	post_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	PRIMARY KEY (post_id, user_id),
	FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE
);
`

const selectPostColumns = `id, user_id, first_name, last_name, location, user_picture_path, description, picture_path, comments, created_at, updated_at`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPostsTables); err != nil {
		return fmt.Errorf("create posts tables: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	now := time.Now().UTC()
	post.ID = uuid.NewString()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Comments == nil {
		post.Comments = []string{}
	}

	comments, err := json.Marshal(post.Comments)
	if err != nil {
		return fmt.Errorf("encode comments: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	if _, err := tx.ExecContext(ctx, `
INSERT INTO posts (id, user_id, first_name, last_name, location, user_picture_path, description, picture_path, comments, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.FirstName,
		post.LastName,
		post.Location,
		post.UserPicturePath,
		post.Description,
		post.PicturePath,
		string(comments),
		post.CreatedAt,
		post.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	for userID, liked := range post.Likes {
		if !liked {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES (?, ?)`, post.ID, userID); err != nil {
			return fmt.Errorf("insert like: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit post: %w", err)
	}
	if post.Likes == nil {
		post.Likes = map[string]bool{}
	}
	return nil
}

func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := listPosts(ctx, r.db, `
SELECT `+selectPostColumns+`
FROM posts
ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}

	likes, err := loadLikes(ctx, r.db, `SELECT post_id, user_id FROM post_likes`)
	if err != nil {
		return nil, err
	}
	attachLikes(posts, likes)
	return posts, nil
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	posts, err := listPosts(ctx, r.db, `
SELECT `+selectPostColumns+`
FROM posts
WHERE user_id = ?
ORDER BY seq ASC`, userID)
	if err != nil {
		return nil, err
	}

	likes, err := loadLikes(ctx, r.db, `
SELECT l.post_id, l.user_id
FROM post_likes l
JOIN posts p ON p.id = l.post_id
WHERE p.user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	attachLikes(posts, likes)
	return posts, nil
}

func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (*domain.Post, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, postID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("lookup post: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("remove like: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("like rows affected: %w", err)
	}
	if removed == 0 {
		if _, err := tx.ExecContext(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES (?, ?)`, postID, userID); err != nil {
			return nil, fmt.Errorf("add like: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE posts SET updated_at = ? WHERE id = ?`, time.Now().UTC(), postID); err != nil {
		return nil, fmt.Errorf("touch post: %w", err)
	}

	post, err := getPost(ctx, tx, postID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit like: %w", err)
	}
	return post, nil
}

func getPost(ctx context.Context, q queryer, id string) (*domain.Post, error) {
	row := q.QueryRowContext(ctx, `
SELECT `+selectPostColumns+`
FROM posts
WHERE id = ?`,
		id,
	)
	post, err := scanPost(row)
	if err != nil {
		return nil, err
	}

	likes, err := loadLikes(ctx, q, `SELECT post_id, user_id FROM post_likes WHERE post_id = ?`, id)
	if err != nil {
		return nil, err
	}
	if set, ok := likes[post.ID]; ok {
		post.Likes = set
	}
	return post, nil
}

func listPosts(ctx context.Context, q queryer, query string, args ...any) ([]domain.Post, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func loadLikes(ctx context.Context, q queryer, query string, args ...any) (map[string]map[string]bool, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query likes: %w", err)
	}
	defer rows.Close()

	likes := make(map[string]map[string]bool)
	for rows.Next() {
		var postID, userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		set, ok := likes[postID]
		if !ok {
			set = make(map[string]bool)
			likes[postID] = set
		}
		set[userID] = true
	}
	return likes, rows.Err()
}

func attachLikes(posts []domain.Post, likes map[string]map[string]bool) {
	for i := range posts {
		if set, ok := likes[posts[i].ID]; ok {
			posts[i].Likes = set
		}
	}
}

func scanPost(scanner interface {
	Scan(dest ...any) error
}) (*domain.Post, error) {
	var (
		post     domain.Post
		comments string
	)
	if err := scanner.Scan(
		&post.ID,
		&post.UserID,
		&post.FirstName,
		&post.LastName,
		&post.Location,
		&post.UserPicturePath,
		&post.Description,
		&post.PicturePath,
		&comments,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	if err := json.Unmarshal([]byte(comments), &post.Comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	if post.Comments == nil {
		post.Comments = []string{}
	}
	post.Likes = map[string]bool{}
	return &post, nil
}
