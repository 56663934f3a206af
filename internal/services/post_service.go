package services

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmartell/postboard-be/internal/models"
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	CreatePost(userID, title, content string) (models.Post, error)
	GetAllPosts() ([]models.Post, error)
	UpdatePost(id, title, content string) (models.Post, error)
	DeletePost(id string) error
}

// PostService provides business logic for post management.
type PostService struct {
	db *sql.DB
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB) *PostService {
	return &PostService{db: db}
}

// CreatePost persists a new post owned by the given user.
func (s *PostService) CreatePost(userID, title, content string) (models.Post, error) {
	if title == "" || content == "" {
		return models.Post{}, ErrValidation
	}

	post := models.Post{
		ID:      uuid.New().String(),
		Title:   title,
		Content: content,
		UserID:  userID,
	}

	_, err := s.db.Exec("INSERT INTO posts(id, title, content, user_id) VALUES(?, ?, ?, ?)",
		post.ID, post.Title, post.Content, post.UserID)
	if err != nil {
		return models.Post{}, err
	}

	return s.GetPostByID(post.ID)
}

// GetPostByID retrieves a single post with its author's username resolved.
func (s *PostService) GetPostByID(id string) (models.Post, error) {
	row := s.db.QueryRow(`
		SELECT p.id, p.title, p.content, p.user_id, u.username, p.created_at
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE p.id = ?`, id)
	return scanPost(row)
}

// GetAllPosts retrieves every post with author usernames resolved. The
// feed is global: posts are not filtered by the caller's identity.
func (s *PostService) GetAllPosts() ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.title, p.content, p.user_id, u.username, p.created_at
		FROM posts p JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// UpdatePost replaces a post's title and content. Any authenticated
// caller can update any post; ownership is not checked.
func (s *PostService) UpdatePost(id, title, content string) (models.Post, error) {
	if title == "" || content == "" {
		return models.Post{}, ErrValidation
	}

	res, err := s.db.Exec("UPDATE posts SET title = ?, content = ? WHERE id = ?", title, content, id)
	if err != nil {
		return models.Post{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Post{}, err
	}
	if affected == 0 {
		return models.Post{}, ErrNotFound
	}

	return s.GetPostByID(id)
}

// DeletePost removes a post by id. Ownership is not checked.
func (s *PostService) DeletePost(id string) error {
	res, err := s.db.Exec("DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanPost reads one joined post row from a row or rows object.
func scanPost(scanner interface{ Scan(...interface{}) error }) (models.Post, error) {
	var post models.Post
	err := scanner.Scan(&post.ID, &post.Title, &post.Content, &post.UserID, &post.AuthorUsername, &post.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}
