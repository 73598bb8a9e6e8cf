package services

import (
	"context"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/utils"
)

type PostService interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	// AddPost sanitizes content before it is stored.
	AddPost(ctx context.Context, content string) (*models.Post, error)
}

type postService struct {
	postRepo repositories.PostRepository
}

func NewPostService(postRepo repositories.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func (s *postService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *postService) AddPost(ctx context.Context, content string) (*models.Post, error) {
	return s.postRepo.Create(ctx, utils.SanitizeHTML(content))
}
