package service

import (
	"context"

	"unintend-backend/internal/domain"
	"unintend-backend/internal/repository"
)

// PostService serves the internship feed.
type PostService interface {
	ListActive(ctx context.Context) ([]domain.InternshipPost, error)
}

type postService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) PostService {
	return &postService{posts: posts}
}

func (s *postService) ListActive(ctx context.Context) ([]domain.InternshipPost, error) {
	posts, err := s.posts.ListActiveInternshipPosts(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.InternshipPost{}
	}
	return posts, nil
}
