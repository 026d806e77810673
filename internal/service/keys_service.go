package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/creatorpulse/analytics-api/internal/models"
	"github.com/creatorpulse/analytics-api/internal/repository"
)

type ApiKeyService interface {
	Create(ctx context.Context, label string) (string, error)
	List(ctx context.Context) ([]*models.ApiKey, error)
	Validate(ctx context.Context, apiKey string) error
	Remove(ctx context.Context, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{k: k}
}

func (s *apiKeyService) Create(ctx context.Context, label string) (string, error) {
	keys, err := s.k.List(ctx)
	if err != nil {
		return "", err
	}
	if len(keys) > 4 {
		err = errors.New("Only 5 API Keys can be created.")
		slog.Info(err.Error())
		return "", err
	}

	key, err := gonanoid.New(40)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("Error generating API key")
	}

	apiKey := &models.ApiKey{
		Label:  label,
		ApiKey: key,
	}
	if _, err := s.k.Create(ctx, apiKey); err != nil {
		return "", fmt.Errorf("Error saving API key")
	}
	return key, nil
}

func (s *apiKeyService) List(ctx context.Context) ([]*models.ApiKey, error) {
	keys, err := s.k.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("Error getting API keys")
	}
	return keys, nil
}

func (s *apiKeyService) Validate(ctx context.Context, apiKey string) error {
	exists, err := s.k.Exists(ctx, apiKey)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New("Key doesn't exist")
	}
	return nil
}

func (s *apiKeyService) Remove(ctx context.Context, keyID int64) error {
	if keyID == 0 {
		err := errors.New("KeyID is not valid")
		slog.Info(err.Error())
		return err
	}
	return s.k.Delete(ctx, keyID)
}
