package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	sdomain "github.com/BanhTheCake/getnokori/internal/settings/domain"
)

type Service struct{ repo sdomain.Repository }

func New(repo sdomain.Repository) *Service { return &Service{repo: repo} }

func (s *Service) GetString(ctx context.Context, key string, accountID *uuid.UUID, def string) (string, error) {
	v, ok, err := s.repo.Get(ctx, key, accountID)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	return v, nil
}

func (s *Service) Set(ctx context.Context, key string, accountID *uuid.UUID, value string) error {
	return s.repo.Upsert(ctx, key, accountID, value, sdomain.Secret(key))
}
