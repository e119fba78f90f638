package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"dormhop/backend/internal/dto"
	pkgerrors "dormhop/backend/pkg/errors"
	"dormhop/backend/pkg/features"
)

var (
	ErrDormNotFound        = pkgerrors.New(pkgerrors.KindNotFound, "dorm not found")
	ErrFeaturesUnavailable = pkgerrors.New(pkgerrors.KindUnavailable, "dorm features are unavailable right now")
)

// FeatureLookup dorm name to community features
type FeatureLookup interface {
	Get(ctx context.Context, dormName string) ([]string, error)
}

// DormService dorm catalogue and scraped features
type DormService interface {
	List() []dto.DormResponse
	Features(ctx context.Context, name string) (*dto.DormFeaturesResponse, error)
}

type dormService struct {
	catalog *features.Catalog
	lookup  FeatureLookup
	logger  *zap.Logger
}

// NewDormService creates a DormService
func NewDormService(catalog *features.Catalog, lookup FeatureLookup, logger *zap.Logger) DormService {
	return &dormService{catalog: catalog, lookup: lookup, logger: logger}
}

func (s *dormService) List() []dto.DormResponse {
	if s.catalog == nil {
		return []dto.DormResponse{}
	}
	dorms := s.catalog.All()
	out := make([]dto.DormResponse, 0, len(dorms))
	for _, d := range dorms {
		out = append(out, dto.DormResponse{Name: d.Name, Slug: d.Slug, URL: d.URL})
	}
	return out
}

func (s *dormService) Features(ctx context.Context, name string) (*dto.DormFeaturesResponse, error) {
	if s.catalog == nil || s.lookup == nil {
		return nil, ErrFeaturesUnavailable
	}
	dorm, ok := s.catalog.Lookup(name)
	if !ok {
		return nil, ErrDormNotFound
	}

	feats, err := s.lookup.Get(ctx, dorm.Name)
	if err != nil {
		if errors.Is(err, features.ErrUnknownDorm) {
			return nil, ErrDormNotFound
		}
		s.logger.Warn("dorm feature lookup failed", zap.String("dorm", dorm.Slug), zap.Error(err))
		return nil, ErrFeaturesUnavailable
	}
	return &dto.DormFeaturesResponse{Dorm: dorm.Name, Features: feats}, nil
}
