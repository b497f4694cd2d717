package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"abroad-compass/backend/config"
	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/repository"
	pkgerrors "abroad-compass/backend/pkg/errors"
	"abroad-compass/backend/pkg/redis"
)

const catalogCacheKey = "catalog:universities"

// CatalogService 院校目录读取（Redis 缓存 + singleflight）与导入
type CatalogService interface {
	List(ctx context.Context) ([]model.University, error)
	// Import 按名称批量插入或更新，完成后清除缓存
	Import(ctx context.Context, universities []model.University) (int, error)
}

type catalogService struct {
	repo   *repository.Repository
	cache  *redis.Client // 可为 nil，此时直接读库
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(
	cfg *config.RedisConfig,
	repo *repository.Repository,
	cache *redis.Client,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		repo:   repo,
		cache:  cache,
		ttl:    cfg.CatalogTTL,
		logger: logger,
	}
}

func (s *catalogService) List(ctx context.Context) ([]model.University, error) {
	if s.cache != nil {
		var cached []model.University
		err := s.cache.GetJSON(ctx, catalogCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取目录缓存失败，回退数据库", zap.Error(err))
		}
	}

	v, err, _ := s.group.Do(catalogCacheKey, func() (any, error) {
		list, err := s.repo.University.List(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetJSON(ctx, catalogCacheKey, list, s.ttl); err != nil {
				s.logger.Warn("写入目录缓存失败", zap.Error(err))
			}
		}
		return list, nil
	})
	if err != nil {
		s.logger.Error("查询院校目录失败", zap.Error(err))
		return nil, pkgerrors.Persistence("failed to load university catalog", err)
	}
	return v.([]model.University), nil
}

func (s *catalogService) Import(ctx context.Context, universities []model.University) (int, error) {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i := range universities {
			if err := tx.University.Upsert(ctx, &universities[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("导入院校目录失败", zap.Error(err))
		return 0, pkgerrors.Persistence("failed to import catalog", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
			s.logger.Warn("清除目录缓存失败", zap.Error(err))
		}
	}
	s.logger.Info("院校目录导入完成", zap.Int("count", len(universities)))
	return len(universities), nil
}
