package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/model"
	"github.com/JorgeKerilima19/app-management-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const menuCacheKey = "cache:menu"

// MenuService serves the read-mostly menu. The full listing is cached in
// Redis with a short TTL; waiter tablets poll it constantly and the menu
// changes a few times a day at most.
type MenuService interface {
	ListMenu(ctx context.Context) ([]dto.MenuItemResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	GetItem(ctx context.Context, id uuid.UUID) (*dto.MenuItemResponse, error)
	GetRecipe(ctx context.Context, menuItemID uuid.UUID) ([]dto.RecipeLineResponse, error)
	InvalidateCache(ctx context.Context)
}

type menuService struct {
	repo     repository.MenuRepository
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewMenuService(repo repository.MenuRepository, rdb *redis.Client, cacheTTL time.Duration) MenuService {
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}
	return &menuService{repo: repo, rdb: rdb, cacheTTL: cacheTTL}
}

func (s *menuService) ListMenu(ctx context.Context) ([]dto.MenuItemResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, menuCacheKey).Bytes(); err == nil {
			var out []dto.MenuItemResponse
			if json.Unmarshal(cached, &out) == nil {
				return out, nil
			}
		}
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MenuItemResponse, 0, len(items))
	for i := range items {
		out = append(out, menuItemToResponse(&items[i]))
	}

	if s.rdb != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, menuCacheKey, data, s.cacheTTL).Err(); err != nil {
				log.Debug().Err(err).Msg("menu cache write failed")
			}
		}
	}
	return out, nil
}

func (s *menuService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, dto.CategoryResponse{ID: c.ID.String(), Name: c.Name})
	}
	return out, nil
}

func (s *menuService) GetItem(ctx context.Context, id uuid.UUID) (*dto.MenuItemResponse, error) {
	it, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("producto no encontrado")
		}
		return nil, err
	}
	resp := menuItemToResponse(it)
	return &resp, nil
}

func (s *menuService) GetRecipe(ctx context.Context, menuItemID uuid.UUID) ([]dto.RecipeLineResponse, error) {
	it, err := s.repo.FindItemByID(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("producto no encontrado")
		}
		return nil, err
	}
	out := make([]dto.RecipeLineResponse, 0, len(it.Recipe))
	for _, line := range it.Recipe {
		out = append(out, dto.RecipeLineResponse{
			InventoryItemID:  line.InventoryItemID.String(),
			QuantityRequired: line.QuantityRequired,
			IsOptional:       line.IsOptional,
		})
	}
	return out, nil
}

func (s *menuService) InvalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, menuCacheKey).Err(); err != nil {
		log.Debug().Err(err).Msg("menu cache invalidation failed")
	}
}

func menuItemToResponse(it *model.MenuItem) dto.MenuItemResponse {
	r := dto.MenuItemResponse{
		ID:      it.ID.String(),
		Name:    it.Name,
		Price:   it.Price,
		Station: it.Station,
	}
	if it.Category != nil {
		r.Category = it.Category.Name
	}
	return r
}
