package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

const defaultMaxStockLevel = 100

// ItemUseCase casos de uso del catálogo. Las existencias viven en los lotes.
type ItemUseCase struct {
	repo  repository.ItemRepository
	stock *inventory.StockCalculator
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, stock *inventory.StockCalculator) *ItemUseCase {
	return &ItemUseCase{repo: repo, stock: stock}
}

// Create crea un ítem con SKU único.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.Item{
		ID:             uuid.New().String(),
		ItemName:       in.ItemName,
		SKU:            in.SKU,
		Category:       in.Category,
		Unit:           in.Unit,
		MinStockLevel:  entity.DefaultMinStockLevel,
		MaxStockLevel:  defaultMaxStockLevel,
		SafetyStock:    in.SafetyStock,
		StorageType:    in.StorageType,
		MinTemperature: in.MinTemperature,
		MaxTemperature: in.MaxTemperature,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.MinStockLevel != nil {
		item.MinStockLevel = *in.MinStockLevel
	}
	if in.MaxStockLevel != nil {
		item.MaxStockLevel = *in.MaxStockLevel
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Update actualiza los campos enviados. El SKU no cambia.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ItemName != nil {
		item.ItemName = *in.ItemName
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.MinStockLevel != nil {
		item.MinStockLevel = *in.MinStockLevel
	}
	if in.MaxStockLevel != nil {
		item.MaxStockLevel = *in.MaxStockLevel
	}
	if in.SafetyStock != nil {
		item.SafetyStock = in.SafetyStock
	}
	if in.StorageType != nil {
		item.StorageType = *in.StorageType
	}
	if in.MinTemperature != nil {
		item.MinTemperature = in.MinTemperature
	}
	if in.MaxTemperature != nil {
		item.MaxTemperature = in.MaxTemperature
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista ítems con búsqueda por nombre o SKU.
func (uc *ItemUseCase) List(ctx context.Context, q dto.ItemListQuery) (*dto.ItemListResponse, error) {
	q.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		Search:      q.Search,
		Category:    q.Category,
		StorageType: q.StorageType,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *toItemResponse(i))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Delete desactiva el ítem.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	item, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	item.IsActive = false
	item.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, item)
}

// CurrentStock existencias del ítem; storeID vacío = todas las tiendas.
func (uc *ItemUseCase) CurrentStock(ctx context.Context, id, storeID string) (*dto.ItemStockResponse, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	qty, err := uc.stock.CurrentStock(ctx, id, storeID)
	if err != nil {
		return nil, err
	}
	return &dto.ItemStockResponse{ItemID: id, StoreID: storeID, CurrentStock: qty}, nil
}

// SafetyStock stock de seguridad del ítem comparado con las existencias.
func (uc *ItemUseCase) SafetyStock(ctx context.Context, id, storeID string) (*dto.SafetyStockResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	safety, err := uc.stock.SafetyStock(ctx, item, storeID)
	if err != nil {
		return nil, err
	}
	current, err := uc.stock.CurrentStock(ctx, id, storeID)
	if err != nil {
		return nil, err
	}
	return &dto.SafetyStockResponse{
		ItemID:       id,
		StoreID:      storeID,
		SafetyStock:  safety.Value,
		CurrentStock: current,
		BelowSafety:  current < safety.Value,
		Source:       safety.Source,
		LeadTimeDays: safety.LeadTimeDays,
		SoldLast30d:  safety.SoldQty,
	}, nil
}

func (uc *ItemUseCase) get(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func validateItem(i *entity.Item) error {
	if i.MaxStockLevel > 0 && i.MinStockLevel > i.MaxStockLevel {
		return fmt.Errorf("%w: min_stock_level mayor que max_stock_level", domain.ErrInvalidInput)
	}
	if i.MinTemperature != nil && i.MaxTemperature != nil && *i.MinTemperature > *i.MaxTemperature {
		return fmt.Errorf("%w: min_temperature mayor que max_temperature", domain.ErrInvalidInput)
	}
	if i.StorageType != entity.StorageCold && i.StorageType != entity.StorageFrozen {
		return fmt.Errorf("%w: storage_type debe ser cold o frozen", domain.ErrInvalidInput)
	}
	return nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:             i.ID,
		ItemName:       i.ItemName,
		SKU:            i.SKU,
		Category:       i.Category,
		Unit:           i.Unit,
		MinStockLevel:  i.MinStockLevel,
		MaxStockLevel:  i.MaxStockLevel,
		SafetyStock:    i.SafetyStock,
		StorageType:    i.StorageType,
		MinTemperature: i.MinTemperature,
		MaxTemperature: i.MaxTemperature,
		IsActive:       i.IsActive,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}
