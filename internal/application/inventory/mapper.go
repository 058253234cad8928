package inventory

import (
	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// ToBatchResponse convierte un lote en su DTO. Lo usan también recepciones y el ajuste admin.
func ToBatchResponse(b *entity.InventoryBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:             b.ID,
		ItemID:         b.ItemID,
		StoreID:        b.StoreID,
		BatchNo:        b.BatchNo,
		ExpiryDate:     b.ExpiryDate,
		QuantityOnHand: b.QuantityOnHand,
		Temperature:    b.Temperature,
		UnitCost:       b.UnitCost,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toTransactionResponse(t *entity.InventoryTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            t.ID,
		BatchID:       t.BatchID,
		ItemID:        t.ItemID,
		Type:          t.Type,
		Quantity:      t.Quantity,
		ReferenceType: t.ReferenceType,
		ReferenceID:   t.ReferenceID,
		Notes:         t.Notes,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
	}
}

func toSaleResponse(s *entity.SalesTransaction) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:           s.ID,
		ItemID:       s.ItemID,
		StoreID:      s.StoreID,
		Quantity:     s.Quantity,
		UnitPrice:    s.UnitPrice,
		TotalAmount:  s.TotalAmount,
		CostPrice:    s.CostPrice,
		TotalCost:    s.TotalCost,
		GrossProfit:  s.GrossProfit,
		CustomerName: s.CustomerName,
		SaleDate:     s.SaleDate,
		CreatedBy:    s.CreatedBy,
		CreatedAt:    s.CreatedAt,
	}
}
