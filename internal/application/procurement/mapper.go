package procurement

import (
	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

func toPOResponse(po *entity.PurchaseOrder) *dto.POResponse {
	out := &dto.POResponse{
		ID:                   po.ID,
		PONumber:             po.PONumber,
		OrderDate:            po.OrderDate,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		Status:               po.Status,
		TotalAmount:          po.TotalAmount,
		Notes:                po.Notes,
		SupplierID:           po.SupplierID,
		StoreID:              po.StoreID,
		ApprovedBy:           po.ApprovedBy,
		ApprovedAt:           po.ApprovedAt,
		RejectionReason:      po.RejectionReason,
		ConfirmedBy:          po.ConfirmedBy,
		ConfirmedAt:          po.ConfirmedAt,
		SentAt:               po.SentAt,
		ActualDeliveryDate:   po.ActualDeliveryDate,
		SupplierNotes:        po.SupplierNotes,
		DispatchDigest:       po.DispatchDigest,
		CreatedBy:            po.CreatedBy,
		Items:                make([]dto.POLineResponse, 0, len(po.Items)),
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	}
	for _, l := range po.Items {
		out.Items = append(out.Items, dto.POLineResponse{
			ID:          l.ID,
			ItemID:      l.ItemID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TotalAmount: l.TotalAmount,
			Unit:        l.Unit,
		})
	}
	return out
}

func toStockRequestResponse(r *entity.StockRequest) dto.StockRequestResponse {
	return dto.StockRequestResponse{
		ID:           r.ID,
		StoreID:      r.StoreID,
		ItemID:       r.ItemID,
		RequestedQty: r.RequestedQty,
		Status:       r.Status,
		Priority:     r.Priority,
		RequestedBy:  r.RequestedBy,
		POID:         r.POID,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toGRNResponse(g *entity.GoodsReceipt) *dto.GRNResponse {
	out := &dto.GRNResponse{
		ID:           g.ID,
		GRNNumber:    g.GRNNumber,
		POID:         g.POID,
		ReceivedBy:   g.ReceivedBy,
		ReceivedDate: g.ReceivedDate,
		Notes:        g.Notes,
		CreatedAt:    g.CreatedAt,
	}
	for _, l := range g.Items {
		out.Items = append(out.Items, dto.GRNLineResponse{
			ID:          l.ID,
			ItemID:      l.ItemID,
			BatchID:     l.BatchID,
			BatchNo:     l.BatchNo,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			ExpiryDate:  l.ExpiryDate,
			Temperature: l.Temperature,
		})
	}
	return out
}
