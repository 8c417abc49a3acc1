package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

// AdjustBatchesFromRequest adapta el request HTTP al caso de uso AdjustBatches.
func (uc *AdjustBatchesUseCase) AdjustBatchesFromRequest(ctx context.Context, companyID, userID, productID string, in dto.AdjustBatchesRequest) error {
	items := make([]BatchAdjustment, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, BatchAdjustment{
			BatchID:        it.BatchID,
			QuantityChange: it.QuantityChange,
			NewCostPrice:   it.NewCostPrice,
			NewSupplyType:  it.NewSupplyType,
			NewSupplierID:  it.NewSupplierID,
			NewPaymentType: it.NewPaymentType,
			Scenario:       domaininv.Scenario(it.Scenario),
			Notes:          it.Notes,
		})
	}
	return uc.AdjustBatches(ctx, AdjustBatchesInput{
		CompanyID: companyID,
		UserID:    userID,
		ProductID: productID,
		Items:     items,
	})
}

// RestockFromRequest adapta el request HTTP al caso de uso Restock.
func (uc *RestockUseCase) RestockFromRequest(ctx context.Context, companyID, userID, productID string, in dto.RestockRequest) (*dto.BatchResponse, error) {
	batch, err := uc.Restock(ctx, RestockInput{
		CompanyID:   companyID,
		UserID:      userID,
		ProductID:   productID,
		Quantity:    in.Quantity,
		CostPrice:   in.CostPrice,
		SupplyType:  in.SupplyType,
		PaymentType: in.PaymentType,
		SupplierID:  in.SupplierID,
		Notes:       in.Notes,
	})
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(*batch)
	return &resp, nil
}

// ToBatchResponse mapea un lote a su DTO.
func ToBatchResponse(b entity.StockBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		DamagedQuantity:   b.DamagedQuantity,
		CostPrice:         b.CostPrice,
		SupplierID:        b.SupplierID,
		IsOwnPurchase:     b.IsOwnPurchase,
		IsCredit:          b.IsCredit,
		Status:            string(b.Status),
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// ToLedgerResponse mapea el estado de cuenta de un lote a su DTO.
func ToLedgerResponse(st DebtStatement) dto.BatchLedgerResponse {
	entries := make([]dto.FinanceEntryResponse, 0, len(st.Entries))
	for _, e := range st.Entries {
		entries = append(entries, dto.FinanceEntryResponse{
			ID:             e.ID,
			Type:           e.Type,
			SupplierID:     e.SourceID,
			Amount:         e.Amount,
			BatchID:        e.BatchID,
			RefundedDebtID: e.RefundedDebtID,
			IsDeleted:      e.IsDeleted(),
			Description:    e.Description,
			Date:           e.Date,
		})
	}
	return dto.BatchLedgerResponse{
		Batch:        ToBatchResponse(st.Batch),
		Entries:      entries,
		NetLiability: st.NetLiability,
		Expected:     st.Expected,
	}
}

// ToAuditResponse mapea el reporte de auditoría a su DTO.
func ToAuditResponse(r *AuditReport) dto.AuditReportResponse {
	issues := make([]dto.AuditIssueDTO, 0, len(r.Issues))
	for _, i := range r.Issues {
		issues = append(issues, dto.AuditIssueDTO{ProductID: i.ProductID, BatchID: i.BatchID, Kind: i.Kind, Detail: i.Detail})
	}
	valuations := make([]dto.ProductValuationDTO, 0, len(r.Valuations))
	for _, v := range r.Valuations {
		valuations = append(valuations, dto.ProductValuationDTO{
			ProductID:   v.ProductID,
			SKU:         v.SKU,
			Units:       v.Units,
			TotalValue:  v.TotalValue,
			AverageCost: v.AverageCost.Round(2),
		})
	}
	return dto.AuditReportResponse{
		CompanyID:  r.CompanyID,
		Products:   r.Products,
		Batches:    r.Batches,
		TotalValue: r.TotalValue,
		OK:         r.OK(),
		Valuations: valuations,
		Issues:     issues,
	}
}
