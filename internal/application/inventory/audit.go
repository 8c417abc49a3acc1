package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Tipos de hallazgo de auditoría.
const (
	IssueRemainingOutOfBounds = "remaining_out_of_bounds"
	IssueStatusMismatch       = "status_mismatch"
	IssueProductStock         = "product_stock_mismatch"
	IssueLiability            = "liability_mismatch"
)

const auditPageSize = 200

// AuditIssue inconsistencia detectada en el libro de una empresa.
type AuditIssue struct {
	ProductID string
	BatchID   string
	Kind      string
	Detail    string
}

// AuditReport resultado de auditar todos los productos de una empresa.
type AuditReport struct {
	CompanyID  string
	Products   int
	Batches    int
	TotalValue decimal.Decimal
	Valuations []ProductValuation
	Issues     []AuditIssue
}

// ProductValuation remanente valorizado de un producto.
type ProductValuation struct {
	ProductID   string
	SKU         string
	Units       int
	TotalValue  decimal.Decimal
	AverageCost decimal.Decimal
}

// OK indica que no hubo hallazgos.
func (r *AuditReport) OK() bool { return len(r.Issues) == 0 }

// AuditUseCase verifica los invariantes del libro de lotes (lectura, sin transacción).
type AuditUseCase struct {
	products    repository.ProductRepository
	batches     repository.StockBatchRepository
	entries     repository.FinanceEntryRepository
	concurrency int
}

// NewAuditUseCase construye el caso de uso; concurrency <= 0 usa 4.
func NewAuditUseCase(
	products repository.ProductRepository,
	batches repository.StockBatchRepository,
	entries repository.FinanceEntryRepository,
	concurrency int,
) *AuditUseCase {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &AuditUseCase{products: products, batches: batches, entries: entries, concurrency: concurrency}
}

// AuditCompany recorre los productos de la empresa en paralelo acotado y acumula hallazgos.
func (uc *AuditUseCase) AuditCompany(ctx context.Context, companyID string) (*AuditReport, error) {
	report := &AuditReport{CompanyID: companyID, TotalValue: decimal.Zero}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for offset := 0; ; offset += auditPageSize {
		page, err := uc.products.ListByCompany(ctx, companyID, auditPageSize, offset)
		if err != nil {
			_ = g.Wait()
			return nil, fmt.Errorf("listar productos: %w", err)
		}
		for _, p := range page {
			g.Go(func() error {
				issues, batches, valuation, err := uc.auditProduct(gctx, p)
				if err != nil {
					return fmt.Errorf("producto %s: %w", p.ID, err)
				}
				mu.Lock()
				report.Products++
				report.Batches += batches
				report.TotalValue = report.TotalValue.Add(valuation.TotalValue)
				report.Valuations = append(report.Valuations, valuation)
				report.Issues = append(report.Issues, issues...)
				mu.Unlock()
				return nil
			})
		}
		if len(page) < auditPageSize {
			break
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Valuations, func(i, j int) bool {
		return report.Valuations[i].ProductID < report.Valuations[j].ProductID
	})
	sort.Slice(report.Issues, func(i, j int) bool {
		a, b := report.Issues[i], report.Issues[j]
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		if a.BatchID != b.BatchID {
			return a.BatchID < b.BatchID
		}
		return a.Kind < b.Kind
	})
	return report, nil
}

func (uc *AuditUseCase) auditProduct(ctx context.Context, p entity.Product) ([]AuditIssue, int, ProductValuation, error) {
	batches, err := uc.batches.ListByProduct(ctx, p.CompanyID, p.ID)
	if err != nil {
		return nil, 0, ProductValuation{}, err
	}
	var issues []AuditIssue
	sum := 0
	for _, b := range batches {
		if b.Status != entity.BatchStatusCorrected {
			sum += b.RemainingQuantity
		}
		if b.RemainingQuantity < 0 || b.RemainingQuantity > b.Quantity {
			issues = append(issues, AuditIssue{p.ID, b.ID, IssueRemainingOutOfBounds,
				fmt.Sprintf("remanente %d, cantidad %d", b.RemainingQuantity, b.Quantity)})
		}
		if b.Status != entity.BatchStatusCorrected && (b.Status == entity.BatchStatusDepleted) != (b.RemainingQuantity == 0) {
			issues = append(issues, AuditIssue{p.ID, b.ID, IssueStatusMismatch,
				fmt.Sprintf("estado %s con remanente %d", b.Status, b.RemainingQuantity)})
		}

		entries, err := uc.entries.Find(ctx, repository.ActiveBatchEntries(p.CompanyID, b.ID))
		if err != nil {
			return nil, 0, ProductValuation{}, err
		}
		net := domaininv.NetLiability(entries)
		low, high := domaininv.LiabilityRange(b)
		if net.LessThan(low) || net.GreaterThan(high) {
			want := low.String()
			if !low.Equal(high) {
				want = fmt.Sprintf("entre %s y %s", low.String(), high.String())
			}
			issues = append(issues, AuditIssue{p.ID, b.ID, IssueLiability,
				fmt.Sprintf("pasivo neto %s, esperado %s", net.String(), want)})
		}
	}
	if sum != p.Stock {
		issues = append(issues, AuditIssue{p.ID, "", IssueProductStock,
			fmt.Sprintf("stock %d, suma de remanentes %d", p.Stock, sum)})
	}
	v := domaininv.ValueBatches(batches)
	return issues, len(batches), ProductValuation{
		ProductID:   p.ID,
		SKU:         p.SKU,
		Units:       v.Units,
		TotalValue:  v.TotalValue,
		AverageCost: v.AverageCost,
	}, nil
}
