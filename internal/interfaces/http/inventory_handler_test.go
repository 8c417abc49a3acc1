package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	appinv "github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/realtime"
	apphttp "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

type apiFixture struct {
	t     *testing.T
	app   *fiber.App
	store *memory.Store
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	bus := memory.NewBus()
	store := memory.NewStore(bus)
	log := logger.Nop()
	rt := realtime.NewManager(bus, log)
	t.Cleanup(rt.Close)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(store.Products(), store.Batches()),
		SettingsUC:  usecase.NewSettingsUseCase(store.Settings()),
		AdjustUC:    appinv.NewAdjustBatchesUseCase(store.TxRunner(), log),
		RestockUC:   appinv.NewRestockUseCase(store.TxRunner(), store.Settings(), log),
		AuditUC:     appinv.NewAuditUseCase(store.Products(), store.Batches(), store.Entries(), 2),
		StatementUC: appinv.NewDebtStatementUseCase(store.Batches(), store.Products(), store.Entries(), pdf.NewMarotoStatementGenerator()),
		Realtime:    rt,
		Auth:        testAuth,
	})

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "prod-1", CompanyID: testCompanyID, SKU: "SKU-1", Name: "Harina", Stock: 10, CreatedAt: now,
	}))
	require.NoError(t, store.Batches().Create(ctx, &entity.StockBatch{
		ID: "b1", ProductID: "prod-1", CompanyID: testCompanyID, Quantity: 10, RemainingQuantity: 10,
		CostPrice: decimal.NewFromInt(100), SupplierID: "sup-1", IsCredit: true,
		Status: entity.BatchStatusActive, CreatedAt: now,
	}))
	require.NoError(t, store.Entries().Create(ctx, &entity.FinanceEntry{
		ID: "debt-b1", CompanyID: testCompanyID, SourceType: entity.FinanceSourceSupplier, SourceID: "sup-1",
		Type: entity.FinanceEntryTypeSupplierDebt, Amount: decimal.NewFromInt(1000), BatchID: "b1",
		State: entity.EntryStateActive, CreatedAt: now,
	}))
	return &apiFixture{t: t, app: app, store: store}
}

func (f *apiFixture) do(method, path, body, auth string) *http.Response {
	f.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAdjustments_CreditoConReembolsoYLedger(t *testing.T) {
	f := newAPIFixture(t)
	admin := tokenForRole(t, apphttp.RoleAdmin)

	resp := f.do(http.MethodPost, "/api/inventory/products/prod-1/adjustments", `{"items":[{
		"batch_id":"b1","quantity_change":-4,"new_supply_type":"from_supplier",
		"new_supplier_id":"sup-1","new_payment_type":"credit","scenario":"adjustment"}]}`, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var batches []dto.BatchResponse
	decodeBody(t, resp, &batches)
	require.Len(t, batches, 1)
	assert.Equal(t, 6, batches[0].RemainingQuantity)

	resp = f.do(http.MethodGet, "/api/inventory/batches/b1/ledger", "", admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ledger dto.BatchLedgerResponse
	decodeBody(t, resp, &ledger)
	assert.True(t, decimal.NewFromInt(600).Equal(ledger.NetLiability), "deuda neta %s", ledger.NetLiability)
	assert.True(t, ledger.NetLiability.Equal(ledger.Expected))
	require.Len(t, ledger.Entries, 2)

	var refund *dto.FinanceEntryResponse
	for i := range ledger.Entries {
		if ledger.Entries[i].Type == entity.FinanceEntryTypeSupplierRefund {
			refund = &ledger.Entries[i]
		}
	}
	require.NotNil(t, refund)
	assert.True(t, decimal.NewFromInt(400).Equal(refund.Amount))
	assert.Equal(t, "debt-b1", refund.RefundedDebtID)
}

func TestAdjustments_BodyInvalido_Retorna400ConDetalles(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(http.MethodPost, "/api/inventory/products/prod-1/adjustments",
		`{"items":[{"batch_id":"b1","quantity_change":-1,"scenario":"robo"}]}`, tokenForRole(t, apphttp.RoleAdmin))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "VALIDATION", body.Code)
	require.NotEmpty(t, body.Details)
	assert.Contains(t, body.Details[0], "Scenario")
}

func TestAdjustments_ItemInvalido_Retorna422SinEscribir(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(http.MethodPost, "/api/inventory/products/prod-1/adjustments", `{"items":[
		{"batch_id":"b1","quantity_change":-2,"scenario":"damage"},
		{"batch_id":"b1","quantity_change":-20,"scenario":"damage"}]}`, tokenForRole(t, apphttp.RoleBodeguero))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "INVALID_QUANTITY", body.Code)
	assert.Equal(t, []string{"item=1", "batch_id=b1"}, body.Details)

	b, err := f.store.Batches().GetByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, 10, b.RemainingQuantity, "el primer ítem no debe quedar aplicado")
}

func TestAdjustments_LoteDeOtraEmpresa_Retorna403(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.store.Batches().Create(context.Background(), &entity.StockBatch{
		ID: "ajeno", ProductID: "prod-1", CompanyID: "comp-2", Quantity: 5, RemainingQuantity: 5,
		CostPrice: decimal.NewFromInt(10), IsOwnPurchase: true, Status: entity.BatchStatusActive,
	}))

	resp := f.do(http.MethodPost, "/api/inventory/products/prod-1/adjustments",
		`{"items":[{"batch_id":"ajeno","quantity_change":-1,"scenario":"damage"}]}`, tokenForRole(t, apphttp.RoleAdmin))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestAdjustments_VendedorNoPuedeAjustar(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(http.MethodPost, "/api/inventory/products/prod-1/adjustments",
		`{"items":[{"batch_id":"b1","quantity_change":-1,"scenario":"damage"}]}`, tokenForRole(t, apphttp.RoleVendedor))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRestock_Retorna201(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(http.MethodPost, "/api/inventory/products/prod-1/batches",
		`{"quantity":5,"cost_price":"20","supply_type":"own_purchase"}`, tokenForRole(t, apphttp.RoleBodeguero))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var batch dto.BatchResponse
	decodeBody(t, resp, &batch)
	assert.NotEmpty(t, batch.ID)
	assert.Equal(t, 5, batch.RemainingQuantity)
	assert.True(t, batch.IsOwnPurchase)

	p, err := f.store.Products().GetByID(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 15, p.Stock)
}

func TestSettings_PatchConNullVuelveAlDefecto(t *testing.T) {
	f := newAPIFixture(t)
	admin := tokenForRole(t, apphttp.RoleAdmin)

	resp := f.do(http.MethodPatch, "/api/inventory/settings", `{"default_payment_type":"credit","low_stock_threshold":3}`, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.SettingsResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, entity.PaymentTypeCredit, out.DefaultPaymentType)
	require.NotNil(t, out.LowStockThreshold)
	assert.Equal(t, 3, *out.LowStockThreshold)

	resp = f.do(http.MethodPatch, "/api/inventory/settings", `{"low_stock_threshold":null}`, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = dto.SettingsResponse{}
	decodeBody(t, resp, &out)
	assert.Nil(t, out.LowStockThreshold)
	assert.Equal(t, entity.PaymentTypeCredit, out.DefaultPaymentType, "campo ausente se mantiene")
}

func TestAudit_SoloAdmin(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(http.MethodGet, "/api/inventory/audit", "", tokenForRole(t, apphttp.RoleVendedor))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(http.MethodGet, "/api/inventory/audit", "", tokenForRole(t, apphttp.RoleAdmin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report dto.AuditReportResponse
	decodeBody(t, resp, &report)
	assert.True(t, report.OK, "issues: %v", report.Issues)
	assert.Equal(t, 1, report.Batches)
}

func TestDebtStatementPDF(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(http.MethodGet, "/api/inventory/batches/b1/debt-statement.pdf", "", tokenForRole(t, apphttp.RoleAdmin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestLedger_LoteInexistente_Retorna404(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(http.MethodGet, "/api/inventory/batches/nope/ledger", "", tokenForRole(t, apphttp.RoleAdmin))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_CrearYListar(t *testing.T) {
	f := newAPIFixture(t)
	admin := tokenForRole(t, apphttp.RoleAdmin)

	resp := f.do(http.MethodPost, "/api/products", `{"sku":"SKU-2","name":"Azúcar"}`, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(http.MethodPost, "/api/products", `{"sku":"SKU-2","name":"Otra"}`, admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = f.do(http.MethodGet, "/api/products?limit=10", "", tokenForRole(t, apphttp.RoleVendedor))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Items []dto.ProductResponse `json:"items"`
	}
	decodeBody(t, resp, &list)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "SKU-1", list.Items[0].SKU)
}

func TestHealth_Publico(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
