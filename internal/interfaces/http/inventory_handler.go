package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/realtime"
)

const streamPingInterval = 15 * time.Second

// InventoryHandler ajustes, reposiciones, estado de cuenta y suscripciones de lotes.
type InventoryHandler struct {
	adjustUC    *inventory.AdjustBatchesUseCase
	restockUC   *inventory.RestockUseCase
	auditUC     *inventory.AuditUseCase
	statementUC *inventory.DebtStatementUseCase
	productUC   *usecase.ProductUseCase
	realtime    *realtime.Manager
}

// NewInventoryHandler construye el handler. realtime puede ser nil (sin stream).
func NewInventoryHandler(
	adjustUC *inventory.AdjustBatchesUseCase,
	restockUC *inventory.RestockUseCase,
	auditUC *inventory.AuditUseCase,
	statementUC *inventory.DebtStatementUseCase,
	productUC *usecase.ProductUseCase,
	rt *realtime.Manager,
) *InventoryHandler {
	return &InventoryHandler{
		adjustUC:    adjustUC,
		restockUC:   restockUC,
		auditUC:     auditUC,
		statementUC: statementUC,
		productUC:   productUC,
		realtime:    rt,
	}
}

// AdjustBatches godoc
// @Summary      Ajustar lotes de un producto
// @Description  Aplica todos los ítems en una sola transacción. Si un ítem falla no se escribe nada y details indica cuál.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.AdjustBatchesRequest  true  "Ítems de ajuste"
// @Success      200   {array}   dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/adjustments [post]
func (h *InventoryHandler) AdjustBatches(c *fiber.Ctx) error {
	companyID, ok, err := requireCompany(c)
	if !ok {
		return err
	}
	var in dto.AdjustBatchesRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	productID := c.Params("id")
	if err := h.adjustUC.AdjustBatchesFromRequest(c.Context(), companyID, GetUserID(c), productID, in); err != nil {
		return writeError(c, err)
	}
	batches, err := h.productUC.ListBatches(c.Context(), companyID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(batches)
}

// Restock godoc
// @Summary      Registrar entrada de mercancía
// @Description  Crea un lote nuevo. Si es a crédito de proveedor registra la deuda inicial.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del producto"
// @Param        body  body  dto.RestockRequest  true  "Datos del lote"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/batches [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	companyID, ok, err := requireCompany(c)
	if !ok {
		return err
	}
	var in dto.RestockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.restockUC.RestockFromRequest(c.Context(), companyID, GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// BatchLedger godoc
// @Summary      Historial contable de un lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchLedgerResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id}/ledger [get]
func (h *InventoryHandler) BatchLedger(c *fiber.Ctx) error {
	companyID, ok, err := requireCompany(c)
	if !ok {
		return err
	}
	st, err := h.statementUC.Build(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToLedgerResponse(*st))
}

// DebtStatementPDF godoc
// @Summary      Estado de cuenta del lote en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id}/debt-statement.pdf [get]
func (h *InventoryHandler) DebtStatementPDF(c *fiber.Ctx) error {
	companyID, ok, err := requireCompany(c)
	if !ok {
		return err
	}
	batchID := c.Params("id")
	pdf, err := h.statementUC.Render(c.Context(), companyID, batchID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=estado-cuenta-%s.pdf", batchID))
	return c.Send(pdf)
}

// Audit godoc
// @Summary      Auditoría del libro de inventario
// @Description  Verifica cantidades, estados, stock de productos y deuda neta de cada lote.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AuditReportResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/audit [get]
func (h *InventoryHandler) Audit(c *fiber.Ctx) error {
	companyID, ok, err := requireCompany(c)
	if !ok {
		return err
	}
	report, err := h.auditUC.AuditCompany(c.Context(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToAuditResponse(report))
}

// Stream godoc
// @Summary      Cambios de stock en vivo (SSE)
// @Tags         inventory
// @Security     Bearer
// @Produce      text/event-stream
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {string}  string  "eventos stock"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/stream [get]
func (h *InventoryHandler) Stream(c *fiber.Ctx) error {
	companyID, ok, err := requireCompany(c)
	if !ok {
		return err
	}
	if h.realtime == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STREAM_DISABLED", Message: "suscripciones no disponibles"})
	}
	productID := c.Params("id")
	if _, err := h.productUC.GetByID(c.Context(), companyID, productID); err != nil {
		return writeError(c, err)
	}

	// El contexto de fiber se recicla al terminar el handler; el stream vive en su propio contexto.
	events, unsubscribe := h.realtime.Subscribe(context.Background(), realtime.Query{CompanyID: companyID, ProductID: productID})

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		ticker := time.NewTicker(streamPingInterval)
		defer ticker.Stop()

		if _, err := fmt.Fprint(w, ": ok\n\n"); err != nil || w.Flush() != nil {
			return
		}
		for {
			select {
			case ev, open := <-events:
				if !open {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: stock\ndata: %s\n\n", payload)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}
