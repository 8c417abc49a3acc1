package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseBody decodifica y valida el body. Si falla ya escribió la respuesta 400 y devuelve false.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Details: validationDetails(err),
		})
	}
	return true, nil
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			out = append(out, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", field, fe.Tag()))
	}
	return out
}

// writeError traduce errores de dominio a respuestas HTTP. Si el error viene de un ítem de
// ajuste, Details indica cuál.
func writeError(c *fiber.Ctx, err error) error {
	resp := dto.ErrorResponse{Message: err.Error()}
	var be *inventory.BatchError
	if errors.As(err, &be) {
		resp.Details = []string{fmt.Sprintf("item=%d", be.Index), "batch_id=" + be.BatchID}
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, resp.Code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, resp.Code = fiber.StatusUnprocessableEntity, "INVALID_QUANTITY"
	case errors.Is(err, domain.ErrSupplierRequired):
		status, resp.Code = fiber.StatusUnprocessableEntity, "SUPPLIER_REQUIRED"
	case errors.Is(err, domain.ErrNotFound):
		status, resp.Code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		status, resp.Code = fiber.StatusForbidden, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, resp.Code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrDuplicate):
		status, resp.Code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrPersistence):
		status, resp.Code = fiber.StatusServiceUnavailable, "PERSISTENCE"
		resp.Message = domain.ErrPersistence.Error()
	default:
		resp.Code, resp.Message = "INTERNAL", "error interno"
	}
	return c.Status(status).JSON(resp)
}

func requireCompany(c *fiber.Ctx) (string, bool, error) {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return "", false, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	return companyID, true, nil
}
