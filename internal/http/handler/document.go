package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"memberdoc/internal/logger"
	"memberdoc/internal/model"
	"memberdoc/internal/service"
)

// GenerateDocx handles POST /api/generate-docx.
//
// Every failure, including a malformed body or a missing field, answers 500 with the
// error envelope; the cause is only logged.
func GenerateDocx(svc service.DocumentService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var rec model.MemberRecord
		if err := c.BodyParser(&rec); err != nil {
			logger.WithContext(ctx, log).Warn("decode member record failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "GENERATION_FAILED", "failed to generate document")
		}

		doc, err := svc.Generate(ctx, rec)
		if err != nil {
			logger.WithContext(ctx, log).Error("generate docx failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "GENERATION_FAILED", "failed to generate document")
		}

		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Set(fiber.HeaderContentDisposition, attachmentDisposition(doc.Filename))
		return c.Status(fiber.StatusOK).Send(doc.Content)
	}
}

// PreviewDoc handles POST /api/preview-doc. Errors are reported exactly like GenerateDocx.
func PreviewDoc(svc service.DocumentService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var rec model.MemberRecord
		if err := c.BodyParser(&rec); err != nil {
			logger.WithContext(ctx, log).Warn("decode member record failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "GENERATION_FAILED", "failed to generate document")
		}

		doc, err := svc.Preview(ctx, rec)
		if err != nil {
			logger.WithContext(ctx, log).Error("preview failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "GENERATION_FAILED", "failed to generate document")
		}

		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Set(fiber.HeaderContentDisposition, inlineDisposition(doc.Filename))
		return c.Status(fiber.StatusOK).Send(doc.Content)
	}
}

// ListGenerationEvents handles GET /api/generation-events with limit & offset.
func ListGenerationEvents(svc service.DocumentService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListEvents(c.UserContext(), limit, offset)
		if err != nil {
			logger.WithContext(c.UserContext(), log).Error("list generation events failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
