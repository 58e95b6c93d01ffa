package handler

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"linguaflow/internal/azureai"
	"linguaflow/internal/language"
	"linguaflow/internal/media"
	"linguaflow/internal/pipeline"
)

// transcribeResponse is the success body of POST /api/transcribe.
type transcribeResponse struct {
	Success       bool               `json:"success"`
	Transcription string             `json:"transcription"`
	Language      string             `json:"language,omitempty"`
	Duration      float64            `json:"duration,omitempty"`
	Metadata      transcribeMetadata `json:"metadata"`
}

type transcribeMetadata struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Format   string `json:"format"`
}

// Transcribe handles POST /api/transcribe: multipart form with field `audio`.
func Transcribe(svc pipeline.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("audio")
		if err != nil {
			return writeAPIError(c, azureai.NewError(azureai.KindValidation, "No audio file provided"))
		}

		f, err := fh.Open()
		if err != nil {
			return writeAPIError(c, azureai.NewError(azureai.KindValidation, "cannot open uploaded file"))
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeAPIError(c, azureai.NewError(azureai.KindValidation, "cannot read uploaded file"))
		}

		result, err := svc.Transcribe(c.UserContext(), azureai.Input{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
		if err != nil {
			return writeAPIError(c, err)
		}

		return c.JSON(transcribeResponse{
			Success:       true,
			Transcription: result.Text,
			Language:      result.Language,
			Duration:      result.Duration,
			Metadata: transcribeMetadata{
				Filename: fh.Filename,
				Size:     fh.Size,
				Format:   media.Extension(fh.Filename),
			},
		})
	}
}

// translateRequest is the body of POST /api/translate.
type translateRequest struct {
	Text           string `json:"text" form:"text" validate:"required"`
	TargetLanguage string `json:"targetLanguage" form:"targetLanguage" validate:"required"`
}

// translateResponse is the success body of POST /api/translate.
type translateResponse struct {
	Translation      string `json:"translation"`
	OriginalLength   int    `json:"originalLength"`
	TranslatedLength int    `json:"translatedLength"`
	TargetLanguage   string `json:"targetLanguage"`
	Model            string `json:"model"`
}

// Translate handles POST /api/translate. Input is rejected at this boundary
// before the translation client is ever invoked.
func Translate(svc pipeline.Service, validate *validator.Validate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req translateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeValidationError(c, "Valid text content is required for translation")
		}

		if err := validate.Struct(req); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) && len(ve) > 0 {
				if ve[0].Field() == "TargetLanguage" {
					return writeValidationError(c, "Target language is required")
				}
			}
			return writeValidationError(c, "Valid text content is required for translation")
		}
		if strings.TrimSpace(req.Text) == "" {
			return writeValidationError(c, "Valid text content is required for translation")
		}
		if utf8.RuneCountInString(req.Text) > azureai.MaxTranslationChars {
			return writeValidationError(c, "Text is too long. Please limit to 50,000 characters.")
		}

		result, err := svc.Translate(c.UserContext(), req.Text, req.TargetLanguage)
		if err != nil {
			return writeAPIError(c, err)
		}

		return c.JSON(translateResponse{
			Translation:      result.TranslatedText,
			OriginalLength:   result.OriginalLength,
			TranslatedLength: result.TranslatedLength,
			TargetLanguage:   result.TargetLanguage,
			Model:            result.Model,
		})
	}
}

// Process handles POST /api/process: the end-to-end pipeline. The body is
// either multipart with a `file` field, or form/JSON carrying `text`; both
// carry `targetLanguage`.
func Process(svc pipeline.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := pipeline.ProcessRequest{}

		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeAPIError(c, azureai.NewError(azureai.KindValidation, "cannot open uploaded file"))
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return writeAPIError(c, azureai.NewError(azureai.KindValidation, "cannot read uploaded file"))
			}
			req.Filename = fh.Filename
			req.ContentType = fh.Header.Get("Content-Type")
			req.Data = data
			req.TargetLanguage = c.FormValue("targetLanguage")
		} else {
			var body translateRequest
			if err := c.BodyParser(&body); err != nil {
				return writeAPIError(c, azureai.NewError(azureai.KindValidation, "provide a file or text to process"))
			}
			req.Text = body.Text
			req.TargetLanguage = body.TargetLanguage
		}

		result, err := svc.Process(c.UserContext(), req)
		if err != nil {
			kind := azureai.KindOf(err)
			payload := fiber.Map{
				"error":     azureai.MessageOf(err),
				"code":      string(kind),
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			}
			// A failed run still reports its timeline.
			if result != nil {
				payload["runId"] = result.RunID
				payload["steps"] = result.Steps
				payload["elapsedMs"] = result.ElapsedMs
			}
			return c.Status(statusForKind(kind)).JSON(payload)
		}

		return c.JSON(result)
	}
}

// Languages handles GET /api/languages.
func Languages() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"languages": language.Supported()})
	}
}

// ListRuns handles GET /api/runs with limit & offset pagination.
func ListRuns(svc pipeline.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListRuns(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// HealthCheck handles GET /health: checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe handles GET /healthz: a plain liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
