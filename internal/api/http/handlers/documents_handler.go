package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/docuport/console-gateway/internal/auth"
	"github.com/docuport/console-gateway/internal/resources"
	apperrors "github.com/docuport/console-gateway/pkg/util"
)

// DocumentsHandler exposes document and folder operations. Which endpoint
// family serves them is decided inside the resource router, never here.
type DocumentsHandler struct {
	router *resources.Router
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(router *resources.Router) *DocumentsHandler {
	return &DocumentsHandler{router: router}
}

// List handles GET /documents. Omitting the folder query means all folders;
// folder= selects the unfiled root; folder=<name> selects one folder.
func (h *DocumentsHandler) List(c *fiber.Ctx) error {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("not signed in", nil)
	}

	var folder *string
	if c.Request().URI().QueryArgs().Has("folder") {
		value := c.Query("folder")
		folder = &value
	}

	docs, err := h.router.ListDocuments(c.UserContext(), sess, folder)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"documents": docs}})
}

// Upload handles POST /documents as multipart form data. Uploading into a
// folder that does not exist yet creates it on the platform.
func (h *DocumentsHandler) Upload(c *fiber.Ctx) error {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("not signed in", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable file", nil)
	}
	defer file.Close()

	doc, err := h.router.UploadDocument(c.UserContext(), sess, file, fileHeader.Filename, c.FormValue("folder"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"document": doc}})
}

// Folders handles GET /folders.
func (h *DocumentsHandler) Folders(c *fiber.Ctx) error {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("not signed in", nil)
	}

	folders, err := h.router.ListFolders(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"folders": folders}})
}
