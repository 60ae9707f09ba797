package handler

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"papyr/internal/http/middleware"
	"papyr/internal/service"
)

type registerUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type updateDocumentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type collaboratorRequest struct {
	Email string `json:"email"`
}

type shareableRequest struct {
	Enabled bool `json:"enabled"`
}

type inviteRequest struct {
	Email    string `json:"email"`
	TTLHours int    `json:"ttl_hours"`
}

// actorID returns the authenticated user ID stored by the Auth middleware.
func actorID(c *fiber.Ctx) string {
	if v, ok := c.Locals(middleware.ActorIDLocalKey).(string); ok {
		return v
	}
	return ""
}

// documentID returns the :id path parameter and whether it is a valid UUID.
func documentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	_, err := uuid.Parse(id)
	return id, err == nil
}

// HealthCheck reports readiness based on database connectivity.
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

// LivenessProbe answers 200 whenever the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// RegisterUser creates a user account. Token issuance is handled by the
// identity provider, not here.
func RegisterUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerUserRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			return writeError(c, fiber.StatusBadRequest, "INVALID_EMAIL", "a valid email is required")
		}
		user, err := svc.Register(c.UserContext(), req.Email, req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// ListDocuments returns the documents the actor owns or collaborates on.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), actorID(c), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument registers a document and stores its PDF content. Expects
// multipart/form-data with a "file" part plus "title" and "description".
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "only PDF files are allowed")
		}
		title := c.FormValue("title")
		if title == "" {
			return writeError(c, fiber.StatusBadRequest, "TITLE_REQUIRED", "title is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := svc.Create(c.UserContext(), actorID(c), service.CreateDocumentInput{
			Title:       title,
			Description: c.FormValue("description"),
			Filename:    fh.Filename,
			Size:        fh.Size,
			ContentType: "application/pdf",
		}, f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns document metadata for readers.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument streams the stored PDF to readers.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, info, err := svc.Download(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, info.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+id+`.pdf"`)
		return c.SendStream(rc, int(info.Size))
	}
}

// UpdateDocument patches title and/or description. Owner only.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		doc, err := svc.Update(c.UserContext(), actorID(c), id, service.UpdateDocumentInput{
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes the stored file and then the record. Owner only.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), actorID(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AddCollaborator grants the user behind the given email permanent access.
func AddCollaborator(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req collaboratorRequest
		if err := c.BodyParser(&req); err != nil || req.Email == "" {
			return writeError(c, fiber.StatusBadRequest, "EMAIL_REQUIRED", "email is required")
		}
		doc, err := svc.AddCollaborator(c.UserContext(), actorID(c), id, req.Email)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// RemoveCollaborator revokes permanent access.
func RemoveCollaborator(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req collaboratorRequest
		if err := c.BodyParser(&req); err != nil || req.Email == "" {
			return writeError(c, fiber.StatusBadRequest, "EMAIL_REQUIRED", "email is required")
		}
		doc, err := svc.RemoveCollaborator(c.UserContext(), actorID(c), id, req.Email)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// GetShareToken returns the current share token while sharing is enabled.
func GetShareToken(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		token, err := svc.IssueShareToken(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"share_token": token})
	}
}

// SetShareable flips the document's sharing gate.
func SetShareable(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req shareableRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		doc, err := svc.SetShareable(c.UserContext(), actorID(c), id, req.Enabled)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// RegenerateShareToken replaces the token, invalidating every link issued
// before the call.
func RegenerateShareToken(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		token, err := svc.RegenerateShareToken(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"share_token": token})
	}
}

// RedeemShareToken enrolls the actor as a collaborator. The token itself is
// the credential, so no document ID appears in the path.
func RedeemShareToken(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.RedeemShareToken(c.UserContext(), actorID(c), c.Params("token"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// CreateInvitation issues a time-boxed invitation for the user behind email.
func CreateInvitation(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req inviteRequest
		if err := c.BodyParser(&req); err != nil || req.Email == "" {
			return writeError(c, fiber.StatusBadRequest, "EMAIL_REQUIRED", "email is required")
		}
		inv, err := svc.Invite(c.UserContext(), actorID(c), id, req.Email, time.Duration(req.TTLHours)*time.Hour)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(inv)
	}
}

// ListInvitations returns the invitations on a document the actor can read.
func ListInvitations(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		invs, err := svc.ListInvitations(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": invs})
	}
}

// RevokeInvitation deletes an invitation by its ID.
func RevokeInvitation(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.RevokeInvitation(c.UserContext(), actorID(c), id, c.Params("invitationID")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app. The auth
// middleware guards everything that acts on behalf of a user.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, userSvc service.UserService, auth fiber.Handler) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/users", RegisterUser(userSvc))

	docs := app.Group("/documents", auth)
	docs.Get("/", ListDocuments(docSvc))
	docs.Post("/", UploadDocument(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Patch("/:id", UpdateDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))
	docs.Get("/:id/download", DownloadDocument(docSvc))
	docs.Post("/:id/collaborators", AddCollaborator(docSvc))
	docs.Delete("/:id/collaborators", RemoveCollaborator(docSvc))
	docs.Get("/:id/share", GetShareToken(docSvc))
	docs.Patch("/:id/share", SetShareable(docSvc))
	docs.Post("/:id/share/regenerate", RegenerateShareToken(docSvc))
	docs.Post("/:id/invitations", CreateInvitation(docSvc))
	docs.Get("/:id/invitations", ListInvitations(docSvc))
	docs.Delete("/:id/invitations/:invitationID", RevokeInvitation(docSvc))

	app.Post("/share/:token", auth, RedeemShareToken(docSvc))
}
