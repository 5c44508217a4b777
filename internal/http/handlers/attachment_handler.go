package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/http/handlers/common"
	"github.com/akazakov/workmarket-backend/internal/service"
	"github.com/akazakov/workmarket-backend/internal/storage"
)

// Разрешённые типы вложений
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"application/zip": true,
}

// Разрешённые расширения файлов
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".pdf":  true,
	".zip":  true,
}

// AttachmentHandler управляет файлами заданий.
type AttachmentHandler struct {
	attachments *service.AttachmentService
	files       *storage.FileStorage
}

// NewAttachmentHandler создаёт хэндлер.
func NewAttachmentHandler(attachments *service.AttachmentService, files *storage.FileStorage) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments, files: files}
}

// Upload обрабатывает POST /jobs/:id/attachments.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeValidation, "поле file обязательно"))
		return
	}

	if file.Size == 0 {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeValidation, "файл не может быть пустым"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeValidation, "неподдерживаемый формат файла"))
		return
	}

	src, err := file.Open()
	if err != nil {
		common.AbortWithError(c, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось открыть файл"))
		return
	}
	defer src.Close()

	// Проверяем магические байты, расширению не доверяем.
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeValidation, "не удалось прочитать файл"))
		return
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeValidation, "не удалось определить тип файла"))
		return
	}

	contentType := kind.MIME.Value
	if !allowedMimeTypes[contentType] {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeValidation, "неподдерживаемый тип файла ("+contentType+")"))
		return
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			common.AbortWithError(c, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сбросить позицию файла"))
			return
		}
	}

	attachment, err := h.attachments.Upload(c.Request.Context(), jobID, actor, service.UploadInput{
		FileName: file.Filename,
		FileType: contentType,
		Reader:   src,
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

// List обрабатывает GET /jobs/:id/attachments.
func (h *AttachmentHandler) List(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	attachments, err := h.attachments.List(c.Request.Context(), jobID, actor)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attachments": attachments})
}

// Download обрабатывает GET /attachments/:id.
func (h *AttachmentHandler) Download(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	attachmentID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	attachment, err := h.attachments.Get(c.Request.Context(), attachmentID, actor)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	f, err := h.files.Open(c.Request.Context(), attachment.FilePath)
	if err != nil {
		common.AbortWithError(c, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось открыть файл"))
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="`+attachment.FileName+`"`)
	c.Header("Content-Type", attachment.FileType)
	c.DataFromReader(http.StatusOK, attachment.FileSize, attachment.FileType, f, nil)
}

// Delete обрабатывает DELETE /attachments/:id.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	attachmentID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	if err := h.attachments.Delete(c.Request.Context(), attachmentID, actor); err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "вложение удалено"})
}
