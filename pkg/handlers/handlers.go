package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"video-catalog/pkg/models"
	"video-catalog/pkg/service"
)

// VideoService is the part of the service layer the handlers call.
type VideoService interface {
	ListVideos(ctx context.Context, filter string) ([]models.PersistedVideo, error)
	GetVideo(ctx context.Context, id string) (models.PersistedVideo, error)
	CreateVideo(ctx context.Context, in service.CreateVideoInput) (models.NewVideo, error)
	UpdateVideo(ctx context.Context, id string, in service.UpdateVideoInput) error
	DeleteVideo(ctx context.Context, id string) error
}

var _ VideoService = (*service.VideoService)(nil)

type Handler struct {
	videos VideoService
	log    *log.Helper
}

func New(videos VideoService, logger log.Logger) *Handler {
	return &Handler{
		videos: videos,
		log:    log.NewHelper(log.With(logger, "module", "handlers")),
	}
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}

func (h *Handler) ListVideos(c *gin.Context) {
	videos, err := h.videos.ListVideos(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.failText(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *Handler) GetVideo(c *gin.Context) {
	video, err := h.videos.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failText(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *Handler) CreateVideo(c *gin.Context) {
	body, err := bindBody(c)
	if err != nil {
		h.failText(c, err)
		return
	}

	video, err := h.videos.CreateVideo(c.Request.Context(), service.CreateVideoInput{
		ID:       body.field("id"),
		Title:    body.field("title"),
		Duration: body.field("duration"),
	})
	if err != nil {
		h.failText(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Video added!",
		"newVideo": video,
	})
}

func (h *Handler) UpdateVideo(c *gin.Context) {
	body, err := bindBody(c)
	if err != nil {
		h.failJSON(c, err)
		return
	}

	err = h.videos.UpdateVideo(c.Request.Context(), c.Param("id"), service.UpdateVideoInput{
		ID:       body.field("id"),
		Title:    body.field("title"),
		Duration: body.field("duration"),
	})
	if err != nil {
		h.failJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video updated successfully!"})
}

func (h *Handler) DeleteVideo(c *gin.Context) {
	if err := h.videos.DeleteVideo(c.Request.Context(), c.Param("id")); err != nil {
		h.failText(c, err)
		return
	}
	c.String(http.StatusCreated, "Video deleted successfully!")
}

type jsonBody map[string]interface{}

func (b jsonBody) field(name string) service.Field {
	v, ok := b[name]
	return service.Field{Present: ok, Value: v}
}

// bindBody decodes a JSON object body. A missing body or a literal null is
// an empty object.
func bindBody(c *gin.Context) (jsonBody, error) {
	var body jsonBody
	if c.Request.Body == nil {
		return jsonBody{}, nil
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return jsonBody{}, nil
		}
		return nil, kerrors.BadRequest(service.ReasonValidation, "request body must be a JSON object").WithCause(err)
	}
	if body == nil {
		body = jsonBody{}
	}
	return body, nil
}

// status is the code attached to err; errors without one fall back to 500.
func status(err error) int {
	code := kerrors.Code(err)
	if code < http.StatusBadRequest || code > 599 {
		return http.StatusInternalServerError
	}
	return code
}

func message(err error) string {
	if msg := kerrors.FromError(err).Message; msg != "" {
		return msg
	}
	return "unexpected error"
}

func (h *Handler) logFailure(c *gin.Context, code int, err error) {
	h.log.WithContext(c.Request.Context()).Errorw(
		"msg", "request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", code,
		"request_id", RequestID(c),
		"err", err,
	)
}

func (h *Handler) failText(c *gin.Context, err error) {
	code := status(err)
	h.logFailure(c, code, err)
	c.String(code, message(err))
}

func (h *Handler) failJSON(c *gin.Context, err error) {
	code := status(err)
	h.logFailure(c, code, err)
	c.JSON(code, gin.H{"message": message(err)})
}
