package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"video-gateway/apperr"
	"video-gateway/dto"
	"video-gateway/service"
)

type ServiceDependencies struct {
	Broker   service.Broker
	Recorder service.Recorder
}

type Handler struct {
	deps ServiceDependencies
}

func New(deps ServiceDependencies) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) CreateUploadURL(c *gin.Context) {
	var req dto.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperr.Invalidf("filename and contentType are required"))
		return
	}

	grant, err := h.deps.Broker.IssueUploadGrant(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, grant)
}

func (h *Handler) CreateDownloadURL(c *gin.Context) {
	grant, err := h.deps.Broker.IssueDownloadGrant(c.Request.Context(), c.Param("filename"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, grant)
}

func (h *Handler) CreateVideo(c *gin.Context) {
	var req dto.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperr.Invalidf("filename and original_name are required"))
		return
	}

	video, err := h.deps.Recorder.Create(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, video)
}

func (h *Handler) ListVideos(c *gin.Context) {
	videos, err := h.deps.Recorder.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, videos)
}
