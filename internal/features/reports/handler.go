package reports

import (
	"encoding/json"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flashreport/api/internal/features/auth"
	"github.com/flashreport/api/internal/pkg/cloudinary"
	"github.com/flashreport/api/internal/pkg/response"
)

type Handler struct {
	service *Service
	media   *cloudinary.Service
}

func NewHandler(service *Service, media *cloudinary.Service) *Handler {
	return &Handler{service: service, media: media}
}

// Create godoc
// @Summary Create a report
// @Description Creates a DRAFT report. Send the report JSON in the "report" part, attachments as "images" and "videos" parts.
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param report formData string true "Report JSON"
// @Param images formData file false "Image attachments"
// @Param videos formData file false "Video attachments"
// @Success 201 {object} response.APIResponse{data=Report}
// @Failure 400 {object} response.APIResponse
// @Router /reports [post]
func (h *Handler) Create(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)

	req, ok := h.bindCreateRequest(c)
	if !ok {
		return
	}

	images, ok := h.uploadFiles(c, "images", false)
	if !ok {
		return
	}
	videos, ok := h.uploadFiles(c, "videos", true)
	if !ok {
		return
	}

	report, err := h.service.Create(c.Request.Context(), p, req, images, videos)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Created red-flag record", report)
}

// List godoc
// @Summary List reports
// @Description Admins see every report; everyone else sees their own. Optional type and status filters.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param type query string false "RED_FLAG or INTERVENTION"
// @Param status query string false "Report status"
// @Success 200 {object} response.APIResponse{data=[]Report}
// @Router /reports [get]
func (h *Handler) List(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)

	var filter Filter
	if raw := c.Query("type"); raw != "" {
		t, ok := ParseReportType(raw)
		if !ok {
			response.BadRequest(c, "Unknown report type")
			return
		}
		filter.Type = t
	}
	if raw := c.Query("status"); raw != "" {
		s, ok := ParseStatus(raw)
		if !ok {
			response.BadRequest(c, "Unknown report status")
			return
		}
		filter.Status = s
	}

	reports, err := h.service.List(c.Request.Context(), p, filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "Reports retrieved successfully", reports)
}

// Get godoc
// @Summary Get a report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.APIResponse{data=Report}
// @Failure 404 {object} response.APIResponse
// @Router /reports/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)

	report, err := h.service.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "Report retrieved successfully", report)
}

// Update godoc
// @Summary Update a report's details
// @Description Edits title, type, location or comment. Status changes are rejected here.
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param body body UpdateRequest true "Fields to change"
// @Success 200 {object} response.APIResponse{data=Report}
// @Failure 400 {object} response.APIResponse
// @Router /reports/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	report, err := h.service.Update(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "Updated red-flag record", report)
}

// UpdateStatus godoc
// @Summary Change a report's status
// @Description Admin only. The owner is notified by email and push.
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param body body StatusRequest true "New status"
// @Success 200 {object} response.APIResponse{data=Report}
// @Failure 403 {object} response.APIResponse
// @Router /reports/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Status field is required for status updates")
		return
	}

	report, err := h.service.TransitionStatus(c.Request.Context(), p, c.Param("id"), req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "Updated report status and notified user", report)
}

// Delete godoc
// @Summary Delete a report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.APIResponse
// @Router /reports/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)

	if err := h.service.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "Red-flag record has been deleted", nil)
}

// bindCreateRequest reads the "report" JSON part of a multipart payload,
// falling back to a plain JSON body when no multipart form was sent.
func (h *Handler) bindCreateRequest(c *gin.Context) (CreateRequest, bool) {
	var req CreateRequest

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		raw := c.PostForm("report")
		if raw == "" {
			response.BadRequest(c, "Report part is required")
			return req, false
		}
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			response.BadRequest(c, "Invalid request format")
			return req, false
		}
		return req, true
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return req, false
	}
	return req, true
}

// uploadFiles pushes every file under the given form key to Cloudinary.
func (h *Handler) uploadFiles(c *gin.Context, key string, video bool) ([]Media, bool) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, true
	}
	headers := form.File[key]
	if len(headers) == 0 {
		return nil, true
	}
	if h.media == nil {
		response.InternalServerError(c, "Media storage is not configured")
		return nil, false
	}

	out := make([]Media, 0, len(headers))
	for _, header := range headers {
		result, err := h.uploadOne(c, header, video)
		if err != nil {
			response.BadRequest(c, err.Error())
			return nil, false
		}
		out = append(out, Media{URL: result.URL, PublicID: result.PublicID})
	}
	return out, true
}

func (h *Handler) uploadOne(c *gin.Context, header *multipart.FileHeader, video bool) (*cloudinary.UploadResult, error) {
	if video {
		if err := cloudinary.ValidateVideoFile(header); err != nil {
			return nil, err
		}
	} else {
		if err := cloudinary.ValidateImageFile(header); err != nil {
			return nil, err
		}
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if video {
		return h.media.UploadVideo(c.Request.Context(), file, header.Filename)
	}
	return h.media.UploadImage(c.Request.Context(), file, header.Filename)
}
