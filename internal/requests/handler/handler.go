package handler

import (
	"context"
	"net/http"

	"serviceman_backend/internal/requests/service"
	"serviceman_backend/internal/requests/transport"
	"serviceman_backend/platform/httpkit"
	"serviceman_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) Create(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)
	if ident == nil {
		return
	}

	var req transport.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), ident, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) ListMine(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)
	if ident == nil {
		return
	}

	resp, err := h.svc.ListMine(c.Request.Context(), ident)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListOpen(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)
	if ident == nil {
		return
	}

	resp, err := h.svc.ListOpen(c.Request.Context(), ident)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Get(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)
	if ident == nil {
		return
	}

	requestID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), ident, requestID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) SubmitQuote(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)
	if ident == nil {
		return
	}

	requestID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req transport.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.SubmitQuote(c.Request.Context(), ident, requestID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) AcceptQuote(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)
	if ident == nil {
		return
	}

	requestID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c, "quoteId")
	if !ok {
		return
	}

	resp, err := h.svc.AcceptQuote(c.Request.Context(), ident, requestID, quoteID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) StartJob(c *gin.Context) {
	h.lifecycle(c, h.svc.StartJob)
}

func (h *Handler) CompleteJob(c *gin.Context) {
	h.lifecycle(c, h.svc.CompleteJob)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.lifecycle(c, h.svc.Cancel)
}

func (h *Handler) lifecycle(c *gin.Context, fn func(ctx context.Context, ident httpkit.Identity, requestID uuid.UUID) (*transport.RequestResponse, error)) {
	ident := httpkit.MustGetIdentity(c)
	if ident == nil {
		return
	}

	requestID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := fn(c.Request.Context(), ident, requestID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
