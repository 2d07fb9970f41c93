package post

import (
	"errors"
	"net/http"

	"github.com/Truella/Framez/internal/shared/httpx"
	"github.com/Truella/Framez/internal/shared/validate"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	in, err := httpx.Decode[CreateReq](r)
	if err != nil {
		return err
	}
	if err := validate.Struct(in); err != nil {
		return httpx.Status(http.StatusBadRequest, "validation", err)
	}
	v, err := h.svc.Create(r.Context(), uid, in)
	if err != nil {
		return mapErr(err)
	}
	httpx.WriteJSON(w, v, http.StatusCreated)
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(r.Context(), uid, r.PathValue("post_id")); err != nil {
		return mapErr(err)
	}
	httpx.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	return nil
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) error {
	v, err := h.svc.Get(r.Context(), r.PathValue("post_id"), httpx.ViewerFromCtx(r))
	if err != nil {
		return mapErr(err)
	}
	httpx.WriteJSON(w, v, http.StatusOK)
	return nil
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) error {
	limit := httpx.QueryInt(r, "limit", 50)
	offset := httpx.QueryInt(r, "offset", 0)
	items, err := h.svc.Feed(r.Context(), httpx.ViewerFromCtx(r), limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, ListResp{Items: items, Limit: limit, Offset: offset}, http.StatusOK)
	return nil
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) error {
	limit := httpx.QueryInt(r, "limit", 50)
	offset := httpx.QueryInt(r, "offset", 0)
	items, err := h.svc.ListByUser(r.Context(), r.PathValue("user_id"), httpx.ViewerFromCtx(r), limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, ListResp{Items: items, Limit: limit, Offset: offset}, http.StatusOK)
	return nil
}

func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	limit := httpx.QueryInt(r, "limit", 50)
	offset := httpx.QueryInt(r, "offset", 0)
	items, err := h.svc.ListSaved(r.Context(), uid, limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, ListResp{Items: items, Limit: limit, Offset: offset}, http.StatusOK)
	return nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httpx.Status(http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrForbidden):
		return httpx.Status(http.StatusForbidden, "not_owner", err)
	case errors.Is(err, ErrNotYours):
		return httpx.Status(http.StatusForbidden, "image_not_owned", err)
	case errors.Is(err, ErrEmptyPost), errors.Is(err, ErrTooLong):
		return httpx.Status(http.StatusBadRequest, "validation", err)
	}
	return err
}
