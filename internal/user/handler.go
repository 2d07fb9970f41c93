package user

import (
	"errors"
	"net/http"

	"github.com/Truella/Framez/internal/shared/httpx"
	"github.com/Truella/Framez/internal/shared/jwt"
	"github.com/Truella/Framez/internal/shared/validate"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[SignUpReq](r)
	if err != nil {
		return err
	}
	if err = validate.Struct(body); err != nil {
		return httpx.Status(http.StatusBadRequest, "validation", err)
	}
	p, err := h.svc.SignUp(r.Context(), body)
	if err != nil {
		return mapErr(err)
	}
	return writeAuth(w, p, http.StatusCreated)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[SignInReq](r)
	if err != nil {
		return err
	}
	if err = validate.Struct(body); err != nil {
		return httpx.Status(http.StatusBadRequest, "validation", err)
	}
	p, err := h.svc.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		return mapErr(err)
	}
	return writeAuth(w, p, http.StatusOK)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(r.Context(), uid)
	if err != nil {
		return mapErr(err)
	}
	httpx.WriteJSON(w, p, http.StatusOK)
	return nil
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) error {
	p, err := h.svc.Get(r.Context(), r.PathValue("user_id"))
	if err != nil {
		return mapErr(err)
	}
	httpx.WriteJSON(w, p, http.StatusOK)
	return nil
}

func writeAuth(w http.ResponseWriter, p *Profile, code int) error {
	token, err := jwt.Make(p.ID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, AuthResp{AccessToken: token, User: *p}, code)
	return nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httpx.Status(http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrExists):
		return httpx.Status(http.StatusConflict, "exists", err)
	case errors.Is(err, ErrWrongCredentials):
		return httpx.Status(http.StatusUnauthorized, "wrong_credentials", err)
	}
	return err
}
