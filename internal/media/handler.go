package media

import (
	"errors"
	"net/http"

	"github.com/Truella/Framez/internal/shared/httpx"
)

const maxUpload = 20 << 20

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return httpx.Status(http.StatusBadRequest, "bad_form", err)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return httpx.Status(http.StatusBadRequest, "missing_file", err)
	}
	defer file.Close()

	url, err := h.svc.Upload(r.Context(), uid, file)
	if err != nil {
		if errors.Is(err, ErrNotImage) {
			return httpx.Status(http.StatusUnsupportedMediaType, "not_image", err)
		}
		return err
	}
	httpx.WriteJSON(w, map[string]string{"url": url}, http.StatusCreated)
	return nil
}
