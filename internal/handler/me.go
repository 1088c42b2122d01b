package handler

import (
	"net/http"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	h.successResponse(w, r, "account info fetched", myInfo)
}
