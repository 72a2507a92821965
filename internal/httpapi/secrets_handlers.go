package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"bulletin-engine/internal/config"
	"bulletin-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setMailPasswordReq struct {
	Password string `json:"password"`
}

func (h SecretsHandler) SetMailPassword(w http.ResponseWriter, r *http.Request) {
	var req setMailPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetMailPassword(secrets.MailKeyringAccount(cfg.Mail), req.Password); err != nil {
		http.Error(w, "failed to store password: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
