package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	rewardservice "github.com/rays8417/tenjaku-sub001/app/modules/reward/application"
	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
)

type distributeBody struct {
	Rules             []rewarddomain.Rule `json:"rules,omitempty"`
	TotalRewardAmount *decimal.Decimal    `json:"total_reward_amount,omitempty"`
	Rerun             bool                `json:"rerun"`
}

type advanceGrantBody struct {
	Target      string  `json:"target"`
	ExternalRef *string `json:"external_ref,omitempty"`
}

func (h *Handlers) CreatePool(w http.ResponseWriter, r *http.Request) {
	var cmd rewardservice.CreatePoolCommand
	if err := decodeJSON(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	pool, err := h.reward.CreatePool(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pool)
}

func (h *Handlers) GetPool(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	pool, err := h.reward.GetPool(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

// Distribute runs one distribution of the pool. An empty body distributes the
// full pool with its stored rules.
func (h *Handlers) Distribute(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body distributeBody
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	res, err := h.reward.Distribute(r.Context(), rewardservice.DistributeRequest{
		PoolID:            id,
		Rules:             body.Rules,
		TotalRewardAmount: body.TotalRewardAmount,
		Rerun:             body.Rerun,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) ListGrants(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	grants, err := h.reward.ListGrants(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grants)
}

func (h *Handlers) AdvanceGrant(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body advanceGrantBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	grant, err := h.reward.AdvanceGrant(r.Context(), rewardservice.AdvanceGrantCommand{
		GrantID:     id,
		Target:      body.Target,
		ExternalRef: body.ExternalRef,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grant)
}

func (h *Handlers) GetLedger(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.reward.GetLedger(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ledger)
}
