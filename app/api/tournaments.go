package api

import (
	"io"
	"net/http"
	"strings"

	scoringservice "github.com/rays8417/tenjaku-sub001/app/modules/scoring/application"
	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
)

type submitStatLinesBody struct {
	StatLines []scoringdomain.StatLine `json:"stat_lines"`
}

type holdingsBody struct {
	Holdings []scoringservice.HoldingInput `json:"holdings"`
}

func (h *Handlers) RegisterTournament(w http.ResponseWriter, r *http.Request) {
	var cmd scoringservice.RegisterTournamentCommand
	if err := decodeJSON(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.scoring.RegisterTournament(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handlers) RegisterEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var entry scoringdomain.ParticipantEntry
	if err := decodeJSON(r, &entry); err != nil {
		h.writeError(w, r, err)
		return
	}
	score, err := h.scoring.RegisterEntry(r.Context(), id, entry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, score)
}

func (h *Handlers) UpsertHoldings(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body holdingsBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.scoring.UpsertHoldings(r.Context(), id, body.Holdings); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetScores(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	scores, err := h.scoring.GetParticipantScores(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (h *Handlers) GetStatLines(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	lines, err := h.scoring.GetStatLines(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *Handlers) SubmitStatLines(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body submitStatLinesBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.scoring.SubmitStatLines(r.Context(), id, body.StatLines)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ImportStatLines accepts either a multipart upload in the "file" field or a raw
// body whose format is named by the filename query parameter.
func (h *Handlers) ImportStatLines(w http.ResponseWriter, r *http.Request) {
	const op = "api.ImportStatLines"
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var (
		filename string
		data     []byte
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			h.writeError(w, r, apperr.Validationf(op, "file upload is required: %v", err))
			return
		}
		defer file.Close()
		filename = header.Filename
		if data, err = io.ReadAll(file); err != nil {
			h.writeError(w, r, apperr.Validationf(op, "read upload: %v", err))
			return
		}
	} else {
		filename = r.URL.Query().Get("filename")
		if data, err = io.ReadAll(io.LimitReader(r.Body, maxUploadBytes)); err != nil {
			h.writeError(w, r, apperr.Validationf(op, "read body: %v", err))
			return
		}
	}
	if filename == "" {
		h.writeError(w, r, apperr.Validationf(op, "filename is required"))
		return
	}

	res, err := h.scoring.ImportStatLines(r.Context(), id, filename, data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) BuildLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rows, err := h.leaderboard.BuildLeaderboard(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rows, err := h.leaderboard.GetLeaderboard(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
