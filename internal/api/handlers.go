package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/thenoetrevino/etapa/internal/models"
)

// Request bodies
type (
	columnRequest struct {
		Label string `json:"label"`
		Color string `json:"color"`
	}

	swapRequest struct {
		PositionA int `json:"position_a"`
		PositionB int `json:"position_b"`
	}

	orderRequest struct {
		StageIDs []string `json:"stage_ids"`
	}

	moveRequest struct {
		StageID string `json:"stage_id"`
	}
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ============================================================================
// TENANT ROUTES
// ============================================================================

func (s *Server) handleListColumns(w http.ResponseWriter, r *http.Request) {
	stages, err := s.store.ListColumnsOrdered(r.Context(), mux.Vars(r)["tenant"])
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stages)
}

func (s *Server) handleCreateColumn(w http.ResponseWriter, r *http.Request) {
	var req columnRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}
	stage, err := s.store.CreateColumn(r.Context(), mux.Vars(r)["tenant"], req.Label, req.Color)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stage)
}

func (s *Server) handleSwapPositions(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}
	if err := s.store.SwapPositions(r.Context(), mux.Vars(r)["tenant"], req.PositionA, req.PositionB); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenumberPositions(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}
	if err := s.store.RenumberPositions(r.Context(), mux.Vars(r)["tenant"], req.StageIDs); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompactPositions(w http.ResponseWriter, r *http.Request) {
	if err := s.store.CompactPositions(r.Context(), mux.Vars(r)["tenant"]); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// STAGE ROUTES
// ============================================================================

func (s *Server) handleRenameColumn(w http.ResponseWriter, r *http.Request) {
	var req columnRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}
	stage, err := s.store.RenameColumn(r.Context(), mux.Vars(r)["id"], req.Label, req.Color)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stage)
}

func (s *Server) handleArchiveColumn(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ArchiveColumn(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var draft models.DealDraft
	if err := decodeBody(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}
	deal, err := s.store.CreateCard(r.Context(), mux.Vars(r)["id"], draft)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, deal)
}

// ============================================================================
// DEAL ROUTES
// ============================================================================

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	deal, err := s.store.GetCard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCard(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveCard(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}
	deal, err := s.store.MoveCard(r.Context(), mux.Vars(r)["id"], req.StageID)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}
