package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mural-social/mural/internal/domains/dtos"
	"github.com/mural-social/mural/internal/relation"
	"github.com/mural-social/mural/pkg/logging"
	"go.uber.org/zap"
)

func (s *server) handleRelationAction(w http.ResponseWriter, r *http.Request, userId string) {
	targetId := r.PathValue("id")
	action, err := relation.ParseAction(r.PathValue("action"))
	if err != nil {
		writeJson(w, http.StatusBadRequest, dtos.ErrorResponse{Error: "unknown_action"})
		return
	}

	label, err := s.coordinator.Execute(r.Context(), userId, targetId, action)
	if err != nil {
		status, errResp := dtos.RelationshipErrorResponse(err)
		if status == http.StatusInternalServerError {
			logging.Error("failed to execute relationship action",
				zap.String("action", string(action)),
				zap.Error(err),
			)
		}
		writeJson(w, status, errResp)
		return
	}
	writeJson(w, http.StatusOK, dtos.RelationshipResponseFromLabel(targetId, label))
}

func (s *server) handleRelationGet(w http.ResponseWriter, r *http.Request, userId string) {
	targetId := r.PathValue("id")
	label, err := s.projector.Relationship(r.Context(), userId, targetId)
	if err != nil {
		status, errResp := dtos.RelationshipErrorResponse(err)
		if status == http.StatusInternalServerError {
			logging.Error("failed to get relationship", zap.Error(err))
		}
		writeJson(w, status, errResp)
		return
	}
	writeJson(w, http.StatusOK, dtos.RelationshipResponseFromLabel(targetId, label))
}

func (s *server) handleFriendList(w http.ResponseWriter, r *http.Request, userId string) {
	s.handleList(w, r, userId, s.projector.ListFriends)
}

func (s *server) handlePendingSentList(w http.ResponseWriter, r *http.Request, userId string) {
	s.handleList(w, r, userId, s.projector.ListPendingSent)
}

func (s *server) handlePendingReceivedList(w http.ResponseWriter, r *http.Request, userId string) {
	s.handleList(w, r, userId, s.projector.ListPendingReceived)
}

func (s *server) handleBlockedList(w http.ResponseWriter, r *http.Request, userId string) {
	s.handleList(w, r, userId, s.projector.ListBlocked)
}

func (s *server) handleList(
	w http.ResponseWriter,
	r *http.Request,
	userId string,
	list func(ctx context.Context, viewer, cursor string, limit int32) ([]relation.ListItem, string, error),
) {
	pageToken := r.URL.Query().Get("pageToken")
	limit := int32(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil || parsed < 1 {
			writeJson(w, http.StatusBadRequest, dtos.ErrorResponse{Error: "invalid_limit"})
			return
		}
		if parsed > 100 {
			parsed = 100
		}
		limit = int32(parsed)
	}

	items, nextPageToken, err := list(r.Context(), userId, pageToken, limit)
	if err != nil {
		logging.Error("failed to list relationships", zap.Error(err))
		writeJson(w, http.StatusInternalServerError, dtos.ErrorResponse{Error: "store_unavailable"})
		return
	}
	writeJson(w, http.StatusOK, dtos.RelationshipListResponseFromItems(items, nextPageToken))
}

func (s *server) handleFriendStats(w http.ResponseWriter, r *http.Request, userId string) {
	stats, err := s.storageClient.GetUserStats(r.Context(), userId)
	if err != nil {
		logging.Error("failed to get friend stats", zap.Error(err))
		writeJson(w, http.StatusInternalServerError, dtos.ErrorResponse{Error: "store_unavailable"})
		return
	}
	writeJson(w, http.StatusOK, dtos.FriendStatsResponse{
		UserId:      stats.UserId,
		FriendCount: stats.FriendCount,
	})
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("failed to write response", zap.Error(err))
	}
}
