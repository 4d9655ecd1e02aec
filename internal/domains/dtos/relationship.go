package dtos

import (
	"errors"
	"net/http"
	"time"

	"github.com/mural-social/mural/internal/relation"
)

type RelationshipResponse struct {
	UserId string `json:"userId"`
	Label  string `json:"label"`
}

func RelationshipResponseFromLabel(otherId string, label relation.Label) RelationshipResponse {
	return RelationshipResponse{
		UserId: otherId,
		Label:  string(label),
	}
}

type RelationshipListItem struct {
	UserId string    `json:"userId"`
	Label  string    `json:"label"`
	Since  time.Time `json:"since"`
}

type RelationshipListResponse struct {
	Items         []RelationshipListItem `json:"items"`
	NextPageToken string                 `json:"nextPageToken,omitempty"`
}

func RelationshipListResponseFromItems(items []relation.ListItem, nextPageToken string) RelationshipListResponse {
	resp := RelationshipListResponse{
		Items:         make([]RelationshipListItem, 0, len(items)),
		NextPageToken: nextPageToken,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, RelationshipListItem{
			UserId: item.UserId,
			Label:  string(item.Label),
			Since:  item.Since,
		})
	}
	return resp
}

type FriendStatsResponse struct {
	UserId      string `json:"userId"`
	FriendCount int64  `json:"friendCount"`
}

// ErrorResponse is the JSON body for every refused or failed action. Error
// holds the stable rejection code; Label holds the caller's current view of
// the relationship so clients can reconcile without a second read.
type ErrorResponse struct {
	Error string `json:"error"`
	Label string `json:"label,omitempty"`
}

// RelationshipErrorResponse maps an engine error to its HTTP status and
// body. Unrecognized errors are reported as store faults.
func RelationshipErrorResponse(err error) (int, ErrorResponse) {
	var rejection *relation.RejectionError
	if errors.As(err, &rejection) {
		return statusForRejection(rejection.Code), ErrorResponse{
			Error: string(rejection.Code),
			Label: string(rejection.Label),
		}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "store_unavailable"}
}

func statusForRejection(code relation.RejectionCode) int {
	switch code {
	case relation.RejectSelfAction:
		return http.StatusBadRequest
	case relation.RejectBlocked:
		return http.StatusForbidden
	case relation.RejectNotFound:
		return http.StatusNotFound
	case relation.RejectContention:
		return http.StatusServiceUnavailable
	}
	return http.StatusConflict
}
