package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/stsysd/axisgraph/model"
	"github.com/stsysd/axisgraph/store"
)

// CreateActivityParams represents parameters for creating an activity.
type CreateActivityParams struct {
	Project   *model.ProjectName
	Timestamp *model.Timestamp
}

// NewCreateActivityParams creates parameters for activity creation from HTTP request.
func NewCreateActivityParams(r *http.Request) (*CreateActivityParams, error) {
	// Parse request body
	var requestBody struct {
		Project   string `json:"project"`
		Timestamp string `json:"timestamp"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	project, err := model.NewProjectName(requestBody.Project)
	if err != nil {
		return nil, err
	}

	timestamp, err := model.NewTimestamp(requestBody.Timestamp)
	if err != nil {
		return nil, err
	}

	return &CreateActivityParams{
		Project:   project,
		Timestamp: timestamp,
	}, nil
}

// handleCreateActivity はアクティビティ作成エンドポイントのハンドラーです。
func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewCreateActivityParams(r)
	if err != nil {
		writeJSONError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	// 新しいアクティビティの作成
	activity, err := model.NewActivity(params.Timestamp.Time(), params.Project.String())
	if err != nil {
		writeJSONError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	// アクティビティの保存（プロジェクトが存在しない場合は404）
	if err := s.store.CreateActivity(r.Context(), activity); err != nil {
		writeStoreError(w, r, err, "create activity")
		return
	}

	writeJSON(w, r, activity, http.StatusCreated)
}

// ActivityIDParams represents parameters identifying an activity.
type ActivityIDParams struct {
	ActivityID uuid.UUID
}

// NewActivityIDParams creates parameters from the activity_id path value.
func NewActivityIDParams(r *http.Request) (*ActivityIDParams, error) {
	id, err := uuid.Parse(r.PathValue("activity_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid activity_id: %w", err)
	}
	return &ActivityIDParams{ActivityID: id}, nil
}

// handleGetActivity は特定のIDのアクティビティを取得するハンドラーです。
func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	params, err := NewActivityIDParams(r)
	if err != nil {
		writeJSONError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	activity, err := s.store.GetActivity(r.Context(), params.ActivityID)
	if err != nil {
		writeStoreError(w, r, err, "retrieve activity")
		return
	}
	writeJSON(w, r, activity, http.StatusOK)
}

// handleDeleteActivity は特定のIDのアクティビティを削除するハンドラーです。
func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	params, err := NewActivityIDParams(r)
	if err != nil {
		writeJSONError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteActivity(r.Context(), params.ActivityID); err != nil {
		writeStoreError(w, r, err, "delete activity")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListActivitiesParams represents parameters for listing activities.
type ListActivitiesParams struct {
	Project    *model.ProjectName
	DateRange  *model.DateRange
	Pagination *model.Pagination
}

// NewListActivitiesParams creates parameters for activity listing from HTTP request.
func NewListActivitiesParams(r *http.Request) (*ListActivitiesParams, error) {
	project, err := model.NewProjectName(r.PathValue("project"))
	if err != nil {
		return nil, err
	}

	query := r.URL.Query()
	dateRange, err := model.NewDateRange(query.Get("from"), query.Get("to"))
	if err != nil {
		return nil, err
	}

	pagination, err := model.NewPagination(query.Get("limit"), query.Get("offset"))
	if err != nil {
		return nil, err
	}

	return &ListActivitiesParams{
		Project:    project,
		DateRange:  dateRange,
		Pagination: pagination,
	}, nil
}

// handleListActivities はプロジェクトに属するアクティビティの一覧を取得するハンドラーです。
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	params, err := NewListActivitiesParams(r)
	if err != nil {
		writeJSONError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	// プロジェクトの存在確認
	if _, err := s.store.GetProject(r.Context(), params.Project.String()); err != nil {
		writeStoreError(w, r, err, "retrieve project")
		return
	}

	activities, err := s.store.ListActivities(r.Context(), &store.ListActivitiesParams{
		Project: params.Project.String(),
		From:    params.DateRange.From(),
		To:      params.DateRange.To(),
		Limit:   params.Pagination.Limit(),
		Offset:  params.Pagination.Offset(),
	})
	if err != nil {
		writeStoreError(w, r, err, "retrieve activities")
		return
	}

	// 空配列を返すためにnilチェック
	if activities == nil {
		activities = []*model.Activity{}
	}
	writeJSON(w, r, activities, http.StatusOK)
}
