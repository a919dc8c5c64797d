package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stsysd/axisgraph/model"
)

// ProjectParams represents parameters for a single project.
type ProjectParams struct {
	Project *model.ProjectName
}

// NewProjectParams creates project parameters from the request path.
func NewProjectParams(r *http.Request) (*ProjectParams, error) {
	name, err := model.NewProjectName(r.PathValue("project"))
	if err != nil {
		return nil, err
	}
	return &ProjectParams{Project: name}, nil
}

// handleListProjects はプロジェクト一覧を返却するハンドラーです。
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "list projects")
		return
	}
	writeJSON(w, r, projects, http.StatusOK)
}

// handleCreateProject はプロジェクト作成をハンドリングします。
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	// リクエストボディの読み取り
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONError(w, r, "Failed to read request body", http.StatusBadRequest)
		return
	}

	// JSONのパース
	var projectData struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &projectData); err != nil {
		writeJSONError(w, r, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	// プロジェクトの作成
	project, err := model.NewProject(projectData.Name, projectData.Description)
	if err != nil {
		writeJSONError(w, r, fmt.Sprintf("Invalid project data: %v", err), http.StatusBadRequest)
		return
	}

	// データベースに保存
	if err := s.store.CreateProject(r.Context(), project); err != nil {
		writeStoreError(w, r, err, "create project")
		return
	}

	writeJSON(w, r, project, http.StatusCreated)
}

// handleGetProject は特定のプロジェクトを取得するハンドラーです。
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	params, err := NewProjectParams(r)
	if err != nil {
		writeJSONError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	project, err := s.store.GetProject(r.Context(), params.Project.String())
	if err != nil {
		writeStoreError(w, r, err, "retrieve project")
		return
	}
	writeJSON(w, r, project, http.StatusOK)
}

// handleDeleteProject はプロジェクトとそのアクティビティを削除するハンドラーです。
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	params, err := NewProjectParams(r)
	if err != nil {
		writeJSONError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteProject(r.Context(), params.Project.String()); err != nil {
		writeStoreError(w, r, err, "delete project")
		return
	}

	// 削除成功のレスポンスを返す
	w.WriteHeader(http.StatusNoContent)
}
