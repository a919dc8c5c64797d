package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/stsysd/axisgraph/graph"
	"github.com/stsysd/axisgraph/heatmap"
	"github.com/stsysd/axisgraph/model"
)

// GetGraphParams represents parameters for getting a graph.
type GetGraphParams struct {
	Project      *model.ProjectName
	DateRange    *model.DateRange
	Axis         graph.AxisMode
	LevelSpacing *model.LevelSpacing
	Scheme       heatmap.Scheme
	Legend       heatmap.Legend
	Track        bool
}

// NewGetGraphParams creates parameters for graph generation from HTTP request.
func NewGetGraphParams(r *http.Request) (*GetGraphParams, error) {
	project, err := model.NewProjectName(r.PathValue("project"))
	if err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}

	query := r.URL.Query()

	dateRange, err := model.NewDateRange(query.Get("from"), query.Get("to"))
	if err != nil {
		return nil, err
	}
	axis, err := model.ParseAxisMode(query.Get("axis"))
	if err != nil {
		return nil, err
	}
	spacing, err := model.NewLevelSpacing(query.Get("spacing"))
	if err != nil {
		return nil, err
	}
	scheme, err := heatmap.ParseScheme(query.Get("scheme"))
	if err != nil {
		return nil, err
	}
	legend, err := heatmap.ParseLegend(query.Get("legend"))
	if err != nil {
		return nil, err
	}

	return &GetGraphParams{
		Project:      project,
		DateRange:    dateRange,
		Axis:         axis,
		LevelSpacing: spacing,
		Scheme:       scheme,
		Legend:       legend,
		Track:        query.Has("track"),
	}, nil
}

// graphConfig returns the engine configuration for the request.
func (p *GetGraphParams) graphConfig() graph.Config {
	return graph.Config{
		Range:        p.DateRange.Graph(),
		Axis:         p.Axis,
		LevelSpacing: p.LevelSpacing.Int(),
		Location:     time.Local,
	}
}

// buildGraph はプロジェクトのアクティビティを集計したグラフストアを作成します。
func (s *Server) buildGraph(ctx context.Context, params *GetGraphParams) (*graph.Store, *model.Project, error) {
	project, err := s.store.GetProject(ctx, params.Project.String())
	if err != nil {
		return nil, nil, err
	}

	cfg := params.graphConfig()

	// 先頭と末尾の週は範囲外の日も描画されるため、週全体を取得する
	var dates []time.Time
	if from, to, ok := cfg.Span(); ok {
		for ts, err := range s.store.ListActivityTimes(ctx, project.Name, from, to) {
			if err != nil {
				return nil, nil, err
			}
			dates = append(dates, ts)
		}
	}

	gs := graph.NewStore()
	if _, err := gs.Configure(cfg, graph.Input{Dates: dates}); err != nil {
		return nil, nil, model.NewValidationError(err.Error())
	}
	return gs, project, nil
}

// handleGetGraph は指定プロジェクトのコントリビューショングラフを生成・返却するハンドラーです。
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewGetGraphParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger := hlog.FromRequest(r)

	// アクセスカウンター機能: trackパラメータがある場合、アクティビティを自動作成
	if params.Track {
		activity, err := model.NewActivity(s.now(), params.Project.String())
		if err != nil {
			logger.Warn().Err(err).Str("project", params.Project.String()).Msg("failed to create access counter activity")
		} else if err := s.store.CreateActivity(r.Context(), activity); err != nil {
			// エラーが発生してもグラフ表示は続行
			logger.Warn().Err(err).Str("project", params.Project.String()).Msg("failed to save access counter activity")
		}
	}

	gs, project, err := s.buildGraph(r.Context(), params)
	if err != nil {
		status, message := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error().Err(err).Str("project", params.Project.String()).Msg("failed to build graph")
			message = "Failed to build graph"
		}
		http.Error(w, message, status)
		return
	}

	// SVGの生成
	opts := heatmap.DefaultOptions()
	opts.Scheme = params.Scheme
	opts.ShowLegend = params.Legend.Show
	opts.LegendLabel = params.Legend.Label
	opts.ProjectName = project.Name
	s.theme.ApplySVG(opts)

	svg := heatmap.RenderStore(gs, opts)

	// レスポンスの返却
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(svg))
}

// handleGetGrid は集計済みのグリッドをJSONで返却するハンドラーです。
func (s *Server) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	params, err := NewGetGraphParams(r)
	if err != nil {
		writeJSONError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	gs, _, err := s.buildGraph(r.Context(), params)
	if err != nil {
		writeStoreError(w, r, err, "build grid")
		return
	}

	data, err := graph.MarshalGrid(gs.Grid(), gs.Config().LevelSpacing)
	if err != nil {
		writeStoreError(w, r, err, "encode grid")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
