package osmparser

import (
	"lintang/fleetrouter/pkg/graph"
	"lintang/fleetrouter/pkg/util"
)

// BuildGraph loads the geometry source at path and builds the road graph from it. Unreadable
// sources are an error; a source without usable roads gives an empty graph.
func (l *Loader) BuildGraph(path string, cfg graph.BuildConfig) (*graph.Graph, error) {
	features, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	segments := Ingest(features)

	var bar util.Progress = util.NoProgress
	if l.showProgress {
		bar = util.NewProgressBar(len(segments), "[cyan][2/4][reset] building road graph...")
	}
	g, err := graph.NewBuilder(cfg).WithProgress(bar).Build(segments)
	if err != nil {
		return nil, err
	}

	l.log.Info("road graph built", "features", len(features), "segments", len(segments),
		"nodes", g.NumNodes(), "edges", g.NumEdges())
	return g, nil
}
