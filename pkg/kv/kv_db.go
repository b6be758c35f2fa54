package kv

import (
	"errors"
	"log/slog"
	"sort"

	"lintang/fleetrouter/pkg/concurrent"
	"lintang/fleetrouter/pkg/datastructure"
	"lintang/fleetrouter/pkg/graph"
	"lintang/fleetrouter/pkg/util"

	"github.com/cockroachdb/pebble"
	"github.com/kelindar/binary"
	pkgerrors "github.com/pkg/errors"
	"github.com/uber/h3-go/v4"
)

const (
	checkpointVersion = 2
	h3Resolution      = 9
	metaKey           = "graph:meta"
	cellKeyPrefix     = "graph:cell:"
)

// ErrCheckpointNotFound no graph has been saved in the database yet.
var ErrCheckpointNotFound = errors.New("graph checkpoint not found")

// KVDB stores a built road graph in pebble, bucketed by the h3 cell of each node.
type KVDB struct {
	db       *pebble.DB
	log      *slog.Logger
	workers  int
	progress util.Progress
}

func NewKVDB(db *pebble.DB, log *slog.Logger, workers int) *KVDB {
	if workers < 1 {
		workers = 1
	}
	return &KVDB{
		db:       db,
		log:      log,
		workers:  workers,
		progress: util.NoProgress,
	}
}

// Open opens (or creates) the pebble database in dir.
func Open(dir string) (*pebble.DB, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open pebble db %s", dir)
	}
	return db, nil
}

// WithProgress reports one tick per written cell bucket.
func (k *KVDB) WithProgress(p util.Progress) *KVDB {
	k.progress = p
	return k
}

type saveCellJob struct {
	cell  string
	nodes []nodeRecord
}

// SaveGraph writes every node with its outgoing edges under the given build fingerprint. The meta
// record is written last, so a crashed save is never picked up by LoadGraph.
func (k *KVDB) SaveGraph(g *graph.Graph, fingerprint uint64) error {
	buckets := make(map[string][]nodeRecord)
	for i, c := range g.Nodes() {
		id := datastructure.NodeID(i + 1)
		rec := nodeRecord{ID: int32(id), Lon: c.Lon, Lat: c.Lat}
		for _, edgeIDx := range g.GetFirstOutEdge(id) {
			rec.Out = append(rec.Out, toEdgeRecord(edgeIDx, g.GetOutEdge(edgeIDx)))
		}
		cell := cellOf(c)
		buckets[cell] = append(buckets[cell], rec)
	}

	jobs := make([]saveCellJob, 0, len(buckets))
	for cell, nodes := range buckets {
		jobs = append(jobs, saveCellJob{cell: cell, nodes: nodes})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].cell < jobs[j].cell })

	for _, err := range concurrent.Run(k.workers, jobs, k.saveCell) {
		if err != nil {
			return err
		}
	}

	meta := metaRecord{
		Version:     checkpointVersion,
		NumNodes:    int32(g.NumNodes()),
		NumEdges:    int32(g.NumEdges()),
		Cells:       make([]string, len(jobs)),
		Fingerprint: fingerprint,
	}
	for i, job := range jobs {
		meta.Cells[i] = job.cell
	}
	bb, err := binary.Marshal(meta)
	if err != nil {
		return pkgerrors.Wrap(err, "encode checkpoint meta")
	}
	if err := k.db.Set([]byte(metaKey), bb, pebble.Sync); err != nil {
		return pkgerrors.Wrap(err, "write checkpoint meta")
	}

	k.log.Info("graph checkpoint saved", slog.Int("nodes", g.NumNodes()), slog.Int("edges", g.NumEdges()),
		slog.Int("cells", len(jobs)))
	return nil
}

func (k *KVDB) saveCell(job saveCellJob) error {
	val, err := encodeNodes(job.nodes)
	if err != nil {
		return pkgerrors.Wrapf(err, "encode cell %s", job.cell)
	}
	if err := k.db.Set([]byte(cellKeyPrefix+job.cell), val, pebble.NoSync); err != nil {
		return pkgerrors.Wrapf(err, "write cell %s", job.cell)
	}
	k.progress.Add(1)
	return nil
}

type loadCellResult struct {
	nodes []nodeRecord
	err   error
}

// LoadGraph rebuilds the graph saved by SaveGraph. Returns ErrCheckpointNotFound when nothing
// has been saved, or when the checkpoint was saved by another version or another fingerprint.
func (k *KVDB) LoadGraph(fingerprint uint64) (*graph.Graph, error) {
	val, closer, err := k.db.Get([]byte(metaKey))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrCheckpointNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read checkpoint meta")
	}
	// decoded strings may alias the buffer, which pebble reclaims on Close
	bb := append([]byte(nil), val...)
	closer.Close()
	var meta metaRecord
	err = binary.Unmarshal(bb, &meta)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "decode checkpoint meta")
	}
	if meta.Version != checkpointVersion {
		return nil, pkgerrors.Wrapf(ErrCheckpointNotFound, "checkpoint version %d, want %d", meta.Version, checkpointVersion)
	}
	if meta.Fingerprint != fingerprint {
		return nil, pkgerrors.Wrapf(ErrCheckpointNotFound, "checkpoint built from other inputs (fingerprint %x, want %x)",
			meta.Fingerprint, fingerprint)
	}

	nodes := make([]datastructure.Coordinate, meta.NumNodes)
	edges := make([]datastructure.Edge, meta.NumEdges)
	seenNodes, seenEdges := 0, 0

	for _, res := range concurrent.Run(k.workers, meta.Cells, k.loadCell) {
		if res.err != nil {
			return nil, res.err
		}
		for _, n := range res.nodes {
			if n.ID < 1 || n.ID > meta.NumNodes {
				return nil, pkgerrors.Errorf("checkpoint node id %d out of range", n.ID)
			}
			nodes[n.ID-1] = datastructure.NewCoordinate(n.Lon, n.Lat)
			seenNodes++
			for _, e := range n.Out {
				if e.Index < 0 || e.Index >= meta.NumEdges {
					return nil, pkgerrors.Errorf("checkpoint edge index %d out of range", e.Index)
				}
				edges[e.Index] = fromEdgeRecord(datastructure.NodeID(n.ID), e)
				seenEdges++
			}
		}
	}
	if seenNodes != int(meta.NumNodes) || seenEdges != int(meta.NumEdges) {
		return nil, pkgerrors.Errorf("checkpoint incomplete: %d/%d nodes, %d/%d edges",
			seenNodes, meta.NumNodes, seenEdges, meta.NumEdges)
	}

	g, err := graph.New(nodes, edges)
	if err != nil {
		return nil, err
	}
	k.log.Info("graph checkpoint loaded", slog.Int("nodes", g.NumNodes()), slog.Int("edges", g.NumEdges()))
	return g, nil
}

func (k *KVDB) loadCell(cell string) loadCellResult {
	val, closer, err := k.db.Get([]byte(cellKeyPrefix + cell))
	if err != nil {
		return loadCellResult{err: pkgerrors.Wrapf(err, "read cell %s", cell)}
	}
	defer closer.Close()
	nodes, err := decodeNodes(val)
	if err != nil {
		return loadCellResult{err: pkgerrors.Wrapf(err, "decode cell %s", cell)}
	}
	return loadCellResult{nodes: nodes}
}

func cellOf(c datastructure.Coordinate) string {
	cell := h3.LatLngToCell(h3.NewLatLng(c.Lat, c.Lon), h3Resolution)
	return cell.String()
}

func toEdgeRecord(idx int32, e datastructure.Edge) edgeRecord {
	geom := make([]float64, 0, 2*len(e.Geometry))
	for _, c := range e.Geometry {
		geom = append(geom, c.Lon, c.Lat)
	}
	return edgeRecord{
		Index:             idx,
		To:                int32(e.To),
		Geometry:          geom,
		LengthMeters:      e.LengthMeters,
		RoadClass:         e.RoadClass,
		SpeedKph:          e.SpeedKph,
		TravelTimeSeconds: e.TravelTimeSeconds,
	}
}

func fromEdgeRecord(from datastructure.NodeID, r edgeRecord) datastructure.Edge {
	geom := make([]datastructure.Coordinate, 0, len(r.Geometry)/2)
	for i := 0; i+1 < len(r.Geometry); i += 2 {
		geom = append(geom, datastructure.NewCoordinate(r.Geometry[i], r.Geometry[i+1]))
	}
	return datastructure.Edge{
		From:              from,
		To:                datastructure.NodeID(r.To),
		Geometry:          geom,
		LengthMeters:      r.LengthMeters,
		RoadClass:         r.RoadClass,
		SpeedKph:          r.SpeedKph,
		TravelTimeSeconds: r.TravelTimeSeconds,
	}
}
