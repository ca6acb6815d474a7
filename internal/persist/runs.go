package persist

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// FrameSample is one evaluated frame.
type FrameSample struct {
	Frame    int
	Duration time.Duration
	Objects  int // registered scene objects after the frame's sweep
}

// Run is one pass of evaluation mode over a camera path.
type Run struct {
	ID         uuid.UUID
	Label      string
	CameraPath string
	StartedAt  time.Time
	FinishedAt time.Time
	Frames     []FrameSample
}

// NewRun starts a run with a fresh ID.
func NewRun(label, cameraPath string) *Run {
	return &Run{
		ID:         uuid.New(),
		Label:      label,
		CameraPath: cameraPath,
		StartedAt:  time.Now(),
	}
}

// Add records a frame.
func (r *Run) Add(d time.Duration, objects int) {
	r.Frames = append(r.Frames, FrameSample{Frame: len(r.Frames), Duration: d, Objects: objects})
}

// Finish stamps the end time.
func (r *Run) Finish() { r.FinishedAt = time.Now() }

// Summary holds aggregate frame times.
type Summary struct {
	Frames int
	Mean   time.Duration
	P50    time.Duration
	P95    time.Duration
	Max    time.Duration
}

// Summarize aggregates the recorded frame times.
func (r *Run) Summarize() Summary {
	n := len(r.Frames)
	if n == 0 {
		return Summary{}
	}
	ds := make([]time.Duration, n)
	var total time.Duration
	for i, f := range r.Frames {
		ds[i] = f.Duration
		total += f.Duration
	}
	slices.Sort(ds)
	return Summary{
		Frames: n,
		Mean:   total / time.Duration(n),
		P50:    ds[percentileIndex(n, 50)],
		P95:    ds[percentileIndex(n, 95)],
		Max:    ds[n-1],
	}
}

// percentileIndex uses the nearest-rank method.
func percentileIndex(n, p int) int {
	i := (p*n+99)/100 - 1
	return max(0, min(i, n-1))
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// SaveRun atomically writes a run and its frames in a single transaction.
func (r *RunRepo) SaveRun(ctx context.Context, run *Run) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("run begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO eval_runs (id, label, camera_path, frames, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.Label, run.CameraPath, len(run.Frames), run.StartedAt, run.FinishedAt,
	); err != nil {
		return fmt.Errorf("run insert: %w", err)
	}

	rows := make([][]any, len(run.Frames))
	for i, f := range run.Frames {
		rows[i] = []any{run.ID, f.Frame, f.Duration.Microseconds(), f.Objects}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"eval_frames"},
		[]string{"run_id", "frame", "duration_us", "objects"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("run frames copy: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("run commit: %w", err)
	}
	r.db.log.Info("evaluation run stored",
		zap.String("run", run.ID.String()),
		zap.String("label", run.Label),
		zap.Int("frames", len(run.Frames)),
	)
	return nil
}

// RunInfo is a stored run without its frames.
type RunInfo struct {
	ID         uuid.UUID
	Label      string
	CameraPath string
	Frames     int
	StartedAt  time.Time
	MeanFrame  time.Duration
}

// RecentRuns lists the latest runs with the given label, newest first.
func (r *RunRepo) RecentRuns(ctx context.Context, label string, limit int) ([]RunInfo, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT r.id, r.label, r.camera_path, r.frames, r.started_at,
		        COALESCE(AVG(f.duration_us), 0)::BIGINT
		 FROM eval_runs r
		 LEFT JOIN eval_frames f ON f.run_id = r.id
		 WHERE r.label = $1
		 GROUP BY r.id
		 ORDER BY r.started_at DESC
		 LIMIT $2`,
		label, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var info RunInfo
		var meanUS int64
		if err := rows.Scan(&info.ID, &info.Label, &info.CameraPath, &info.Frames, &info.StartedAt, &meanUS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		info.MeanFrame = time.Duration(meanUS) * time.Microsecond
		out = append(out, info)
	}
	return out, rows.Err()
}
