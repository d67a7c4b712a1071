package processing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lgbarn/xiangqi-manual-go/internal/codec"
	"github.com/lgbarn/xiangqi-manual-go/internal/config"
	"github.com/lgbarn/xiangqi-manual-go/internal/export"
	"github.com/lgbarn/xiangqi-manual-go/internal/hashing"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/matching"
	"github.com/lgbarn/xiangqi-manual-go/internal/worker"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// Saver persists a manual and returns its id.
type Saver interface {
	Save(ctx context.Context, m *manual.Manual, source string) (string, error)
}

// Converter turns one input file into one output file. Optional stages
// (filter, export, store, duplicate detection) run when their field is set. A
// Converter is safe for concurrent use when its Export, Saver and Dups
// are.
type Converter struct {
	// Format is the output format.
	Format codec.Format

	// Output names the output file for a single conversion. When empty the
	// output goes to OutDir with the input's base name and Format's
	// extension; when both are empty nothing is written.
	Output string
	OutDir string

	// Filter drops manuals it does not match before any other stage.
	Filter matching.ManualMatcher

	Layout     xiangqi.ChangeType
	OutputConf *config.OutputConfig

	Export  *export.Writer
	Saver   Saver
	Timeout time.Duration
	Dups    *hashing.ThreadSafeDuplicateDetector

	// SkipDuplicates drops duplicates before they are written.
	SkipDuplicates bool

	Log *zap.SugaredLogger
}

// OutputPath returns the path a given input is written to, or "" when
// nothing is written.
func (c *Converter) OutputPath(input string) string {
	if c.Output != "" {
		return c.Output
	}
	if c.OutDir == "" {
		return ""
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(c.OutDir, base+c.Format.Extension())
}

// Process converts the file named by job. It has the shape of a
// worker.ProcessFunc.
func (c *Converter) Process(job worker.Job) worker.Result {
	res := worker.Result{Job: job}
	log := c.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	m, err := codec.ReadFile(job.Path, codec.WithLogger(log))
	if err != nil {
		res.Err = err
		return res
	}
	res.Plies = CountPlies(m)

	if c.Filter != nil && !c.Filter.Match(m) {
		res.Skipped = true
		log.Debugw("filtered out", "file", job.Path)
		return res
	}

	if c.Layout != xiangqi.NoChange {
		if err := m.ChangeLayout(c.Layout); err != nil {
			res.Err = fmt.Errorf("%s: %w", job.Path, err)
			return res
		}
	}

	if c.Dups != nil && c.Dups.CheckAndAdd(m) {
		res.Duplicate = true
		log.Infow("duplicate manual", "file", job.Path)
		if c.SkipDuplicates {
			return res
		}
	}

	if out := c.OutputPath(job.Path); out != "" {
		opts := []codec.Option{codec.WithLogger(log)}
		if c.OutputConf != nil {
			opts = append(opts, codec.WithOutputConfig(c.OutputConf))
		}
		if err := codec.WriteFileFormat(out, m, c.Format, opts...); err != nil {
			res.Err = err
			return res
		}
		res.Output = out
	}

	if c.Saver != nil {
		ctx, cancel := withTimeout(c.Timeout)
		id, err := c.Saver.Save(ctx, m, job.Path)
		cancel()
		if err != nil {
			res.Err = fmt.Errorf("saving %s: %w", job.Path, err)
			return res
		}
		res.ManualID = id
	}

	if c.Export != nil {
		id := res.ManualID
		if id == "" {
			id = job.Path
		}
		if err := c.Export.Add(id, m); err != nil {
			res.Err = fmt.Errorf("exporting %s: %w", job.Path, err)
			return res
		}
	}

	log.Debugw("converted", "file", job.Path, "output", res.Output, "plies", res.Plies)
	return res
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}
