package recipe

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// Report summarizes how one source contributed to a build.
type Report struct {
	Source   string        // Source name
	Priority int           // Declared priority
	Recipes  int           // Recipes loaded (0 when Err is set)
	Won      int           // Outputs this source defines in the merged table
	Err      error         // Load failure, if any
	Duration time.Duration // Time spent loading
}

// BuildResult is the outcome of [Builder.Build].
type BuildResult struct {
	Table   *Table
	Reports []Report
	Cycles  [][]string // Cycles broken while validating the merged table
}

// Builder merges prioritized sources into a [Table].
//
// For each output item, the recipe of the highest-priority source wins
// outright; ingredients are never merged across sources. When two sources
// share a priority, the one appearing later in the source list wins.
type Builder struct {
	sources []Source
	logger  *log.Logger
}

// NewBuilder creates a builder over sources, in load order.
// If logger is nil, log.Default() is used.
func NewBuilder(logger *log.Logger, sources ...Source) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{sources: sources, logger: logger}
}

// Sources returns the configured sources in load order.
func (b *Builder) Sources() []Source { return slices.Clone(b.sources) }

// Build loads every source and merges the results. A source that fails to
// load contributes nothing; the error is logged and recorded in its report
// but never fails the build. Cycles in the merged table are broken and
// logged. Build only returns an error when ctx is cancelled.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	type loaded struct {
		index   int
		source  Source
		recipes []Recipe
	}

	reports := make([]Report, len(b.sources))
	var all []loaded
	for i, src := range b.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		recipes, err := src.Load(ctx)
		reports[i] = Report{
			Source:   src.Name(),
			Priority: src.Priority(),
			Err:      err,
			Duration: time.Since(start),
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			b.logger.Warn("recipe source skipped", "source", src.Name(), "err", err)
			continue
		}
		reports[i].Recipes = len(recipes)
		b.logger.Debug("loaded recipe source", "source", src.Name(), "priority", src.Priority(), "recipes", len(recipes))
		all = append(all, loaded{index: i, source: src, recipes: recipes})
	}

	// Apply lowest priority first so higher priorities overwrite; the stable
	// sort keeps load order among equal priorities, letting later sources win.
	slices.SortStableFunc(all, func(x, y loaded) int {
		return cmp.Compare(x.source.Priority(), y.source.Priority())
	})

	var (
		merged []Recipe
		pos    = make(map[string]int)
		owner  = make(map[string]int)
	)
	for _, l := range all {
		for _, r := range l.recipes {
			if i, ok := pos[r.Output]; ok {
				merged[i] = r
			} else {
				pos[r.Output] = len(merged)
				merged = append(merged, r)
			}
			owner[r.Output] = l.index
		}
	}

	table, cycles := BreakCycles(NewTable(merged))
	for _, c := range cycles {
		b.logger.Warn("recipe cycle broken", "cycle", c, "dropped", c[len(c)-2])
	}
	for _, out := range table.Outputs() {
		reports[owner[out]].Won++
	}

	return &BuildResult{Table: table, Reports: reports, Cycles: cycles}, nil
}
