// Package charts renders the exploratory charts: bar charts for discrete
// and logical columns, histograms for continuous and datetime columns,
// each in an unconditioned and a sheet-faceted variant. Charts are output
// artifacts only; nothing reads them back.
package charts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/BryanOD95/data-workshops/internal/classify"
	"github.com/BryanOD95/data-workshops/internal/dataset"
)

// Options configures chart rendering.
type Options struct {
	// TopN caps the number of levels per bar chart; less frequent levels
	// are grouped into an "other" bucket.
	TopN int
	// Bins is the histogram bin count.
	Bins int
	// LabelWidth truncates longer level labels.
	LabelWidth int
	// Workers bounds concurrent renders; <=0 means a small default.
	Workers int
}

// DefaultOptions mirrors the original analysis constants.
func DefaultOptions() Options {
	return Options{TopN: 40, Bins: 30, LabelWidth: 24, Workers: 4}
}

// Renderer writes PNG charts under a target directory.
type Renderer struct {
	dir    string
	opts   Options
	logger *slog.Logger
}

// NewRenderer creates a renderer writing into dir.
func NewRenderer(dir string, opts Options, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopN <= 0 {
		opts.TopN = 40
	}
	if opts.Bins <= 1 {
		opts.Bins = 30
	}
	if opts.LabelWidth <= 3 {
		opts.LabelWidth = 24
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &Renderer{dir: dir, opts: opts, logger: logger}
}

// renderJob is one chart: a column, an optional facet filter, a path.
type renderJob struct {
	column string
	label  classify.Label
	facet  string // empty for the unconditioned view
	rows   []int  // nil for all rows
	path   string
}

// RenderAll renders one chart per plottable column, plus one per source
// sheet when facetColumn names a categorical column. It returns the
// number of charts written. Rendering fans out over a bounded worker
// group; each job touches only its own file.
func (r *Renderer) RenderAll(ctx context.Context, f *dataset.Frame, cls classify.Classification, exclude map[string]bool, facetColumn string) (int, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create charts directory: %w", err)
	}

	jobs := r.buildJobs(f, cls, exclude, facetColumn)

	var rendered atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.render(f, job); err != nil {
				return fmt.Errorf("chart %s: %w", filepath.Base(job.path), err)
			}
			rendered.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(rendered.Load()), err
	}

	r.logger.InfoContext(ctx, "charts rendered",
		slog.Int("count", int(rendered.Load())),
		slog.String("dir", r.dir))
	return int(rendered.Load()), nil
}

// buildJobs lists every chart to render: unconditioned first, then one
// per facet level.
func (r *Renderer) buildJobs(f *dataset.Frame, cls classify.Classification, exclude map[string]bool, facetColumn string) []renderJob {
	var facets []string
	facetRows := map[string][]int{}
	if fc := f.Column(facetColumn); fc != nil {
		for i, v := range fc.Values {
			if v.Kind != dataset.KindString {
				continue
			}
			if _, seen := facetRows[v.Str]; !seen {
				facets = append(facets, v.Str)
			}
			facetRows[v.Str] = append(facetRows[v.Str], i)
		}
	}

	var jobs []renderJob
	for _, name := range cls.Columns() {
		if exclude[name] || name == facetColumn {
			continue
		}
		label := cls.Label(name)
		if label == classify.LabelNA {
			continue
		}
		jobs = append(jobs, renderJob{
			column: name,
			label:  label,
			path:   filepath.Join(r.dir, fileName(name, "all")),
		})
		for _, facet := range facets {
			jobs = append(jobs, renderJob{
				column: name,
				label:  label,
				facet:  facet,
				rows:   facetRows[facet],
				path:   filepath.Join(r.dir, fileName(name, facet)),
			})
		}
	}
	return jobs
}

// render draws a single chart.
func (r *Renderer) render(f *dataset.Frame, job renderJob) error {
	col := f.Column(job.column)
	if col == nil {
		return fmt.Errorf("column %q not found", job.column)
	}
	values := col.Values
	if job.rows != nil {
		values = make([]dataset.Value, len(job.rows))
		for i, row := range job.rows {
			values[i] = col.Values[row]
		}
	}

	title := fmt.Sprintf("Distribution of %s", job.column)
	if job.facet != "" {
		title = fmt.Sprintf("Distribution of %s (sheet %s)", job.column, job.facet)
	}

	switch job.label {
	case classify.LabelDiscrete, classify.LabelLogical:
		counts := levelCounts(values, col.Levels, r.opts.TopN, r.opts.LabelWidth)
		return r.barChart(title, job.column, counts, job.path)
	case classify.LabelContinuous:
		return r.histogram(title, job.column, numericValues(values), false, job.path)
	case classify.LabelDatetime:
		return r.histogram(title, job.column, timeValues(values), true, job.path)
	default:
		return nil
	}
}

// levelCount is one bar of a categorical chart.
type levelCount struct {
	Label string
	Count int
}

// levelCounts tallies values per level, most frequent first, keeping the
// top n levels and folding the remainder into "other". Labels longer than
// width are truncated.
func levelCounts(values []dataset.Value, levels []string, n, width int) []levelCount {
	counts := make(map[string]int)
	var order []string
	for _, l := range levels {
		order = append(order, l)
		counts[l] = 0
	}
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		label := v.Render()
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	var out []levelCount
	other := 0
	for i, label := range order {
		if counts[label] == 0 {
			continue
		}
		if i < n {
			out = append(out, levelCount{Label: truncateLabel(label, width), Count: counts[label]})
		} else {
			other += counts[label]
		}
	}
	if other > 0 {
		out = append(out, levelCount{Label: "other", Count: other})
	}
	return out
}

// truncateLabel shortens a label to width runes, marking the cut.
func truncateLabel(label string, width int) string {
	runes := []rune(label)
	if len(runes) <= width {
		return label
	}
	return string(runes[:width-3]) + "..."
}

// numericValues extracts the numeric cells.
func numericValues(values []dataset.Value) []float64 {
	var out []float64
	for _, v := range values {
		if x, ok := v.AsFloat(); ok {
			out = append(out, x)
		}
	}
	return out
}

// timeValues extracts time cells as unix seconds.
func timeValues(values []dataset.Value) []float64 {
	var out []float64
	for _, v := range values {
		if v.Kind == dataset.KindTime {
			out = append(out, float64(v.Time.Unix()))
		}
	}
	return out
}

// barChart renders one categorical chart.
func (r *Renderer) barChart(title, column string, counts []levelCount, path string) error {
	if len(counts) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "rows"

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		labels[i] = c.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(labels...)

	return p.Save(9*vg.Inch, 5*vg.Inch, path)
}

// histogram renders one continuous or datetime chart. Continuous charts
// carry mean and median reference lines.
func (r *Renderer) histogram(title, column string, values []float64, isTime bool, path string) error {
	if len(values) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = column
	p.Y.Label.Text = "rows"
	if isTime {
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	}

	hist, err := plotter.NewHist(plotter.Values(values), r.opts.Bins)
	if err != nil {
		return err
	}
	p.Add(hist)

	if !isTime {
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		mean := stat.Mean(sorted, nil)
		median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

		_, _, _, ymax := hist.DataRange()
		for _, ref := range []struct {
			name string
			x    float64
		}{{"mean", mean}, {"median", median}} {
			line, err := plotter.NewLine(plotter.XYs{{X: ref.x, Y: 0}, {X: ref.x, Y: ymax}})
			if err != nil {
				return err
			}
			line.LineStyle.Width = vg.Points(1.5)
			p.Add(line)
			p.Legend.Add(ref.name, line)
		}
	}

	return p.Save(9*vg.Inch, 5*vg.Inch, path)
}

// fileName builds a chart file name from column and facet.
func fileName(column, facet string) string {
	return fmt.Sprintf("%s_%s.png", slug(column), slug(facet))
}

// slug converts a label into a file-name-safe token.
func slug(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case sb.Len() > 0 && sb.String()[sb.Len()-1] != '_':
			sb.WriteByte('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}
