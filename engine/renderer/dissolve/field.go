package dissolve

import (
	"errors"
	"image"
	"math"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-dissolve/common"
	xdraw "golang.org/x/image/draw"
)

// ErrEmptyTarget is returned when the target frame has no area.
var ErrEmptyTarget = errors.New("target frame is empty")

const (
	defaultCellSize     = 4.0
	defaultMaxParticles = 40000
	// fieldTasks bounds how many row bands a field is split into.
	fieldTasks = 16
)

// FieldOptions tunes BuildField. Zero values select the defaults.
type FieldOptions struct {
	// CellSize is the edge length of one particle cell in points. Default 4.
	CellSize float64
	// MaxParticles caps the grid; the cell size grows until the grid fits. Default 40000.
	MaxParticles int
	// Travel is the longest distance a particle flies, in points.
	// Default: the larger side of the target frame.
	Travel float64
	// Seed selects the jitter pattern. The same seed always yields the same field.
	Seed uint64
}

// Field is the particle set sampled from one image.
type Field struct {
	// Particles holds one entry per non-transparent cell, in row-major order.
	Particles []Particle
	// CellSize is the cell edge actually used, in points.
	CellSize float64
	// Cols and Rows are the grid dimensions before transparent cells were dropped.
	Cols, Rows int
}

// BuildField samples img over target and returns one particle per visible cell.
// Rows are processed in bands on pool; BuildField returns once every band is done.
//
// Parameters:
//   - pool: the worker pool running the row bands
//   - img: the source bitmap (read only)
//   - target: where the image sits in host coordinates
//   - opts: sampling options
//
// Returns:
//   - Field: the sampled particles
//   - error: common.ErrEmptyBitmap or ErrEmptyTarget
func BuildField(pool worker.DynamicWorkerPool, img common.Bitmap, target common.Rect, opts FieldOptions) (Field, error) {
	if img.Empty() {
		return Field{}, common.ErrEmptyBitmap
	}
	if !(target.Width() > 0 && target.Height() > 0) {
		return Field{}, ErrEmptyTarget
	}

	maxParticles := common.Coalesce(opts.MaxParticles, defaultMaxParticles)
	cols, rows, cell := gridFor(target, common.Coalesce(opts.CellSize, defaultCellSize), maxParticles)
	travel := common.Coalesce(opts.Travel, math.Max(target.Width(), target.Height()))

	src := img.RGBA()
	grid := image.NewRGBA(image.Rect(0, 0, cols, rows))
	xdraw.ApproxBiLinear.Scale(grid, grid.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	cells := make([]Particle, cols*rows)
	visible := make([]bool, cols*rows)
	s := sampler{
		grid:    grid,
		target:  target,
		cols:    cols,
		rows:    rows,
		center:  target.Center(),
		travel:  travel,
		seed:    opts.Seed,
		cells:   cells,
		visible: visible,
	}

	band := (rows + fieldTasks - 1) / fieldTasks
	var wg sync.WaitGroup
	for start := 0; start < rows; start += band {
		end := min(start+band, rows)
		wg.Add(1)
		y0, y1 := start, end
		pool.SubmitTask(worker.Task{
			ID: y0,
			Do: func() (any, error) {
				defer wg.Done()
				s.sampleRows(y0, y1)
				return nil, nil
			},
		})
	}
	wg.Wait()

	out := cells[:0]
	for i := range cells {
		if visible[i] {
			out = append(out, cells[i])
		}
	}

	return Field{Particles: out, CellSize: cell, Cols: cols, Rows: rows}, nil
}

// gridFor picks the grid for target, growing the cell until cols*rows fits maxParticles.
func gridFor(target common.Rect, cell float64, maxParticles int) (cols, rows int, size float64) {
	cell = math.Max(cell, 0.5)
	for {
		cols = max(1, int(math.Ceil(target.Width()/cell)))
		rows = max(1, int(math.Ceil(target.Height()/cell)))
		if maxParticles <= 0 || cols*rows <= maxParticles {
			return cols, rows, cell
		}
		cell *= 1.25
	}
}

// sampler turns grid pixels into particles. Bands write disjoint index ranges of cells.
type sampler struct {
	grid    *image.RGBA
	target  common.Rect
	cols    int
	rows    int
	center  common.Point
	travel  float64
	seed    uint64
	cells   []Particle
	visible []bool
}

func (s *sampler) sampleRows(y0, y1 int) {
	cellW := s.target.Width() / float64(s.cols)
	cellH := s.target.Height() / float64(s.rows)
	halfDiag := math.Max(math.Hypot(s.target.Width(), s.target.Height())/2, 1)
	lastCol := float64(max(s.cols-1, 1))

	for y := y0; y < y1; y++ {
		for x := 0; x < s.cols; x++ {
			off := s.grid.PixOffset(x, y)
			px := s.grid.Pix[off : off+4 : off+4]
			if px[3] == 0 {
				continue
			}

			i := y*s.cols + x
			h := splitmix64(s.seed ^ uint64(i)*0x9e3779b97f4a7c15)
			r1, h := unit(h)
			r2, h := unit(h)
			r3, h := unit(h)
			r4, _ := unit(h)

			cx := s.target.MinX() + (float64(x)+0.5)*cellW
			cy := s.target.MinY() + (float64(y)+0.5)*cellH

			// Outward from the center, scattered by a random heading, drifting upward.
			nx := (cx - s.center.X) / halfDiag
			ny := (cy - s.center.Y) / halfDiag
			angle := r1 * 2 * math.Pi
			dx := 0.6*nx + 0.4*math.Cos(angle)
			dy := 0.6*ny + 0.4*math.Sin(angle) - 0.5
			if l := math.Hypot(dx, dy); l > 0 {
				dx, dy = dx/l, dy/l
			}
			dist := s.travel * (0.35 + 0.65*r2)

			s.cells[i] = Particle{
				Origin:   [2]float32{float32(cx), float32(cy)},
				Velocity: [2]float32{float32(dx * dist), float32(dy * dist)},
				Color: [4]float32{
					float32(px[0]) / 255,
					float32(px[1]) / 255,
					float32(px[2]) / 255,
					float32(px[3]) / 255,
				},
				// Left to right sweep, loosened by jitter.
				Delay: float32(0.45*float64(x)/lastCol + 0.1*r3),
				Scale: float32(0.8 + 0.4*r4),
			}
			s.visible[i] = true
		}
	}
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// unit returns a value in [0,1) derived from h and the next hash in the sequence.
func unit(h uint64) (float64, uint64) {
	next := splitmix64(h)
	return float64(next>>11) / (1 << 53), next
}
