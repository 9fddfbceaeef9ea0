// Command spriterender renders the frames of a YAML sprite scene to image
// files.
//
// Usage:
//
//	spriterender -scene walk.yaml -out walk%03d.png -frames 0-3 -zoom 4
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/internal/imgpool"
	"github.com/gogpu/sprite/internal/parallel"
	"github.com/gogpu/sprite/render"
)

func main() {
	var (
		scenePath = flag.String("scene", "", "scene file (YAML)")
		output    = flag.String("out", "frame%03d.png", "output file; %d is replaced by the frame number")
		frames    = flag.String("frames", "all", "frames to render: all, N or A-B")
		zoom      = flag.String("zoom", "", "zoom as N or N/D, overriding the scene")
		format    = flag.String("format", "png", "output format: png, bmp or jpeg")
		thumb     = flag.Int("thumb", 0, "also write a thumbnail of this width")
		workers   = flag.Int("workers", 0, "number of render workers (0 = GOMAXPROCS)")
		verbose   = flag.Bool("v", false, "log render details")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	sprite.SetLogger(logger)

	if *scenePath == "" {
		log.Fatalf("missing -scene")
	}
	enc, err := encoder(*format)
	if err != nil {
		log.Fatalf("%v", err)
	}

	sc, err := LoadScene(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	s, req, err := sc.Build(filepath.Dir(*scenePath))
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}
	if *zoom != "" {
		z, err := parseZoom(*zoom)
		if err != nil {
			log.Fatalf("%v", err)
		}
		p := req.Projection()
		p.Zoom = z
		req = req.With(render.WithProjection(p))
	}

	list, err := parseFrames(*frames, s.TotalFrames())
	if err != nil {
		log.Fatalf("%v", err)
	}

	job := &renderJob{
		s:       s,
		req:     req,
		output:  *output,
		encoder: enc,
		thumb:   *thumb,
		images:  imgpool.New(*workers + 1),
		logger:  logger,
	}
	if err := job.run(context.Background(), list, *workers); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	logger.Info("done", "frames", len(list), "size", fmt.Sprintf("%dx%d", s.Width(), s.Height()))
}

// renderJob renders and saves a list of frames.
type renderJob struct {
	s       *sprite.Sprite
	req     render.Request
	output  string
	encoder imgio.Encoder
	thumb   int
	images  *imgpool.Pool
	logger  *slog.Logger
}

// run renders every frame on a worker pool and returns the joined errors.
func (j *renderJob) run(ctx context.Context, frames []sprite.Frame, workers int) error {
	pool := parallel.NewWorkerPool(workers)
	defer pool.Close()

	var (
		mu   sync.Mutex
		errs []error
	)
	jobs := make([]func(), len(frames))
	for i, f := range frames {
		jobs[i] = func() {
			if err := j.renderFrame(f); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("frame %d: %w", f, err))
				mu.Unlock()
			}
		}
	}
	if err := pool.ExecuteAll(ctx, jobs); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func (j *renderJob) renderFrame(f sprite.Frame) error {
	area := render.FullClip(j.s.Width(), j.s.Height(), j.req.Projection())
	dst, err := j.images.Get(area.W, area.H, sprite.FormatRGB)
	if err != nil {
		return err
	}
	defer j.images.Put(dst)

	render.RenderSprite(dst, j.s, f, area, j.req)

	img := dst.ToNRGBA(j.s.Palette(f))
	name := frameName(j.output, f)
	if err := imgio.Save(name, img, j.encoder); err != nil {
		return err
	}
	j.logger.Debug("saved frame", "frame", f, "file", name)

	if j.thumb > 0 {
		h := max(1, img.Bounds().Dy()*j.thumb/img.Bounds().Dx())
		small := transform.Resize(img, j.thumb, h, transform.NearestNeighbor)
		if err := imgio.Save(thumbName(name), small, j.encoder); err != nil {
			return err
		}
	}
	return nil
}

func encoder(format string) (imgio.Encoder, error) {
	switch strings.ToLower(format) {
	case "png":
		return imgio.PNGEncoder(), nil
	case "bmp":
		return imgio.BMPEncoder(), nil
	case "jpg", "jpeg":
		return imgio.JPEGEncoder(95), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// parseFrames parses "all", "N" or "A-B" into a frame list.
func parseFrames(s string, total int) ([]sprite.Frame, error) {
	from, to := 0, total-1
	if s != "all" {
		a, b, isRange := strings.Cut(s, "-")
		var err error
		if from, err = strconv.Atoi(a); err != nil {
			return nil, fmt.Errorf("frames %q: %w", s, err)
		}
		to = from
		if isRange {
			if to, err = strconv.Atoi(b); err != nil {
				return nil, fmt.Errorf("frames %q: %w", s, err)
			}
		}
	}
	if from < 0 || to >= total || from > to {
		return nil, fmt.Errorf("frames %q: %w", s, sprite.ErrFrameOutOfRange)
	}
	frames := make([]sprite.Frame, 0, to-from+1)
	for f := from; f <= to; f++ {
		frames = append(frames, sprite.Frame(f))
	}
	return frames, nil
}

// frameName substitutes the frame number into pattern. Patterns without a
// verb get the number appended before the extension.
func frameName(pattern string, f sprite.Frame) string {
	if strings.Contains(pattern, "%") {
		return fmt.Sprintf(pattern, int(f))
	}
	ext := filepath.Ext(pattern)
	return fmt.Sprintf("%s%d%s", strings.TrimSuffix(pattern, ext), int(f), ext)
}

func thumbName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".thumb" + ext
}
