package loader

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/flycam/common"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.Mutex

	workers  int
	fallback bool
	pool     worker.DynamicWorkerPool

	cache map[string]common.TextureStagingData
}

// Loader decodes texture images into RGBA staging data for upload by the Renderer.
// Multiple sources are decoded in parallel on a worker pool and returned in request order.
type Loader interface {
	// Load decodes every source. Results are returned in the same order as sources.
	// Sources with a Path are cached by path, so loading the same file twice decodes it once.
	// When fallback is enabled a failed source is replaced by a checkerboard and the error is
	// only logged; otherwise all failures are joined into the returned error.
	//
	// Parameters:
	//   - sources: the textures to decode
	//
	// Returns:
	//   - []common.TextureStagingData: decoded textures, one per source
	//   - error: joined decode errors, each wrapping the failing path or name
	Load(sources ...common.TextureSource) ([]common.TextureStagingData, error)

	// LoadFile is a convenience wrapper around Load for a single file on disk.
	//
	// Parameters:
	//   - path: the PNG or JPEG file to decode
	//
	// Returns:
	//   - common.TextureStagingData: the decoded texture
	//   - error: error if the file is missing or cannot be decoded and fallback is off
	LoadFile(path string) (common.TextureStagingData, error)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader. The worker pool size defaults to GOMAXPROCS.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers: runtime.GOMAXPROCS(0),
		cache:   make(map[string]common.TextureStagingData),
	}
	for _, option := range options {
		option(l)
	}
	if l.workers < 1 {
		l.workers = 1
	}
	// Queue size of 256 comfortably covers startup texture batches.
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) LoadFile(path string) (common.TextureStagingData, error) {
	out, err := l.Load(common.TextureSource{Name: path, Path: path})
	if len(out) == 0 {
		return common.TextureStagingData{}, err
	}
	return out[0], err
}

func (l *loader) Load(sources ...common.TextureSource) ([]common.TextureStagingData, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	results := make([]common.TextureStagingData, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		if src.Path != "" && len(src.Data) == 0 {
			if cached, ok := l.cache[src.Path]; ok {
				results[i] = cached
				continue
			}
		}

		idx := i
		srcCap := src
		wg.Add(1)
		l.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				data, err := srcCap.Decode()
				results[idx] = data
				errs[idx] = err
				return nil, err
			},
		})
	}
	wg.Wait()

	var failed []error
	for i, err := range errs {
		if err == nil {
			if p := sources[i].Path; p != "" && len(sources[i].Data) == 0 {
				l.cache[p] = results[i]
			}
			continue
		}
		if l.fallback {
			log.Printf("[Loader] %v, using checkerboard", err)
			results[i] = Checkerboard(64, 8)
			continue
		}
		failed = append(failed, err)
	}
	if len(failed) > 0 {
		return results, fmt.Errorf("failed to load %d of %d textures: %w", len(failed), len(sources), errors.Join(failed...))
	}
	return results, nil
}

// Checkerboard generates an opaque magenta and black checkerboard, the conventional missing texture.
//
// Parameters:
//   - size: width and height in pixels
//   - cell: edge length of one square in pixels, clamped to at least 1
//
// Returns:
//   - common.TextureStagingData: size x size RGBA pixels
func Checkerboard(size, cell uint32) common.TextureStagingData {
	cell = max(cell, 1)
	pix := make([]byte, size*size*4)
	for y := range size {
		for x := range size {
			o := (y*size + x) * 4
			if (x/cell+y/cell)%2 == 0 {
				pix[o], pix[o+1], pix[o+2] = 255, 0, 255
			}
			pix[o+3] = 255
		}
	}
	return common.TextureStagingData{Pixels: pix, Width: size, Height: size}
}
