package engine

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/state"
)

// Files read from the resource directory.
const (
	treeTexture     = "happy-tree.png"
	faceTexture     = "face.jpg"
	materialDir     = "steelplate1"
	materialPrefix  = "steelplate1_"
	environmentFile = "Subway_Lights/20_Subway_Lights_3k.hdr"
)

// simpleTextures are the textures the Simple effect cycles through, in order.
var simpleTextures = []string{treeTexture, faceTexture}

// sceneAssets is every decoded file the effects upload at startup.
type sceneAssets struct {
	simple []common.TextureStagingData
	pbr    state.PbrAssets
}

// decodeJob is one CPU-only decode. It must not touch the device.
type decodeJob struct {
	name string
	run  func() error
}

// materialPath returns the path of one steel plate map, e.g. "albedo" or "normal-dx".
func materialPath(dir, kind string) string {
	return filepath.Join(dir, materialDir, materialPrefix+kind+".png")
}

// newDecodePool creates the worker pool asset decodes run on.
func newDecodePool(workers int) worker.DynamicWorkerPool {
	return worker.NewDynamicWorkerPool(max(workers, 1), 256, 1*time.Second)
}

// loadAssets decodes the Simple textures, the steel plate material and the environment map on
// pool. Albedo and the Simple textures are sRGB; the other maps hold linear data. GPU uploads stay
// with the caller.
//
// Parameters:
//   - pool: the worker pool the decodes run on
//   - dir: the resource directory
//   - maxDim: the texture dimension cap, 0 for none
//
// Returns:
//   - sceneAssets: the decoded assets
//   - error: the failure of the first job in file order
func loadAssets(pool worker.DynamicWorkerPool, dir string, maxDim uint32) (sceneAssets, error) {
	assets := sceneAssets{simple: make([]common.TextureStagingData, len(simpleTextures))}

	var jobs []decodeJob
	for i, name := range simpleTextures {
		jobs = append(jobs, imageJob("texture "+name, filepath.Join(dir, name), false, maxDim, &assets.simple[i]))
	}
	maps := []struct {
		kind   string
		linear bool
		dst    *common.TextureStagingData
	}{
		{"albedo", false, &assets.pbr.Albedo},
		{"roughness", true, &assets.pbr.Roughness},
		{"metallic", true, &assets.pbr.Metallic},
		{"normal-dx", true, &assets.pbr.Normal},
		{"ao", true, &assets.pbr.AO},
	}
	for _, m := range maps {
		jobs = append(jobs, imageJob("material "+m.kind, materialPath(dir, m.kind), m.linear, maxDim, m.dst))
	}
	jobs = append(jobs, decodeJob{
		name: "environment map",
		run: func() (err error) {
			assets.pbr.Environment, err = loader.LoadHDR(filepath.Join(dir, environmentFile))
			return err
		},
	})

	if err := runDecodes(pool, jobs); err != nil {
		return sceneAssets{}, err
	}
	return assets, nil
}

func imageJob(name, path string, linear bool, maxDim uint32, dst *common.TextureStagingData) decodeJob {
	return decodeJob{
		name: name,
		run: func() (err error) {
			*dst, err = loader.LoadImage(path, linear, maxDim)
			return err
		},
	}
}

// runDecodes submits every job to pool and waits for all of them. Each job writes only its own
// destination, so no locking is needed beyond the wait.
//
// Returns:
//   - error: the first failed job in slice order, prefixed with its name
func runDecodes(pool worker.DynamicWorkerPool, jobs []decodeJob) error {
	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				errs[i] = job.run()
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("%s: %w", jobs[i].name, err)
		}
	}
	return nil
}
