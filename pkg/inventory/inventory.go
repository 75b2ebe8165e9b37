package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// Collector discovers resources of one service and snapshots them as
// descriptors for the engine.
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]models.ResourceDescriptor, error)
}

// maxConcurrentCollectors bounds parallel discovery calls against the
// cloud APIs.
const maxConcurrentCollectors = 4

// CollectAll runs every collector and merges their descriptors, sorted by
// ID. A failing collector is logged and skipped; discovery only fails as a
// whole when every collector failed.
func CollectAll(ctx context.Context, log *zap.Logger, collectors ...Collector) ([]models.ResourceDescriptor, error) {
	var (
		all    []models.ResourceDescriptor
		failed []error
		mu     sync.Mutex
		wg     sync.WaitGroup
	)

	sem := make(chan struct{}, maxConcurrentCollectors)
	for _, c := range collectors {
		wg.Add(1)
		go func(c Collector) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			descriptors, err := c.Collect(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("collector failed", zap.String("collector", c.Name()), zap.Error(err))
				failed = append(failed, fmt.Errorf("%s: %w", c.Name(), err))
				return
			}
			all = append(all, descriptors...)
		}(c)
	}
	wg.Wait()

	if len(failed) > 0 && len(all) == 0 {
		return nil, fmt.Errorf("all collectors failed: %v", failed)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

type inventoryFile struct {
	Resources []models.ResourceDescriptor `json:"resources"`
}

// LoadFile reads a JSON inventory snapshot for offline runs.
func LoadFile(path string) ([]models.ResourceDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}
	var f inventoryFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse inventory file: %w", err)
	}
	sort.Slice(f.Resources, func(i, j int) bool { return f.Resources[i].ID < f.Resources[j].ID })
	return f.Resources, nil
}
