package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

//go:embed samples/*.json
var sampleFS embed.FS

// sampleSet is the offline data shown when the backend cannot be reached and
// fallback is enabled.
type sampleSet struct {
	Packages   []domain.Package
	Categories []domain.Category
	Users      []domain.User
	Bookings   []domain.Booking
	Posts      []domain.BlogPost
}

var (
	samplesOnce sync.Once
	samplesData sampleSet
	samplesErr  error
)

func loadSamples() (sampleSet, error) {
	samplesOnce.Do(func() {
		files := []struct {
			name string
			into any
		}{
			{"samples/packages.json", &samplesData.Packages},
			{"samples/categories.json", &samplesData.Categories},
			{"samples/users.json", &samplesData.Users},
			{"samples/bookings.json", &samplesData.Bookings},
			{"samples/blog.json", &samplesData.Posts},
		}
		for _, f := range files {
			raw, err := sampleFS.ReadFile(f.name)
			if err != nil {
				samplesErr = fmt.Errorf("read %s: %w", f.name, err)
				return
			}
			if err := json.Unmarshal(raw, f.into); err != nil {
				samplesErr = fmt.Errorf("decode %s: %w", f.name, err)
				return
			}
		}
	})
	return samplesData, samplesErr
}

// cloned returns a copy so callers cannot mutate the shared samples.
func cloned[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
