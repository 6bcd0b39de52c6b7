package uploads

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/chatdesk/internal/models"
)

// UploadFiles uploads paths with at most concurrency requests in flight.
// Results come back in input order; a failed file does not stop the others.
// The returned error is ctx.Err(); files not yet started when ctx ended carry it too.
func (s *Service) UploadFiles(ctx context.Context, paths []string, concurrency int) ([]models.UploadResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]models.UploadResult, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, path := range paths {
		results[i].Path = path
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		i, path := i, path
		g.Go(func() error {
			resp, err := s.UploadPath(ctx, path)
			results[i].Response = resp
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}
