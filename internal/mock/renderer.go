package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/xhad/qagen/internal/types"
)

var _ types.PageRenderer = (*Renderer)(nil)

// Renderer is a test double for types.PageRenderer.
type Renderer struct {
	RenderFunc func(ctx context.Context, url string, options map[string]string) (string, error)

	mu   sync.Mutex
	urls []string
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(ctx context.Context, url string, options map[string]string) (string, error) {
	r.mu.Lock()
	r.urls = append(r.urls, url)
	fn := r.RenderFunc
	r.mu.Unlock()

	if fn != nil {
		return fn(ctx, url, options)
	}
	return fmt.Sprintf("<html><body><p>Page %s</p></body></html>", url), nil
}

// URLs returns the rendered URLs in call order.
func (r *Renderer) URLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.urls))
	copy(out, r.urls)
	return out
}
