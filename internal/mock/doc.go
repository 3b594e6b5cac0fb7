// Package mock provides test doubles for the pipeline's collaborators.
//
// Each double takes an optional function field that replaces its default
// behavior, and counts its calls. All doubles are safe for concurrent use,
// since the multi-URL pipeline calls them from several workers at once.
//
//	client := mock.NewModelClient()
//	client.CompletionFunc = func(ctx context.Context, prompt, model string, opts types.CompletionOptions) (string, error) {
//	    return `[{"question":"Q","answer":"A"}]`, nil
//	}
//
// Default behavior:
//
//   - ModelClient: completion returns an empty JSON array, embedding returns a
//     deterministic vector derived from the input text
//   - Renderer: returns a small HTML page naming the requested URL
//   - ByteTokenizer: one token per byte
package mock
