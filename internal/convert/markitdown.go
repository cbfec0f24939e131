// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/curioquest/internal/container"
)

const imageMarkitdown = "markitdown:latest"

// RuntimeDetector finds a container runtime. container.DetectRuntime satisfies it.
type RuntimeDetector func() (container.Runtime, error)

// MarkitdownConverter extracts text by piping PDFs through the markitdown
// container image. It depends on a container.Runtime (docker or podman)
// injected at construction time. markitdown does not report page
// boundaries, so the whole document comes back as a single page.
type MarkitdownConverter struct {
	runtime container.Runtime
}

// NewMarkitdownConverter creates a converter that uses the given container
// runtime to run the markitdown image. It verifies that the markitdown image
// exists locally before returning.
func NewMarkitdownConverter(rt container.Runtime) (*MarkitdownConverter, error) {
	if err := rt.ImageExists(imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt}, nil
}

// Name returns the backend identifier.
func (m *MarkitdownConverter) Name() string { return "markitdown" }

// Pages pipes the PDF through the markitdown container and returns its output.
func (m *MarkitdownConverter) Pages(ctx context.Context, r io.ReaderAt, size int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, imageMarkitdown, io.NewSectionReader(r, 0, size), &out); err != nil {
		return nil, fmt.Errorf("converting with markitdown: %w", err)
	}

	if out.Len() == 0 {
		return nil, fmt.Errorf("markitdown produced empty output")
	}

	return []string{out.String()}, nil
}
