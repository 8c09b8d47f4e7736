package image

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/qhub-dev/qhub/internal/ui/console"
)

// BuildEngine builds one container image from its definition file. The
// develop pipeline backs this with minikube's in-cluster image build.
type BuildEngine interface {
	ImageBuild(ctx context.Context, definitionPath, contextDir, name, tag string) error
}

// Builder builds every discovered image definition sequentially, tagging
// each with the same build identifier. Builds are not parallelized and not
// retried: the first failure aborts the remaining builds.
type Builder struct {
	engine  BuildEngine
	console *console.Console
}

// NewBuilder returns a Builder delegating to engine.
func NewBuilder(engine BuildEngine, con *console.Console) *Builder {
	return &Builder{engine: engine, console: con}
}

// Ref formats an image reference as name:tag.
func Ref(name, tag string) string {
	return name + ":" + tag
}

// BuildAll builds one image per definition with contextDir as the build
// context and tag as the image tag. An empty definition list is a no-op.
func (b *Builder) BuildAll(ctx context.Context, contextDir string, defs []Definition, tag string) error {
	for _, def := range defs {
		ref := Ref(def.Name, tag)
		done := b.console.Timer(
			fmt.Sprintf("Building %s image %q", filepath.Base(def.Path), ref),
			fmt.Sprintf("Built %s image %q", filepath.Base(def.Path), ref),
		)
		if err := b.engine.ImageBuild(ctx, def.Path, contextDir, def.Name, tag); err != nil {
			return fmt.Errorf("building image %s: %w", ref, err)
		}
		done()
	}
	return nil
}
