package image

import (
	"context"
	"fmt"
	"runtime"
	"time"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/types"

	"github.com/netfuse/hpmq/pkg/buildconfig"
	"github.com/netfuse/hpmq/pkg/global"
	"github.com/netfuse/hpmq/pkg/util/console"
)

// WasmVariantAnnotation marks an image as a WASM module for runtimes such as crun and runwasi.
const WasmVariantAnnotation = "module.wasm.image/variant"

// Build an image from a translated build file
//
// Every COPY becomes an entry of a single layer, CMD becomes the entrypoint and
// KIND picks the platform. Sources are resolved against contextDir.
func Build(ctx context.Context, cfg *buildconfig.BuildConfig, contextDir string) (v1.Image, error) {
	layer, err := newLayer(ctx, cfg, contextDir)
	if err != nil {
		return nil, err
	}

	img, err := mutate.AppendLayers(empty.Image, layer)
	if err != nil {
		return nil, fmt.Errorf("Failed to add layer: %w", err)
	}
	img = mutate.MediaType(img, types.OCIManifestSchema1)
	img = mutate.ConfigMediaType(img, types.OCIConfigJSON)

	cf, err := img.ConfigFile()
	if err != nil {
		return nil, err
	}
	cf = cf.DeepCopy()
	cf.OS, cf.Architecture = platform(cfg.Kind())
	cf.Created = v1.Time{Time: time.Now().UTC()}
	cf.Config.Labels = map[string]string{
		global.LabelNamespace + "kind":    cfg.Kind().String(),
		global.LabelNamespace + "version": global.Version,
	}
	if cmd, ok := cfg.Cmd(); ok {
		cf.Config.Entrypoint = []string{cmd.ImagePath()}
	} else {
		console.Debug("No CMD in build file, the image has no entrypoint")
	}

	img, err = mutate.ConfigFile(img, cf)
	if err != nil {
		return nil, fmt.Errorf("Failed to set image config: %w", err)
	}

	if cfg.Kind() == buildconfig.KindWasi {
		img = mutate.Annotations(img, map[string]string{
			WasmVariantAnnotation: "compat",
		}).(v1.Image)
	}
	return img, nil
}

func platform(kind buildconfig.Kind) (goos string, goarch string) {
	if kind == buildconfig.KindApp {
		return "linux", runtime.GOARCH
	}
	return "wasip1", "wasm"
}
