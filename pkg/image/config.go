package image

import (
	"fmt"
	"time"

	v1 "github.com/google/go-containerregistry/pkg/v1"

	"github.com/netfuse/hpmq/pkg/buildconfig"
	"github.com/netfuse/hpmq/pkg/global"
)

// Metadata is what hpmq reads back from a built image's config.
type Metadata struct {
	Kind       buildconfig.Kind `json:"kind"`
	Entrypoint []string         `json:"entrypoint,omitempty"`
	Platform   string           `json:"platform"`
	Created    time.Time        `json:"created"`
}

func GetMetadata(img v1.Image) (*Metadata, error) {
	cf, err := img.ConfigFile()
	if err != nil {
		return nil, fmt.Errorf("Failed to read image config: %w", err)
	}
	meta := &Metadata{
		Entrypoint: cf.Config.Entrypoint,
		Platform:   cf.OS + "/" + cf.Architecture,
		Created:    cf.Created.Time,
	}
	// Images built elsewhere have no kind label and are treated as WASI.
	meta.Kind = buildconfig.ParseKind(cf.Config.Labels[global.LabelNamespace+"kind"])
	return meta, nil
}
