package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/docker/cli/cli/config/types"
	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"

	"github.com/netfuse/hpmq/pkg/util/console"
)

// Login checks creds against registry and saves them the way `docker login`
// does, so later pushes and pulls pick them up without prompting.
func Login(ctx context.Context, registry name.Registry, creds Credentials, prompter Prompter) error {
	creds, err := promptMissing(registry, creds, prompter)
	if err != nil {
		return err
	}

	auth := &authn.Basic{Username: creds.Username, Password: creds.Password}
	scopes := []string{registry.Scope(transport.PullScope)}
	if _, err := transport.NewWithContext(ctx, registry, auth, remote.DefaultTransport, scopes); err != nil {
		return fmt.Errorf("Failed to log in to %s: %w", registry.RegistryStr(), err)
	}

	conf := loadDockerConfig()
	if conf == nil {
		return errors.New("Docker config.json could not be loaded")
	}
	key := dockerConfigKey(registry)
	console.Debugf("Saving credentials for %s", key)
	err = conf.GetCredentialsStore(key).Store(types.AuthConfig{
		Username:      creds.Username,
		Password:      creds.Password,
		ServerAddress: key,
	})
	if err != nil {
		return fmt.Errorf("Failed to save credentials: %w", err)
	}
	return nil
}
