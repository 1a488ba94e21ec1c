package registry

import (
	"fmt"
	"io"

	"github.com/docker/cli/cli/config"
	"github.com/docker/cli/cli/config/configfile"
	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"

	"github.com/netfuse/hpmq/pkg/util/console"
)

// dockerHubConfigKey is the key Docker stores Docker Hub credentials under.
const dockerHubConfigKey = "https://index.docker.io/v1/"

// Prompter asks the user for a value given a label.
type Prompter interface {
	Prompt(label string) (string, error)
	PromptSecret(label string) (string, error)
}

type Credentials struct {
	Username string
	Password string
}

// loadDockerConfig is swapped out in tests.
var loadDockerConfig = func() *configfile.ConfigFile {
	return config.LoadDefaultConfigFile(io.Discard)
}

// ResolveAuth returns the authenticator for registry. Credentials given on
// the command line win; with none given, credentials saved by `docker login`
// are used; anything still missing is asked for through prompter.
func ResolveAuth(registry name.Registry, creds Credentials, prompter Prompter) (authn.Authenticator, error) {
	if creds.Username == "" && creds.Password == "" {
		if stored, ok := storedCredentials(registry); ok {
			console.Debugf("Using Docker credentials for %s", registry.RegistryStr())
			return authn.FromConfig(stored), nil
		}
	}

	creds, err := promptMissing(registry, creds, prompter)
	if err != nil {
		return nil, err
	}
	return &authn.Basic{Username: creds.Username, Password: creds.Password}, nil
}

func promptMissing(registry name.Registry, creds Credentials, prompter Prompter) (Credentials, error) {
	var err error
	if creds.Username == "" {
		if prompter == nil {
			return creds, fmt.Errorf("No username given for %s", registry.RegistryStr())
		}
		if creds.Username, err = prompter.Prompt("Username"); err != nil {
			return creds, err
		}
	}
	if creds.Password == "" {
		if prompter == nil {
			return creds, fmt.Errorf("No password given for %s", registry.RegistryStr())
		}
		if creds.Password, err = prompter.PromptSecret("Password"); err != nil {
			return creds, err
		}
	}
	return creds, nil
}

// dockerConfigKey is the key credentials for registry are kept under in
// Docker's config.json.
func dockerConfigKey(registry name.Registry) string {
	if registry.RegistryStr() == name.DefaultRegistry {
		return dockerHubConfigKey
	}
	return registry.RegistryStr()
}

func storedCredentials(registry name.Registry) (authn.AuthConfig, bool) {
	key := dockerConfigKey(registry)
	conf := loadDockerConfig()
	if conf == nil {
		return authn.AuthConfig{}, false
	}
	auth, err := conf.GetAuthConfig(key)
	if err != nil {
		console.Debugf("Failed to read Docker credentials for %s: %s", key, err)
		return authn.AuthConfig{}, false
	}
	if auth.Username == "" && auth.IdentityToken == "" && auth.RegistryToken == "" {
		return authn.AuthConfig{}, false
	}
	return authn.AuthConfig{
		Username:      auth.Username,
		Password:      auth.Password,
		Auth:          auth.Auth,
		IdentityToken: auth.IdentityToken,
		RegistryToken: auth.RegistryToken,
	}, true
}
