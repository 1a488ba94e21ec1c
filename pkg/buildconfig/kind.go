package buildconfig

import (
	"fmt"
	"strings"
)

// Kind is the runtime category of a built image.
type Kind int

const (
	// KindWasi is the zero value, so a config without a KIND directive is a WASI image.
	KindWasi Kind = iota
	KindApp
)

// ParseKind returns KindApp when s is "app" in any case and KindWasi for everything else.
func ParseKind(s string) Kind {
	if strings.EqualFold(s, "app") {
		return KindApp
	}
	return KindWasi
}

func (k Kind) String() string {
	switch k {
	case KindApp:
		return "app"
	case KindWasi:
		return "wasi"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "app":
		*k = KindApp
	case "wasi":
		*k = KindWasi
	default:
		return fmt.Errorf("unknown kind %q, must be 'wasi' or 'app'", text)
	}
	return nil
}
