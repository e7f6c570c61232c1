package credentials

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"
)

// Name is the credential type the node asks the host for.
const Name = "xentral"

// ErrNoCredentials is returned when the host has no credentials for the node.
var ErrNoCredentials = errors.New("No credentials got returned!") //nolint:staticcheck

// Credentials identify one Xentral instance. Non-empty fields are enforced by the server, not here.
type Credentials struct {
	URL      string `mapstructure:"url" json:"url" yaml:"url"`
	Username string `mapstructure:"username" json:"username" yaml:"username"`
	Password string `mapstructure:"password" json:"password" yaml:"password"`
}

// Decode builds Credentials from the loosely typed map a host stores.
func Decode(raw map[string]any) (Credentials, error) {
	if raw == nil {
		return Credentials{}, ErrNoCredentials
	}
	var c Credentials
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Credentials{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Credentials{}, fmt.Errorf("decode %s credentials: %w", Name, err)
	}
	return c, nil
}

// String hides the password.
func (c Credentials) String() string {
	return fmt.Sprintf("url=%s username=%s password=%s", c.URL, c.Username, mask(c.Password))
}

// LogValue keeps the password out of structured logs.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.String("username", c.Username),
		slog.String("password", mask(c.Password)),
	)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***MASKED***"
}

// Property describes one credential form field.
type Property struct {
	DisplayName string `json:"displayName" yaml:"displayName"`
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Default     string `json:"default" yaml:"default"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Password    bool   `json:"password,omitempty" yaml:"password,omitempty"`
}

// Descriptor is the static credential schema shown by hosts.
type Descriptor struct {
	Name        string     `json:"name" yaml:"name"`
	DisplayName string     `json:"displayName" yaml:"displayName"`
	Properties  []Property `json:"properties" yaml:"properties"`
}

// Describe returns the credential schema.
func Describe() Descriptor {
	return Descriptor{
		Name:        Name,
		DisplayName: "Xentral",
		Properties: []Property{
			{
				DisplayName: "Xentral individual URL",
				Name:        "url",
				Type:        "string",
				Placeholder: "https://examplexentralserver.exampleservice.com",
			},
			{DisplayName: "App name / Username", Name: "username", Type: "string"},
			{DisplayName: "Initkey / Password", Name: "password", Type: "string", Password: true},
		},
	}
}
