package script

import (
	"bytes"
	"os"
	"strings"
	"text/template"

	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Step is one external command. Command, args and env values are templates
// rendered with Params.
type Step struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Env     []string `toml:"env"`
}

// Procedure holds the prepare and build steps of one family
type Procedure struct {
	Prepare []Step `toml:"prepare"`
	Build   []Step `toml:"build"`
}

// Config maps a family name to its procedure
type Config map[model.Family]Procedure

// Params is the data available to step templates
type Params struct {
	Version       string
	MobileVersion string
	VersionCode   int
	Family        string
	Arch          string
	ABI           string
	Network       string
	DisplayName   string
}

func newParams(job model.JobInstance, v model.VersionInfo) Params {
	p := Params{
		Version:       v.PackageVersion,
		MobileVersion: v.MobilePackageVersion,
		VersionCode:   v.MobileVersionCode,
		Family:        string(job.Family),
	}
	if !job.Cell.IsZero() {
		p.Arch = string(job.Cell.Architecture)
		p.ABI = job.Cell.Architecture.ABI()
		p.Network = string(job.Cell.Network)
		p.DisplayName = job.Cell.Network.DisplayName()
	}
	return p
}

// DefaultConfig returns the procedures of the standard contrib/ build scripts
func DefaultConfig() Config {
	return Config{
		model.FamilyDesktopImage: {
			Prepare: []Step{{Command: "contrib/osx/prepare.sh"}},
			Build:   []Step{{Command: "contrib/osx/make_osx"}},
		},
		model.FamilyMobilePackage: {
			Prepare: []Step{{Command: "contrib/android/prepare.sh", Args: []string{"{{.Arch}}"}}},
			Build: []Step{{
				Command: "contrib/android/make_apk",
				Args:    []string{"{{.Network}}", "{{.ABI}}"},
				Env:     []string{"ELECTRUM_MOBILE_VERSION={{.MobileVersion}}", "ELECTRUM_VERSION_CODE={{.VersionCode}}"},
			}},
		},
		model.FamilyCrossCompiled: {
			Prepare: []Step{{Command: "contrib/build-wine/prepare.sh"}},
			Build:   []Step{{Command: "contrib/build-linux/make_all.sh", Args: []string{"{{.Version}}"}}},
		},
	}
}

// LoadConfig reads procedures from a TOML file. Families absent from the file
// keep their default procedure.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read build config", goerr.V("path", path), goerr.T(types.ErrTagConfig))
	}
	return ParseConfig(raw)
}

// ParseConfig decodes TOML procedures merged over DefaultConfig
func ParseConfig(raw []byte) (Config, error) {
	var parsed map[string]Procedure
	decoder := toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields()
	if err := decoder.Decode(&parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse build config", goerr.T(types.ErrTagConfig))
	}

	cfg := DefaultConfig()
	for name, proc := range parsed {
		family := model.Family(name)
		if _, ok := cfg[family]; !ok {
			return nil, goerr.New("unknown family in build config", goerr.V("family", name), goerr.T(types.ErrTagConfig))
		}
		if err := proc.validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid procedure", goerr.V("family", name), goerr.T(types.ErrTagConfig))
		}
		cfg[family] = proc
	}
	return cfg, nil
}

func (p Procedure) validate() error {
	for _, step := range append(append([]Step{}, p.Prepare...), p.Build...) {
		if strings.TrimSpace(step.Command) == "" {
			return goerr.New("step has no command")
		}
		for _, e := range step.Env {
			if !strings.Contains(e, "=") {
				return goerr.New("env entry must be KEY=VALUE", goerr.V("env", e))
			}
		}
		for _, s := range append(append([]string{step.Command}, step.Args...), step.Env...) {
			if _, err := template.New("step").Option("missingkey=error").Parse(s); err != nil {
				return goerr.Wrap(err, "invalid template", goerr.V("template", s))
			}
		}
	}
	return nil
}

// render expands every template of the step
func (s Step) render(params Params) (command string, args []string, env []string, err error) {
	if command, err = renderString(s.Command, params); err != nil {
		return "", nil, nil, err
	}
	for _, a := range s.Args {
		r, err := renderString(a, params)
		if err != nil {
			return "", nil, nil, err
		}
		args = append(args, r)
	}
	for _, e := range s.Env {
		r, err := renderString(e, params)
		if err != nil {
			return "", nil, nil, err
		}
		env = append(env, r)
	}
	return command, args, env, nil
}

func renderString(s string, params Params) (string, error) {
	tmpl, err := template.New("step").Option("missingkey=error").Parse(s)
	if err != nil {
		return "", goerr.Wrap(err, "invalid template", goerr.V("template", s))
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", goerr.Wrap(err, "failed to render template", goerr.V("template", s))
	}
	return buf.String(), nil
}
