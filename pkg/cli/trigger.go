package cli

import (
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// triggerFlags holds the release tag and platform selection of a run
type triggerFlags struct {
	Tag      string
	Platform string
}

func (f *triggerFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tag",
			Aliases:     []string{"t"},
			Usage:       "Release tag to build and publish",
			Required:    true,
			Destination: &f.Tag,
			Sources:     cli.EnvVars("DRYDOCK_TAG"),
		},
		&cli.StringFlag{
			Name:        "platform",
			Aliases:     []string{"p"},
			Usage:       "Target platform (all, windows_linux, osx, android)",
			Value:       string(model.SelectAll),
			Destination: &f.Platform,
			Sources:     cli.EnvVars("DRYDOCK_PLATFORM"),
		},
	}
}

func (f *triggerFlags) Trigger() (model.Trigger, error) {
	sel, err := model.ParseSelection(f.Platform)
	if err != nil {
		return model.Trigger{}, err
	}
	tag := model.ReleaseTag(f.Tag)
	if err := tag.Validate(); err != nil {
		return model.Trigger{}, err
	}
	return model.Trigger{Tag: tag, Selection: sel}, nil
}
