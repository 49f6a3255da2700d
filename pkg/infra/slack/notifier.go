package slack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Notifier posts run summaries to a Slack channel
type Notifier struct {
	client  *slack.Client
	channel string
}

type options struct {
	apiURL string
}

// Option configures the Notifier
type Option func(*options)

// WithAPIURL overrides the Slack API endpoint. The URL must end with a slash.
func WithAPIURL(url string) Option {
	return func(o *options) {
		o.apiURL = url
	}
}

// New creates a Notifier posting to channel
func New(token, channel string, opts ...Option) *Notifier {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	var clientOpts []slack.Option
	if cfg.apiURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(cfg.apiURL))
	}

	return &Notifier{
		client:  slack.New(token, clientOpts...),
		channel: channel,
	}
}

// NotifyRun posts the report as one message
func (n *Notifier) NotifyRun(ctx context.Context, report *model.RunReport) error {
	header := Headline(report)
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, header, false, false), nil, nil),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, jobLines(report), false, false), nil, nil),
	}

	if _, _, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(header, false),
		slack.MsgOptionBlocks(blocks...),
	); err != nil {
		return goerr.Wrap(err, "failed to post run summary to Slack",
			goerr.V("channel", n.channel),
			goerr.V("run_id", report.RunID),
		)
	}
	return nil
}

// Headline summarizes the run in one line
func Headline(report *model.RunReport) string {
	icon := ":white_check_mark:"
	state := "succeeded"
	switch {
	case len(report.FailedJobs()) > 0:
		icon, state = ":x:", "failed"
	case report.FailedUploads() > 0:
		icon, state = ":warning:", "finished with upload failures"
	}

	release := string(report.Trigger.Tag)
	if report.Release.HTMLURL != "" {
		release = fmt.Sprintf("<%s|%s>", report.Release.HTMLURL, report.Trigger.Tag)
	}
	return fmt.Sprintf("%s Release build %s %s (platform: %s)", icon, release, state, report.Trigger.Selection)
}

func jobLines(report *model.RunReport) string {
	var b strings.Builder
	for _, j := range report.Jobs {
		fmt.Fprintf(&b, "• `%s` %s", j.Job.ID(), j.Status)
		switch j.Status {
		case model.JobSkipped:
			fmt.Fprintf(&b, " (%s)", j.SkipReason)
		case model.JobSucceeded:
			fmt.Fprintf(&b, " in %s", j.Duration.Round(time.Second))
		}
		if failed := j.FailedUploads(); failed > 0 {
			fmt.Fprintf(&b, ", %d upload(s) failed", failed)
		}
		b.WriteString("\n")
	}
	return b.String()
}
