package detector

import (
	"context"
	"fmt"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/bannedword"
	"github.com/sirupsen/logrus"
)

type bannedWordDetector struct {
	name    string
	reason  safety.Reason
	checker bannedword.Checker
	logger  *logrus.Logger
}

// NewBannedWordDetector screens inbound messages.
func NewBannedWordDetector(logger *logrus.Logger, checker bannedword.Checker) Detector {
	return &bannedWordDetector{
		name:    NameBannedWord,
		reason:  safety.ReasonBannedWord,
		checker: checker,
		logger:  logger,
	}
}

// NewOutputBannedWordDetector screens generated replies.
func NewOutputBannedWordDetector(logger *logrus.Logger, checker bannedword.Checker) Detector {
	return &bannedWordDetector{
		name:    NameOutputBannedWord,
		reason:  safety.ReasonOutputBannedWord,
		checker: checker,
		logger:  logger,
	}
}

func (d *bannedWordDetector) Name() string { return d.name }

func (d *bannedWordDetector) Detect(ctx context.Context, text string) safety.DetectorVerdict {
	word, found, err := d.checker.Check(ctx, text)
	if err != nil {
		d.logger.WithError(err).WithField("detector", d.name).Warn("banned word lookup failed, failing open")
		return safety.FailOpen(d.name, err)
	}
	if !found {
		return safety.Pass(d.name)
	}
	return safety.Block(d.name, d.reason, fmt.Sprintf("matched banned word %q", word))
}
