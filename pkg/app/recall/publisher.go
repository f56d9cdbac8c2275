package recall

import (
	"context"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/broker"
)

//go:generate mockery --name=CommandPublisher --dir=. --output=./mocks --filename=command_publisher_mock.go --case=underscore --with-expecter
type CommandPublisher interface {
	PublishRecall(ctx context.Context, cmd safety.RecallCommand) error
}

type commandPublisher struct {
	publisher broker.Publisher
}

func NewCommandPublisher(publisher broker.Publisher) CommandPublisher {
	return &commandPublisher{publisher: publisher}
}

func (p *commandPublisher) PublishRecall(ctx context.Context, cmd safety.RecallCommand) error {
	return broker.PublishJSON(ctx, p.publisher, broker.RoutingKeyRecall, cmd,
		broker.WithCorrelationID(cmd.SessionID),
	)
}
