package telemetry

import (
	"context"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/telemetry"
)

const NopExporterName = "nop"

// NopExporter drops every event. It is used when no stream is configured.
type NopExporter struct{}

func NewNopExporter() *NopExporter {
	return &NopExporter{}
}

func (NopExporter) Name() string { return NopExporterName }

func (NopExporter) ValidateConfig(map[string]interface{}) error { return nil }

func (NopExporter) Handle(context.Context, *telemetry.SafetyEvent) error { return nil }

func (e NopExporter) WithSettings(map[string]interface{}) (telemetry.Exporter, error) {
	return e, nil
}

func (NopExporter) Close() {}
