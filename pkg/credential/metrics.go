package credential

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/polisai/tlscred/pkg/engine"
)

type installKind string

const (
	installKeyPair     installKind = "key_pair"
	installTrust       installKind = "trust"
	installSystemTrust installKind = "system_trust"
)

var (
	metricsOnce     sync.Once
	metricsInitErr  error
	sharedCollector *Collector
)

// Collector records credential-operation metrics through the OpenTelemetry
// metric API. A nil *Collector is valid and records nothing.
type Collector struct {
	installs         metric.Int64Counter
	installErrors    metric.Int64Counter
	sequencingErrors metric.Int64Counter

	logger *slog.Logger
}

// GetCollector returns the process-wide collector, creating it on first use.
func GetCollector(logger *slog.Logger) (*Collector, error) {
	metricsOnce.Do(func() {
		sharedCollector, metricsInitErr = newCollector(logger)
	})
	return sharedCollector, metricsInitErr
}

func newCollector(logger *slog.Logger) (*Collector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	meter := otel.GetMeterProvider().Meter("tlscred.credential")

	c := &Collector{logger: logger}

	var err error
	c.installs, err = meter.Int64Counter(
		"tls_credential_installs_total",
		metric.WithDescription("Successful credential material installations"),
		metric.WithUnit("{install}"),
	)
	if err != nil {
		return nil, err
	}

	c.installErrors, err = meter.Int64Counter(
		"tls_credential_install_errors_total",
		metric.WithDescription("Credential installations rejected by the engine"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	c.sequencingErrors, err = meter.Int64Counter(
		"tls_credential_sequencing_errors_total",
		metric.WithDescription("Configuration calls issued out of order"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Collector) recordInstall(kind installKind) {
	if c == nil {
		return
	}
	c.installs.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("kind", string(kind))))
}

func (c *Collector) recordError(kind installKind, st engine.Status) {
	if c == nil {
		return
	}
	c.installErrors.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("kind", string(kind)),
			attribute.Int("status", int(st)),
		))
}

func (c *Collector) recordSequencing(kind installKind) {
	if c == nil {
		return
	}
	c.sequencingErrors.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("kind", string(kind))))
}
