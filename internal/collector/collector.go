// Package collector sequences the inventory pipeline: connect, enumerate,
// normalize, snapshot. A failure at any stage aborts the whole run; no
// partial results are ever returned.
package collector

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vmware/govmomi/vim25/mo"
	"go.uber.org/zap"

	"github.com/virtops/vcenter-inventory/internal/inventory"
	"github.com/virtops/vcenter-inventory/internal/vsphere"
	"github.com/virtops/vcenter-inventory/pkg/metrics"
)

// ErrEmptyInventory signals an enumeration that succeeded but returned no
// virtual machines. Callers distinguish it from connection and retrieval
// failures with errors.Is.
var ErrEmptyInventory = errors.New("inventory contains no virtual machines")

// Source is the management API surface the pipeline reads through. The
// session behind it is owned by the collector for the duration of one run
// and released exactly once, on every exit path.
type Source interface {
	ListVirtualMachines(ctx context.Context) ([]mo.VirtualMachine, error)
	Logout(ctx context.Context) error
}

// ConnectFunc establishes an authenticated session.
type ConnectFunc func(ctx context.Context, cfg vsphere.Config) (Source, error)

// Snapshot is the result of one collection run.
type Snapshot struct {
	RunID       string               `json:"runId"`
	CollectedAt time.Time            `json:"collectedAt"`
	Host        string               `json:"host"`
	TotalVMs    int                  `json:"totalVms"`
	VMs         []inventory.VMRecord `json:"vms"`
}

type Collector struct {
	connect ConnectFunc
	logger  *zap.SugaredLogger
}

func New() *Collector {
	return newWithConnect(func(ctx context.Context, cfg vsphere.Config) (Source, error) {
		return vsphere.Connect(ctx, cfg)
	})
}

func newWithConnect(connect ConnectFunc) *Collector {
	return &Collector{
		connect: connect,
		logger:  zap.S().Named("collector"),
	}
}

// Collect runs the pipeline once and returns the snapshot. Stages run
// serially; the first failure aborts the run. An enumeration that yields
// zero VMs returns ErrEmptyInventory.
func (c *Collector) Collect(ctx context.Context, cfg vsphere.Config) (*Snapshot, error) {
	c.logger.Infow("connecting to management endpoint", "host", cfg.EndpointHost())
	source, err := c.connect(ctx, cfg)
	if err != nil {
		metrics.IncreaseCollectRunsTotalMetric(metrics.RunFailed)
		return nil, err
	}
	defer func() {
		if err := source.Logout(ctx); err != nil {
			c.logger.Warnw("failed to release session", "error", err)
		}
	}()

	c.logger.Infof("enumerating virtual machines")
	vms, err := source.ListVirtualMachines(ctx)
	if err != nil {
		metrics.IncreaseCollectRunsTotalMetric(metrics.RunFailed)
		return nil, err
	}
	if len(vms) == 0 {
		metrics.IncreaseCollectRunsTotalMetric(metrics.RunEmpty)
		return nil, ErrEmptyInventory
	}

	c.logger.Infow("normalizing virtual machines", "count", len(vms))
	records := make([]inventory.VMRecord, 0, len(vms))
	for _, vm := range vms {
		records = append(records, inventory.Normalize(vm))
	}

	snapshot := &Snapshot{
		RunID:       uuid.New().String(),
		CollectedAt: time.Now().UTC(),
		Host:        cfg.EndpointHost(),
		TotalVMs:    len(records),
		VMs:         records,
	}

	metrics.IncreaseCollectRunsTotalMetric(metrics.RunSucceeded)
	metrics.UpdateCollectedVmsMetric(len(records))
	c.logger.Infow("inventory collected", "vms", len(records), "runId", snapshot.RunID)

	return snapshot, nil
}
