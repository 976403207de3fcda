package vsphere

import (
	"context"
	"fmt"

	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25/mo"
)

const virtualMachineKind = "VirtualMachine"

// vmProperties is the property set the normalizer reads. The summary carries
// identity, guest and runtime state; the device list feeds the network
// adapter extraction.
var vmProperties = []string{"summary", "config.hardware.device"}

// RetrievalError reports a failed inventory enumeration. Enumeration is
// all-or-nothing: a failed call aborts the run with no partial results.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieving virtual machine inventory: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// ListVirtualMachines walks the inventory tree recursively from the root
// folder and returns every VirtualMachine object visible to the session.
// Folders, hosts, resource pools and other container kinds are excluded by
// the view filter. Ordering is whatever vCenter returns.
func (c *Client) ListVirtualMachines(ctx context.Context) ([]mo.VirtualMachine, error) {
	m := view.NewManager(c.vc.Client)

	v, err := m.CreateContainerView(ctx, c.vc.ServiceContent.RootFolder, []string{virtualMachineKind}, true)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}
	defer func() {
		_ = v.Destroy(ctx)
	}()

	var vms []mo.VirtualMachine
	if err := v.Retrieve(ctx, []string{virtualMachineKind}, vmProperties, &vms); err != nil {
		return nil, &RetrievalError{Err: err}
	}

	c.logger.Infow("retrieved virtual machines", "count", len(vms))
	return vms, nil
}
