package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vmware/govmomi/simulator"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/virtops/vcenter-inventory/internal/vsphere"
	"github.com/virtops/vcenter-inventory/pkg/metrics"
)

func runsTotal(status string) float64 {
	return testutil.ToFloat64(metrics.CollectRunsTotal.WithLabelValues(status))
}

type fakeSource struct {
	vms         []mo.VirtualMachine
	listErr     error
	logoutCalls int
}

func (f *fakeSource) ListVirtualMachines(ctx context.Context) ([]mo.VirtualMachine, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.vms, nil
}

func (f *fakeSource) Logout(ctx context.Context) error {
	f.logoutCalls++
	return nil
}

func testVM(name string) mo.VirtualMachine {
	return mo.VirtualMachine{
		Summary: types.VirtualMachineSummary{
			Config: types.VirtualMachineConfigSummary{
				Name:       name,
				VmPathName: fmt.Sprintf("[datastore1] %s/%s.vmx", name, name),
			},
			Runtime: types.VirtualMachineRuntimeInfo{
				PowerState: types.VirtualMachinePowerStatePoweredOn,
			},
		},
	}
}

var _ = Describe("Collector", func() {
	var (
		ctx context.Context
		cfg vsphere.Config
	)

	BeforeEach(func() {
		ctx = context.TODO()
		cfg = vsphere.Config{
			Host:     "vcenter.example.com",
			Port:     443,
			Username: "admin",
			Password: "secret",
		}
	})

	Context("when the connection fails", func() {
		It("aborts with a connection error and no records", func() {
			failedBefore := runsTotal(metrics.RunFailed)
			connErr := &vsphere.ConnectionError{Host: "vcenter.example.com", Err: errors.New("i/o timeout")}
			c := newWithConnect(func(ctx context.Context, cfg vsphere.Config) (Source, error) {
				return nil, connErr
			})

			snapshot, err := c.Collect(ctx, cfg)
			Expect(snapshot).To(BeNil())

			var ce *vsphere.ConnectionError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(errors.Is(err, connErr.Err)).To(BeTrue())
			Expect(runsTotal(metrics.RunFailed)).To(Equal(failedBefore + 1))
		})
	})

	Context("when enumeration fails", func() {
		It("aborts the run and still releases the session", func() {
			source := &fakeSource{listErr: &vsphere.RetrievalError{Err: errors.New("view creation failed")}}
			c := newWithConnect(func(ctx context.Context, cfg vsphere.Config) (Source, error) {
				return source, nil
			})

			snapshot, err := c.Collect(ctx, cfg)
			Expect(snapshot).To(BeNil())

			var re *vsphere.RetrievalError
			Expect(errors.As(err, &re)).To(BeTrue())
			Expect(source.logoutCalls).To(Equal(1))
		})
	})

	Context("when enumeration returns no virtual machines", func() {
		It("returns the empty inventory condition", func() {
			emptyBefore := runsTotal(metrics.RunEmpty)
			source := &fakeSource{}
			c := newWithConnect(func(ctx context.Context, cfg vsphere.Config) (Source, error) {
				return source, nil
			})

			snapshot, err := c.Collect(ctx, cfg)
			Expect(snapshot).To(BeNil())
			Expect(errors.Is(err, ErrEmptyInventory)).To(BeTrue())
			Expect(source.logoutCalls).To(Equal(1))
			Expect(runsTotal(metrics.RunEmpty)).To(Equal(emptyBefore + 1))
		})
	})

	Context("when the run succeeds", func() {
		It("returns one record per virtual machine and releases the session once", func() {
			succeededBefore := runsTotal(metrics.RunSucceeded)
			source := &fakeSource{vms: []mo.VirtualMachine{testVM("web-01"), testVM("db-01")}}
			c := newWithConnect(func(ctx context.Context, cfg vsphere.Config) (Source, error) {
				return source, nil
			})

			snapshot, err := c.Collect(ctx, cfg)
			Expect(err).To(BeNil())
			Expect(snapshot.TotalVMs).To(Equal(2))
			Expect(snapshot.VMs).To(HaveLen(2))
			Expect(snapshot.Host).To(Equal("vcenter.example.com"))
			Expect(snapshot.CollectedAt.IsZero()).To(BeFalse())

			_, err = uuid.Parse(snapshot.RunID)
			Expect(err).To(BeNil())

			Expect(snapshot.VMs[0].Name).To(Equal("web-01"))
			Expect(snapshot.VMs[0].Annotation).To(Equal("None"))
			Expect(snapshot.VMs[0].NetworkAdapters).NotTo(BeNil())
			Expect(source.logoutCalls).To(Equal(1))

			Expect(runsTotal(metrics.RunSucceeded)).To(Equal(succeededBefore + 1))
			Expect(testutil.ToFloat64(metrics.CollectedVms)).To(Equal(float64(2)))
		})
	})

	Context("against a simulated vCenter", func() {
		It("collects every simulator virtual machine end to end", func() {
			model := simulator.VPX()
			DeferCleanup(model.Remove)
			Expect(model.Create()).To(Succeed())

			server := model.Service.NewServer()
			DeferCleanup(server.Close)

			password, _ := server.URL.User.Password()
			snapshot, err := New().Collect(ctx, vsphere.Config{
				URL:      server.URL.String(),
				Username: server.URL.User.Username(),
				Password: password,
				Insecure: true,
			})
			Expect(err).To(BeNil())
			Expect(snapshot.TotalVMs).To(Equal(model.Count().Machine))

			states := []string{"poweredOn", "poweredOff", "suspended"}
			for _, rec := range snapshot.VMs {
				Expect(rec.Name).NotTo(BeEmpty())
				Expect(rec.Path).NotTo(BeEmpty())
				Expect(rec.Annotation).NotTo(BeEmpty())
				Expect(states).To(ContainElement(rec.State))
				Expect(rec.NetworkAdapters).NotTo(BeNil())
			}
		})
	})
})
