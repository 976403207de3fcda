package inventory

import (
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// IsEthernetAdapter reports whether a device is an Ethernet-family network
// adapter. This covers vmxnet3 and every other VirtualEthernetCard subtype;
// disks, controllers and the rest of the device set are rejected.
func IsEthernetAdapter(dev types.BaseVirtualDevice) bool {
	_, ok := dev.(types.BaseVirtualEthernetCard)
	return ok
}

// ExtractAdapters walks the VM's device list and returns one record per
// Ethernet-family adapter, in device-list order. The result is never nil:
// a VM without qualifying adapters, or without a device list at all, yields
// an empty slice.
func ExtractAdapters(vm mo.VirtualMachine) []NetworkAdapterRecord {
	adapters := []NetworkAdapterRecord{}

	if vm.Config == nil {
		return adapters
	}

	for _, dev := range vm.Config.Hardware.Device {
		if !IsEthernetAdapter(dev) {
			continue
		}

		card := dev.(types.BaseVirtualEthernetCard).GetVirtualEthernetCard()
		rec := NetworkAdapterRecord{
			MacAddress: card.MacAddress,
		}
		if card.DeviceInfo != nil {
			rec.Label = card.DeviceInfo.GetDescription().Label
		}
		adapters = append(adapters, rec)
	}

	return adapters
}
