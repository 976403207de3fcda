package inventory

import (
	"github.com/vmware/govmomi/vim25/mo"
)

// Normalize flattens one virtual machine into a VMRecord. The handle is
// read-only; normalizing the same object twice yields identical records.
// The caller must have retrieved the summary and device list properties.
func Normalize(vm mo.VirtualMachine) VMRecord {
	summary := vm.Summary

	rec := VMRecord{
		Name:            summary.Config.Name,
		Template:        summary.Config.Template,
		Path:            summary.Config.VmPathName,
		Guest:           summary.Config.GuestFullName,
		InstanceUUID:    summary.Config.InstanceUuid,
		BiosUUID:        summary.Config.Uuid,
		Annotation:      noneValue,
		State:           string(summary.Runtime.PowerState),
		NetworkAdapters: ExtractAdapters(vm),
	}

	if summary.Config.Annotation != "" {
		rec.Annotation = summary.Config.Annotation
	}

	// Guest info gates the whole pair; within the pair each value defaults
	// to "None" on its own.
	if guest := summary.Guest; guest != nil {
		ip := noneValue
		if guest.IpAddress != "" {
			ip = guest.IpAddress
		}
		tools := noneValue
		if guest.ToolsStatus != "" {
			tools = string(guest.ToolsStatus)
		}
		rec.GuestIPAddress = &ip
		rec.VMwareTools = &tools
	}

	if question := summary.Runtime.Question; question != nil {
		rec.RuntimeQuestion = &question.Text
	}

	if product := summary.Config.Product; product != nil {
		rec.ProductName = &product.Name
		rec.Vendor = &product.Vendor
	}

	return rec
}
