// Package inventory flattens vCenter virtual machine objects into the
// report records consumed by inventory tooling.
package inventory

// noneValue is the sentinel written for Annotation, Guest IP Address and
// VMware-tools when the source value is unset.
const noneValue = "None"

// VMRecord is the flat representation of one virtual machine. The JSON keys
// are the report format's verbatim key set and must not change.
//
// Guest IP Address and VMware-tools are present only when the VM exposes
// guest info at all; within that pair each value independently falls back to
// "None". Runtime Question and Product Name/Vendor are present only when the
// corresponding source data exists.
type VMRecord struct {
	Name            string                 `json:"Name"`
	Template        bool                   `json:"Template"`
	Path            string                 `json:"Path"`
	Guest           string                 `json:"Guest"`
	InstanceUUID    string                 `json:"Instance UUID"`
	BiosUUID        string                 `json:"Bios UUID"`
	Annotation      string                 `json:"Annotation"`
	State           string                 `json:"State"`
	GuestIPAddress  *string                `json:"Guest IP Address,omitempty"`
	VMwareTools     *string                `json:"VMware-tools,omitempty"`
	RuntimeQuestion *string                `json:"Runtime Question,omitempty"`
	ProductName     *string                `json:"Product Name,omitempty"`
	Vendor          *string                `json:"Vendor,omitempty"`
	NetworkAdapters []NetworkAdapterRecord `json:"Network Adapters"`
}

// NetworkAdapterRecord describes one Ethernet-family adapter of a VM.
type NetworkAdapterRecord struct {
	MacAddress string `json:"Mac Address"`
	Label      string `json:"Label"`
}
