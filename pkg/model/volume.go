package model

// DefaultStorageGiB is the size of the shared volume requested per execution.
const DefaultStorageGiB = 100

// Volume is a shared network volume returned by the provisioning service.
// It is passed by value into the runtime step and never torn down here.
type Volume struct {
	Name string `json:"name"`
}

// ProvisionRequest is the body sent to the provisioning service.
type ProvisionRequest struct {
	StorageGiB int `json:"storage_gib"`
}
