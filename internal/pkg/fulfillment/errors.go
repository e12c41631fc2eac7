package fulfillment

import "fmt"

// ProvisioningError aborts the workflow before anything is persisted: the
// OTT provider rejected or failed the creation call, so there are no
// credentials to record or email.
type ProvisioningError struct {
	Err error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning failed: %v", e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// PersistenceError reports a subscription write failure after provisioning
// already succeeded. Fatal to the request; the external line exists but is
// unrecorded, which needs manual follow-up.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("subscription persist failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
