package allocation

import "github.com/solgrid/fieldmatch/core/faults"

// ErrNoEligibleInstallers is returned when every candidate is blacklisted
// or the candidate list is empty.
var ErrNoEligibleInstallers error = &faults.ValidationError{
	Field:  "installers",
	Reason: "no eligible installers after blacklist filtering",
}

// ErrForcedInstallerUnavailable is returned when a forced assignment names
// an installer that is absent from the candidate list or blacklisted.
var ErrForcedInstallerUnavailable error = &faults.ValidationError{
	Field:  "force_installer_id",
	Reason: "forced installer missing or blacklisted",
}
