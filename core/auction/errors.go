package auction

import "github.com/solgrid/fieldmatch/core/faults"

var (
	// ErrAuctionNotOpen is returned when a bid is submitted outside an
	// open bidding window.
	ErrAuctionNotOpen error = &faults.InvalidStateError{Op: "submit bid", State: "CLOSED"}

	// ErrAuctionAlreadyOpen is returned when bidding is opened twice for
	// the same job.
	ErrAuctionAlreadyOpen error = &faults.InvalidStateError{Op: "open bidding", State: "OPEN"}

	// ErrDuplicateBid is returned when an installer submits a second
	// non-withdrawn bid on the same job.
	ErrDuplicateBid error = &faults.ValidationError{Field: "installer_id", Reason: "installer already has an active bid; withdraw it before re-bidding"}

	// ErrBidNotPending is returned when awarding or withdrawing a bid that
	// already reached a terminal status.
	ErrBidNotPending error = &faults.InvalidStateError{Op: "transition bid", State: "terminal"}

	// ErrNotBidOwner is returned when a withdrawal names an installer
	// other than the one that submitted the bid.
	ErrNotBidOwner error = &faults.ValidationError{Field: "installer_id", Reason: "only the submitting installer may withdraw a bid"}

	// ErrAuctionAlreadyAwarded is returned when a job auction that was
	// closed by an award is awarded again.
	ErrAuctionAlreadyAwarded error = &faults.InvalidStateError{Op: "award bid", State: "CLOSED", Reason: "auction already awarded"}
)
