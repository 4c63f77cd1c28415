package model

// BookingOutcome - итог одной попытки записи
type BookingOutcome string

const (
	OutcomeClaimed         BookingOutcome = "claimed"
	OutcomeIneligible      BookingOutcome = "ineligible"
	OutcomeNoSeatAvailable BookingOutcome = "no_seat_available"
	OutcomeAlreadyClaimed  BookingOutcome = "already_claimed"
	OutcomeStaleSelection  BookingOutcome = "stale_selection"
	OutcomeBackendFailure  BookingOutcome = "backend_failure"
)

// IsSuccess проверяет, что место занято
func (o BookingOutcome) IsSuccess() bool {
	return o == OutcomeClaimed
}
