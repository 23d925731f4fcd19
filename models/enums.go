package models

// Enum values mirror the CHECK constraints on the hosted database.

type FarmType string

const (
	FarmTypeOwned      FarmType = "owned"
	FarmTypeLeased     FarmType = "leased"
	FarmTypeIntegrated FarmType = "integrated"
)

type ShedState string

const (
	ShedStateEmpty       ShedState = "empty"
	ShedStateRearing     ShedState = "rearing"
	ShedStateCleaning    ShedState = "cleaning"
	ShedStateMaintenance ShedState = "maintenance"
)

// ShedStates lists every valid shed state, in the order the UI shows them.
func ShedStates() []ShedState {
	return []ShedState{ShedStateEmpty, ShedStateRearing, ShedStateCleaning, ShedStateMaintenance}
}

type BatchState string

const (
	BatchStateActive   BatchState = "active"
	BatchStateFinished BatchState = "finished"
)
