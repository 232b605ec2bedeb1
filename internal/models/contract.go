package models

import (
	"time"
)

// ContractStatus is the lifecycle state of a lease contract.
//
// The progression is pending -> signed_by_tenant -> active -> terminated,
// with rejected reachable only from pending. terminated and rejected are
// terminal.
type ContractStatus string

const (
	ContractPending        ContractStatus = "pending"
	ContractSignedByTenant ContractStatus = "signed_by_tenant"
	ContractActive         ContractStatus = "active"
	ContractTerminated     ContractStatus = "terminated"
	ContractRejected       ContractStatus = "rejected"
)

// contractTransitions enumerates every legal lifecycle transition.
var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractPending:        {ContractSignedByTenant, ContractRejected},
	ContractSignedByTenant: {ContractActive},
	ContractActive:         {ContractTerminated},
}

// CanTransition reports whether moving from s to target is a legal
// lifecycle transition. Terminal states allow no transitions.
func (s ContractStatus) CanTransition(target ContractStatus) bool {
	for _, next := range contractTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether the status allows no further transitions.
func (s ContractStatus) Terminal() bool {
	return len(contractTransitions[s]) == 0
}

// Contract represents one lease agreement between a landlord and a tenant
// for a unit. TotalValue defaults to Amount at creation and Balance starts
// at TotalValue; Balance only ever decreases as payments are recorded.
type Contract struct {
	ID         string         `json:"id"`
	UnitID     string         `json:"unit_id"`
	TenantID   string         `json:"tenant_id"`
	LandlordID string         `json:"landlord_id"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    time.Time      `json:"end_date"`
	Amount     float64        `json:"amount"`
	PaymentDay int            `json:"payment_day"`
	Status     ContractStatus `json:"status"`
	TotalValue float64        `json:"total_contract_value"`
	Balance    float64        `json:"balance"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// PercentPaid returns how much of the total contract value has been paid,
// clamped to [0, 100]. A zero-value contract reports 0 to avoid dividing
// by zero.
func (c *Contract) PercentPaid() float64 {
	if c.TotalValue <= 0 {
		return 0
	}
	pct := (c.TotalValue - c.Balance) / c.TotalValue * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
