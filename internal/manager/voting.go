package manager

import (
	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
)

// VotingMethod selects how individual signals are combined.
type VotingMethod string

const (
	// MajorityVote picks the class with strictly the most votes.
	MajorityVote VotingMethod = "majority_vote"
	// WeightedVote picks the class with strictly the greatest summed weight.
	WeightedVote VotingMethod = "weighted_vote"
	// StrongestSignal picks BUY if any strategy says BUY, else SELL if any says SELL.
	StrongestSignal VotingMethod = "strongest_signal"
)

// VotingMethods lists every supported method.
var VotingMethods = []VotingMethod{MajorityVote, WeightedVote, StrongestSignal}

// ParseVotingMethod validates name as a voting method.
func ParseVotingMethod(name string) (VotingMethod, error) {
	method := VotingMethod(name)
	if !method.Valid() {
		return "", errors.Newf(errors.ErrCodeInvalidVotingMethod, "unknown voting method: %s", name)
	}

	return method, nil
}

// Valid reports whether m is a supported method.
func (m VotingMethod) Valid() bool {
	for _, known := range VotingMethods {
		if m == known {
			return true
		}
	}

	return false
}
