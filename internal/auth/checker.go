package auth

import (
	"fmt"
	"log"
)

// OperatorLookup exposes the recorded operator of a group.
type OperatorLookup interface {
	Operator(groupID string) (string, bool)
}

// OperatorCheckerInterface is what the dispatcher depends on.
type OperatorCheckerInterface interface {
	IsOperator(groupID, userID string) bool
}

// OperatorChecker decides whether a user may change a group's settings.
// Only the group's recorded operator may.
type OperatorChecker struct {
	lookup OperatorLookup
	debug  bool
}

// NewOperatorChecker creates a new OperatorChecker.
func NewOperatorChecker(lookup OperatorLookup, debug bool) (*OperatorChecker, error) {
	if lookup == nil {
		return nil, fmt.Errorf("operator lookup cannot be nil")
	}
	return &OperatorChecker{lookup: lookup, debug: debug}, nil
}

// IsOperator reports whether userID is the recorded operator of groupID.
// Anonymous users and groups without an operator are never authorized.
func (oc *OperatorChecker) IsOperator(groupID, userID string) bool {
	if userID == "" {
		return false
	}
	operator, ok := oc.lookup.Operator(groupID)
	if !ok {
		if oc.debug {
			log.Printf("[OperatorCheck Group:%s User:%s] No operator recorded", groupID, userID)
		}
		return false
	}
	return operator == userID
}
