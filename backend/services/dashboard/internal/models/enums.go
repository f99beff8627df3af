package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValue is returned when parsing an enumeration member that does not exist.
var ErrUnknownValue = errors.New("models: unknown value")

// ConnectorType is the physical plug standard of a spot or vehicle.
type ConnectorType string

const (
	ConnectorSAEJ1772 ConnectorType = "SAEJ1772"
	ConnectorMennekes ConnectorType = "MENNEKES"
	ConnectorCHAdeMO  ConnectorType = "CHADEMO"
	ConnectorCCS      ConnectorType = "CCS"
)

// AllConnectorTypes lists connector types in display order.
var AllConnectorTypes = []ConnectorType{ConnectorSAEJ1772, ConnectorMennekes, ConnectorCHAdeMO, ConnectorCCS}

// Valid reports whether c is a known connector type.
func (c ConnectorType) Valid() bool {
	for _, v := range AllConnectorTypes {
		if v == c {
			return true
		}
	}
	return false
}

// ParseConnectorType accepts any casing and surrounding whitespace.
func ParseConnectorType(s string) (ConnectorType, error) {
	c := ConnectorType(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: connector type %q", ErrUnknownValue, s)
	}
	return c, nil
}

// ChargingVelocity is the charge rate class of a spot.
type ChargingVelocity string

const (
	VelocityNormal ChargingVelocity = "NORMAL"
	VelocityFast   ChargingVelocity = "FAST"
	VelocityFastPP ChargingVelocity = "FASTPP"
)

var AllChargingVelocities = []ChargingVelocity{VelocityNormal, VelocityFast, VelocityFastPP}

func (v ChargingVelocity) Valid() bool {
	for _, known := range AllChargingVelocities {
		if known == v {
			return true
		}
	}
	return false
}

func ParseChargingVelocity(s string) (ChargingVelocity, error) {
	v := ChargingVelocity(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("%w: charging velocity %q", ErrUnknownValue, s)
	}
	return v, nil
}

// SpotState is the operational state of a spot.
type SpotState string

const (
	SpotFree         SpotState = "FREE"
	SpotOccupied     SpotState = "OCCUPIED"
	SpotOutOfService SpotState = "OUT_OF_SERVICE"
)

var AllSpotStates = []SpotState{SpotFree, SpotOccupied, SpotOutOfService}

func (s SpotState) Valid() bool {
	for _, known := range AllSpotStates {
		if known == s {
			return true
		}
	}
	return false
}

func ParseSpotState(raw string) (SpotState, error) {
	s := SpotState(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: spot state %q", ErrUnknownValue, raw)
	}
	return s, nil
}

// Role of an account.
type Role string

const (
	RoleUser     Role = "USER"
	RoleOperator Role = "OPERATOR"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleOperator
}

func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: role %q", ErrUnknownValue, raw)
	}
	return r, nil
}
