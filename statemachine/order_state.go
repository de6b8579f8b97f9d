package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"restaurant-pos/models"
)

// Actors that may move an order between states
const (
	ActorStaff = "staff"
	ActorAdmin = "admin"
)

// ErrInvalidTransition is wrapped by every rejection from CanTransition
var ErrInvalidTransition = errors.New("invalid transition")

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// validTransitions is the authoritative state machine definition.
// COMPLETED and CANCELLED have no exits.
var validTransitions = []Transition{
	// Kitchen picks the order up
	{From: models.StatusPending, To: models.StatusPreparing, Actor: ActorStaff},
	// Served straight away (drinks only, counter items)
	{From: models.StatusPending, To: models.StatusCompleted, Actor: ActorStaff},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorStaff},
	{From: models.StatusPreparing, To: models.StatusCompleted, Actor: ActorStaff},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorStaff},
	// Admin override: send an order back to the queue
	{From: models.StatusPreparing, To: models.StatusPending, Actor: ActorAdmin},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
		// admins inherit every staff transition
		if t.Actor == ActorStaff {
			m[transitionKey{t.From, t.To, ActorAdmin}] = true
		}
	}
	return m
}()

// ActorFor maps a user role to a state machine actor
func ActorFor(role models.UserRole) string {
	if role == models.RoleAdmin {
		return ActorAdmin
	}
	return ActorStaff
}

// ValidTransitionsFrom returns all next states reachable by actor from status
func ValidTransitionsFrom(status models.OrderStatus, actor string) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, s := range models.OrderStatuses {
		if transitionMap[transitionKey{status, s, actor}] {
			nexts = append(nexts, s)
		}
	}
	return nexts
}

// IsOverride reports whether the transition is only allowed because the actor is an admin
func IsOverride(from, to models.OrderStatus) bool {
	return !transitionMap[transitionKey{from, to, ActorStaff}] &&
		transitionMap[transitionKey{from, to, ActorAdmin}]
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s → %s is not allowed for %s. Valid transitions from %s are: %s",
		ErrInvalidTransition, from, to, actor, from, describeValidFrom(from, actor))
}

func describeValidFrom(status models.OrderStatus, actor string) string {
	nexts := ValidTransitionsFrom(status, actor)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Transitions returns a copy of the transition table
func Transitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}
