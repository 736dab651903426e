package domain

import "time"

// LifecycleEvent is a business fact raised by a complaint mutation that may
// imply a status transition.
type LifecycleEvent interface {
	lifecycleEvent()
}

// FirstResponseGiven is raised when staff replies to a complaint that is still pending.
type FirstResponseGiven struct {
	By string
	At time.Time
}

// AssignedForFirstTime is raised when a complaint receives its first assignee.
type AssignedForFirstTime struct {
	AssigneeID   string
	AssigneeName string
	By           string
	At           time.Time
}

func (FirstResponseGiven) lifecycleEvent()   {}
func (AssignedForFirstTime) lifecycleEvent() {}

const firstResponseNote = "Admin responded to complaint"

func (c *Complaint) react(raised []LifecycleEvent) {
	for _, ev := range raised {
		switch e := ev.(type) {
		case FirstResponseGiven:
			by := e.By
			c.appendStatus(StatusInProgress, firstResponseNote, &by, e.At)
		case AssignedForFirstTime:
			by := e.By
			c.appendStatus(StatusInProgress, "Assigned to "+e.AssigneeName, &by, e.At)
		}
	}
}
