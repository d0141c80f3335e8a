// Package cursor moves the renderer's single score cursor to a timeline slot using
// only single-step primitives. It is the only package allowed to step the cursor.
package cursor

import (
	"math"

	"github.com/sirupsen/logrus"
	"github.com/xyfu66/score-following-app/logger"
	"github.com/xyfu66/score-following-app/render"
	"github.com/xyfu66/score-following-app/timeline"
	"github.com/xyfu66/score-following-app/util"
)

// State is the controller's view of where the cursor is. LastKnownTime is always a
// time present in the index.
type State struct {
	CurrentIndex  int
	LastKnownTime float64
}

// Controller is not safe for concurrent use. Callers serialize MoveTo calls; the
// stream adapter does so by applying positions one at a time.
type Controller struct {
	index  *timeline.Index
	cursor render.Cursor
	state  State
	log    *logrus.Entry
}

func NewController(index *timeline.Index, c render.Cursor) *Controller {
	return &Controller{
		index:  index,
		cursor: c,
		log:    logger.GetProjectLogger().WithField("component", "cursor"),
	}
}

func (c *Controller) State() State {
	return c.state
}

// Start puts the cursor back on the first slot and shows it. Called whenever
// playback (re)starts.
func (c *Controller) Start() {
	c.cursor.Reset()
	c.state = State{}
	if !c.index.Empty() {
		c.state.LastKnownTime = c.index.TimeAt(0)
	}
	c.cursor.Show()
}

func (c *Controller) Hide() {
	c.cursor.Hide()
}

// MoveToBeat resolves a beat position and moves there
func (c *Controller) MoveToBeat(beat float64) {
	if c.index.Empty() {
		return
	}
	c.MoveTo(c.index.Resolve(beat))
}

// MoveTo steps the cursor from wherever the renderer says it is to targetIndex, then
// shows it. Calling it again with the same target issues no steps.
func (c *Controller) MoveTo(targetIndex int) {
	if c.index.Empty() {
		c.log.Debug("ignoring move on empty timeline")
		return
	}
	if targetIndex < 0 || targetIndex >= c.index.Len() {
		clamped := util.Clamp(targetIndex, 0, c.index.Len()-1)
		c.log.WithFields(logrus.Fields{"target": targetIndex, "clamped": clamped}).Warn("target index out of range")
		targetIndex = clamped
	}

	current, ok := c.resync()
	if !ok {
		c.hardReset()
		current = 0
	}

	steps := targetIndex - current
	c.log.WithFields(logrus.Fields{"from": current, "to": targetIndex, "steps": steps}).Debug("moving cursor")
	switch {
	case steps > 0:
		for i := 0; i < steps; i++ {
			c.cursor.Next()
		}
	case steps < 0:
		for i := 0; i < -steps; i++ {
			c.cursor.Previous()
		}
	}

	if settled, ok := c.resync(); ok {
		c.state = State{CurrentIndex: settled, LastKnownTime: c.index.TimeAt(settled)}
	} else {
		// underflowed past the start
		c.hardReset()
	}
	c.cursor.Show()
}

// resync reads the renderer's cursor time and maps it onto the index. A time that is
// not indexed is drift and gets floor resolved; a negative or NaN read is not usable.
func (c *Controller) resync() (int, bool) {
	t := c.cursor.CurrentTime()
	if math.IsNaN(t) || t < 0 {
		c.log.WithField("time", t).Error("invalid cursor time")
		return 0, false
	}
	if i, ok := c.index.Lookup(t); ok {
		return i, true
	}
	i := c.index.Resolve(t)
	c.log.WithFields(logrus.Fields{"time": t, "resolved": i}).Warn("cursor drifted off the timeline")
	return i, true
}

func (c *Controller) hardReset() {
	c.log.Warn("resetting cursor to start")
	c.cursor.Reset()
	c.state = State{CurrentIndex: 0, LastKnownTime: c.index.TimeAt(0)}
}
