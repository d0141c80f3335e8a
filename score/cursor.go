package score

import "github.com/xyfu66/score-following-app/model"

// Iterator walks the distinct timestamps of a score in time order
type Iterator struct {
	score *Score
	pos   int
}

func (it *Iterator) EndReached() bool {
	return it.pos >= len(it.score.times)
}

func (it *Iterator) CurrentEvents() []model.ScoreEvent {
	if it.EndReached() {
		return nil
	}
	return it.score.groups[it.pos]
}

func (it *Iterator) MoveToNext() {
	if !it.EndReached() {
		it.pos++
	}
}

// Cursor sits on one timestamp of the score. It never leaves the score: stepping
// past either end is ignored.
type Cursor struct {
	score   *Score
	pos     int
	visible bool
}

func (c *Cursor) Reset() {
	c.pos = 0
}

func (c *Cursor) Show() {
	c.visible = true
	c.score.view.Draw(c)
}

func (c *Cursor) Hide() {
	c.visible = false
	c.score.view.Draw(c)
}

func (c *Cursor) Next() {
	if c.pos < len(c.score.times)-1 {
		c.pos++
	}
}

func (c *Cursor) Previous() {
	if c.pos > 0 {
		c.pos--
	}
}

// CurrentTime returns -1 when nothing is loaded
func (c *Cursor) CurrentTime() float64 {
	if len(c.score.times) == 0 {
		return -1
	}
	return c.score.times[c.pos]
}

func (c *Cursor) Visible() bool {
	return c.visible
}

func (c *Cursor) events() []model.ScoreEvent {
	if len(c.score.groups) == 0 {
		return nil
	}
	return c.score.groups[c.pos]
}
