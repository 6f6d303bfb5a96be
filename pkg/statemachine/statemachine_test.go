package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	n     int
	limit int
	trail []string
}

func countUp(c *counter) StateFn[counter] {
	c.n++
	c.trail = append(c.trail, "up")
	if c.n >= c.limit {
		return finish
	}
	return countUp
}

func finish(c *counter) StateFn[counter] {
	c.trail = append(c.trail, "finish")
	return nil
}

func TestRunUntilNilState(t *testing.T) {
	c := &counter{limit: 3}
	sm := NewStateMachine(c, countUp)
	sm.Run()

	assert.Equal(t, 3, c.n)
	assert.Equal(t, []string{"up", "up", "up", "finish"}, c.trail)
	assert.Equal(t, 4, sm.Steps())
	assert.Nil(t, sm.Current())
	assert.False(t, sm.Step(), "a finished machine does not step")
}

func TestStepAndSetState(t *testing.T) {
	c := &counter{limit: 10}
	sm := NewStateMachine(c, countUp)

	assert.True(t, sm.Step())
	assert.Equal(t, 1, c.n)

	sm.SetState(finish)
	assert.False(t, sm.Step())
	assert.Equal(t, []string{"up", "finish"}, c.trail)
}
