package session

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umerwe/school-frontend-sub001/internal/client/models"
)

var (
	outOK          = models.Success(http.StatusOK, nil)
	outUnreachable = models.Unreachable("dial tcp: connection refused")
	out503         = models.ServerError(http.StatusServiceUnavailable, "maintenance")
)

func TestDetector_ScenarioC_SuccessHealsCounter(t *testing.T) {
	term := &countingTerminator{}
	d := NewDetector(3, term, nil)
	ctx := context.Background()

	seq := []models.Outcome{outUnreachable, outUnreachable, outOK, outUnreachable, outUnreachable, outUnreachable}
	for i, out := range seq {
		d.Observe(ctx, out)
		if i < len(seq)-1 {
			require.Empty(t, term.calls(), "no termination expected after element %d", i+1)
		}
	}

	assert.Equal(t, []Reason{ReasonServerDown}, term.calls())
	assert.Equal(t, 0, d.Count())
}

func TestDetector_ThreeStrikesMixed503(t *testing.T) {
	term := &countingTerminator{}
	d := NewDetector(3, term, nil)
	ctx := context.Background()

	assert.False(t, d.Observe(ctx, out503))
	assert.False(t, d.Observe(ctx, outUnreachable))
	assert.Equal(t, 2, d.Count())
	assert.True(t, d.Observe(ctx, out503), "third strike reports that it fired")

	assert.Equal(t, []Reason{ReasonServerDown}, term.calls())
}

func TestDetector_SuccessOnThirdAttemptPreventsTermination(t *testing.T) {
	term := &countingTerminator{}
	d := NewDetector(3, term, nil)
	ctx := context.Background()

	d.Observe(ctx, outUnreachable)
	d.Observe(ctx, outUnreachable)
	d.Observe(ctx, outOK)

	assert.Empty(t, term.calls())
	assert.Equal(t, 0, d.Count())
}

func TestDetector_OtherOutcomesLeaveCounterUnchanged(t *testing.T) {
	term := &countingTerminator{}
	d := NewDetector(3, term, nil)
	ctx := context.Background()

	d.Observe(ctx, outUnreachable)
	d.Observe(ctx, models.Unauthorized("expired"))
	d.Observe(ctx, models.OtherError(http.StatusNotFound, "missing"))
	d.Observe(ctx, models.ServerError(http.StatusBadGateway, "bad gateway"))

	assert.Equal(t, 1, d.Count())
	assert.Empty(t, term.calls())
}

func TestDetector_CounterRestartsAfterFiring(t *testing.T) {
	term := &countingTerminator{}
	d := NewDetector(2, term, nil)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		d.Observe(ctx, outUnreachable)
	}

	assert.Equal(t, []Reason{ReasonServerDown, ReasonServerDown}, term.calls())
}

func TestDetector_DefaultThresholdAndReset(t *testing.T) {
	d := NewDetector(0, &countingTerminator{}, nil)
	assert.Equal(t, DefaultUnreachableThreshold, d.threshold)

	d.Observe(context.Background(), outUnreachable)
	d.Reset()
	assert.Equal(t, 0, d.Count())
}
