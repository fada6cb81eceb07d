package input

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_PressRelease(t *testing.T) {
	m := NewMapper(DifferentialBindings()...)

	require.True(t, m.Press(Forward))
	assert.Equal(t, 1.0, m.Axis(AxisThrottle))

	require.True(t, m.Press(Backward))
	assert.Equal(t, -1.0, m.Axis(AxisThrottle), "last writer wins")

	require.True(t, m.Release(Forward))
	assert.Equal(t, 0.0, m.Axis(AxisThrottle), "release zeroes the axis")

	require.True(t, m.Press(SteerLeft))
	assert.Equal(t, -1.0, m.Axis(AxisSteer))
	require.True(t, m.Press(SteerRight))
	assert.Equal(t, 1.0, m.Axis(AxisSteer))
}

func TestDifferentialBindings_AxesAreIndependent(t *testing.T) {
	m := NewMapper(DifferentialBindings()...)

	require.True(t, m.Press(Backward))
	assert.Equal(t, -1.0, m.Axis(AxisThrottle))
	assert.Equal(t, 0.0, m.Axis(AxisSteer), "reversing does not steer")

	require.True(t, m.Press(SteerRight))
	require.True(t, m.Release(SteerRight))
	assert.Equal(t, -1.0, m.Axis(AxisThrottle), "steering does not touch the throttle")
	assert.Equal(t, 0.0, m.Axis(AxisSteer))
}

func TestMapper_UnboundCommand(t *testing.T) {
	m := NewMapper(IndependentBindings()...)

	assert.False(t, m.Press(Forward))
	assert.False(t, m.Release(SteerLeft))
	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestMapper_IndependentBindings(t *testing.T) {
	m := NewMapper(IndependentBindings()...)

	m.Press(FrontLeftForward)
	m.Press(FrontRightBackward)

	s := m.Snapshot()
	assert.Equal(t, 1.0, s.Get(AxisFrontLeft))
	assert.Equal(t, -1.0, s.Get(AxisFrontRight))
	assert.Equal(t, 0.0, s.Get(AxisRearLeft))
	assert.Equal(t, 0.0, s.Get(AxisRearRight))
}

func TestMapper_SetAxisClamps(t *testing.T) {
	m := NewMapper()

	m.SetAxis(AxisThrottle, 3)
	assert.Equal(t, 1.0, m.Axis(AxisThrottle))

	m.SetAxis(AxisThrottle, -7)
	assert.Equal(t, -1.0, m.Axis(AxisThrottle))

	m.SetAxis(AxisThrottle, 0.25)
	assert.Equal(t, 0.25, m.Axis(AxisThrottle))
}

func TestMapper_SetAxisIgnoresInvalid(t *testing.T) {
	m := NewMapper()
	m.SetAxis(AxisSteer, 0.5)

	m.SetAxis(axisCount, 1)
	m.SetAxis(AxisSteer, math.NaN())

	assert.Equal(t, 0.5, m.Axis(AxisSteer))
	assert.Equal(t, 0.0, m.Axis(axisCount))
	assert.Equal(t, 0.0, Snapshot{}.Get(axisCount))
}

func TestMapper_SnapshotIsACopy(t *testing.T) {
	m := NewMapper(DifferentialBindings()...)
	m.Press(Forward)

	s := m.Snapshot()
	m.Release(Forward)

	assert.Equal(t, 1.0, s.Get(AxisThrottle))
	assert.Equal(t, 0.0, m.Snapshot().Get(AxisThrottle))
}

func TestMapper_Reset(t *testing.T) {
	m := NewMapper(IndependentBindings()...)
	m.Press(FrontLeftForward)
	m.SetAxis(AxisRearRight, 1)

	m.Reset()

	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestMapper_ConcurrentWriters(t *testing.T) {
	m := NewMapper(DifferentialBindings()...)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if (i+j)%2 == 0 {
					m.Press(Forward)
				} else {
					m.Press(Backward)
				}
				_ = m.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	assert.Contains(t, []float64{1, -1}, m.Axis(AxisThrottle))
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		want    Command
		wantErr bool
	}{
		{"forward", Forward, false},
		{"STEERLEFT", SteerLeft, false},
		{"frontRightBackward", FrontRightBackward, false},
		{"jump", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCommand)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, commandNames[tt.want], got.String())
		})
	}
}

func TestAxis_String(t *testing.T) {
	assert.Equal(t, "throttle", AxisThrottle.String())
	assert.Equal(t, "rearRight", AxisRearRight.String())
	assert.Equal(t, "axis(42)", Axis(42).String())
	assert.Equal(t, "command(99)", Command(99).String())
}
