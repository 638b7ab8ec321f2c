package effect

import (
	"math"
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParamClampsAndIgnoresNonFinite(t *testing.T) {
	p := NewParam(ParamDescriptor{Name: "x", Min: -1, Max: 1, Default: 5}, 0)
	assert.Equal(t, 1.0, p.Get())

	p.Set(-3)
	assert.Equal(t, -1.0, p.Get())

	p.Set(math.NaN())
	assert.Equal(t, -1.0, p.Get())
	p.Set(math.Inf(1))
	assert.Equal(t, -1.0, p.Get())
}

func TestParamSmoothingApproachesTarget(t *testing.T) {
	p := NewParam(ParamDescriptor{Name: "x", Min: 0, Max: 1, Default: 0}, 10)
	p.Set(1)

	prev := 0.0
	for range 200 {
		v := p.Next()
		assert.True(t, v >= prev, "smoothed value must be monotonic")
		assert.True(t, v-prev < 0.1, "smoothed value jumped by %v", v-prev)
		prev = v
	}
	assert.True(t, math.Abs(prev-1) < 1e-6)

	p.Set(0)
	p.Snap()
	assert.Equal(t, 0.0, p.Next())
}

func TestParamUnsmoothedIsImmediate(t *testing.T) {
	p := NewParam(ParamDescriptor{Name: "x", Min: 0, Max: 10, Default: 2}, 0)
	p.Set(7)
	assert.Equal(t, 7.0, p.Next())
}

func TestParamConcurrentSet(t *testing.T) {
	p := NewParam(ParamDescriptor{Name: "x", Min: 0, Max: 100, Default: 0}, 4)

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 1000 {
				p.Set(float64(w*1000+i) / 100)
			}
		}()
	}
	for range 1000 {
		v := p.Next()
		assert.True(t, v >= 0 && v <= 100)
	}
	wg.Wait()
}

func TestParamsIndexing(t *testing.T) {
	ps := Params{
		NewParam(ParamDescriptor{Name: "a", Max: 1, Default: 0.5}, 0),
		NewParam(ParamDescriptor{Name: "b", Max: 2, Default: 1}, 0),
	}
	assert.Equal(t, 2, ps.ParamCount())
	assert.Equal(t, "b", ps.ParamDescriptor(1).Name)
	assert.Equal(t, ParamDescriptor{}, ps.ParamDescriptor(5))
	assert.Equal(t, 0.0, ps.Param(-1))

	ps.SetParam(0, 0.25)
	ps.SetParam(9, 1)
	assert.Equal(t, 0.25, ps.Param(0))
}
