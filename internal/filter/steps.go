package filter

import (
	"fmt"
	"time"

	"mxbridge/internal/engine"
	"mxbridge/internal/logger"
	"mxbridge/internal/mxarray"
)

// step is one engine round trip of a filter.
type step struct {
	name string
	run  func(s *engine.Session) error
}

func putStep(name string, img *mxarray.Array) step {
	return step{
		name: "put " + name,
		run:  func(s *engine.Session) error { return s.PutVariable(name, img) },
	}
}

func evalStep(name, expr string) step {
	return step{
		name: name,
		run:  func(s *engine.Session) error { return s.Evaluate(expr) },
	}
}

// runSteps executes steps in order and stops at the first failure.
func runSteps(s *engine.Session, steps []step, log logger.Logger) error {
	for i, st := range steps {
		started := time.Now()
		if err := st.run(s); err != nil {
			return fmt.Errorf("step %d (%s) failed: %w", i+1, st.name, err)
		}
		log.Debug(component, "step completed", map[string]interface{}{
			"step":     st.name,
			"duration": time.Since(started).String(),
		})
	}
	return nil
}

// replaceImage fetches the named result and moves its buffer into img.
func replaceImage(s *engine.Session, name string, img *mxarray.Array) error {
	result, err := s.GetVariable(name)
	if err != nil {
		return err
	}
	defer result.Destroy()

	return mxarray.MoveData(result, img)
}
