package filter

import (
	"fmt"

	"mxbridge/internal/engine"
	"mxbridge/internal/logger"
	"mxbridge/internal/mxarray"
)

type centroidFilter struct{}

func (centroidFilter) Name() string {
	return string(ObjectCentroids)
}

func (centroidFilter) Apply(s *engine.Session, img *mxarray.Array, p Params, log logger.Logger) (Centroids, error) {
	steps := []step{
		putStep(ImageVar, img),
		evalStep("remove background", removeBackgroundExpr),
		evalStep("find table", findTableExpr),
		evalStep("restrict to table", restrictToTableExpr(p.Centroids)),
		evalStep("find centroids", findCentroidsExpr(p.Centroids)),
		evalStep("mark centroids", addCentroidsExpr(p.Centroids)),
	}
	if err := runSteps(s, steps, log); err != nil {
		return nil, err
	}

	raw, err := s.GetVariable(CentroidsVar)
	if err != nil {
		return nil, err
	}
	centroids, err := parseCentroids(raw)
	raw.Destroy()
	if err != nil {
		return nil, fmt.Errorf("read centroids: %w", err)
	}

	if err := replaceImage(s, FilteredVar, img); err != nil {
		return nil, fmt.Errorf("install filtered image: %w", err)
	}

	return centroids, nil
}
