package filter

import (
	"fmt"

	"mxbridge/internal/engine"
	"mxbridge/internal/logger"
	"mxbridge/internal/mxarray"
)

type kmeansFilter struct{}

func (kmeansFilter) Name() string {
	return string(KMeansOverlay)
}

func (kmeansFilter) Apply(s *engine.Session, img *mxarray.Array, p Params, log logger.Logger) (Centroids, error) {
	steps := []step{
		putStep(ImageVar, img),
		evalStep("segment", kmeansExpr(p.Segmentation)),
		evalStep("overlay labels", labelOverlayExpr),
	}
	if err := runSteps(s, steps, log); err != nil {
		return nil, err
	}

	if err := replaceImage(s, OverlayVar, img); err != nil {
		return nil, fmt.Errorf("install filtered image: %w", err)
	}
	return nil, nil
}
