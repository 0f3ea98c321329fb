package filter

// Variable names bound inside the engine workspace.
const (
	ImageVar     = "img"
	FilteredVar  = "filteredImg"
	CentroidsVar = "finalCentroids"
	OverlayVar   = "filtered_img"
)

// CentroidParams tunes the object-centroid filter.
type CentroidParams struct {
	// MinObjectArea discards regions whose pixel area is not above this value.
	MinObjectArea   int
	// ErosionSize is the edge of the cube structuring element eroding the table mask.
	ErosionSize     int
	MarkerRadius    int
	MarkerLineWidth int
	MarkerColor     string
}

// SegmentationParams tunes the k-means overlay filter.
type SegmentationParams struct {
	Clusters int
}

type Params struct {
	Centroids    CentroidParams
	Segmentation SegmentationParams
}

func DefaultParams() Params {
	return Params{
		Centroids: CentroidParams{
			MinObjectArea:   60,
			ErosionSize:     10,
			MarkerRadius:    20,
			MarkerLineWidth: 10,
			MarkerColor:     "green",
		},
		Segmentation: SegmentationParams{
			Clusters: 5,
		},
	}
}
