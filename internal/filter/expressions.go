package filter

import "fmt"

// removeBackgroundExpr converts to grayscale, thresholds with Otsu's method and masks the
// background out of the image.
const removeBackgroundExpr = "grayscale_img = rgb2gray(img); " +
	"threshold = graythresh(grayscale_img); " +
	"only_background_mask = imbinarize(grayscale_img, threshold); " +
	"not_background_mask = ~only_background_mask; " +
	"no_background_img = img.*repmat(uint8(not_background_mask), [1, 1, 3]);"

// findTableExpr picks the largest hole-filled background region as the table surface.
const findTableExpr = "only_background_mask = imfill(only_background_mask, 'holes'); " +
	"background_regions = regionprops(only_background_mask, grayscale_img, {'Area', 'Centroid', 'PixelIdxList'}); " +
	"[max_area, max_id] = max([background_regions.Area]); " +
	"max_region_pixels = background_regions(max_id).PixelIdxList;"

func restrictToTableExpr(p CentroidParams) string {
	return "table_mask = zeros(size(only_background_mask)); " +
		"table_mask(max_region_pixels) = 1; " +
		fmt.Sprintf("table_mask = imerode(table_mask, strel('cube', %d)); ", p.ErosionSize) +
		"only_table_img = no_background_img.*repmat(uint8(table_mask), [1, 1, 3]); " +
		"no_table_background_mask = table_mask & not_background_mask;"
}

func findCentroidsExpr(p CentroidParams) string {
	return "objects = regionprops(no_table_background_mask, grayscale_img, {'Area', 'Centroid'}); " +
		fmt.Sprintf("allCentroids = arrayfun(@(n) n > %d, [objects.Area]); ", p.MinObjectArea) +
		"validCentroidIdx = find(allCentroids == 1); " +
		"numValidCentroids = length(validCentroidIdx); " +
		"unformattedCentroids = [objects(validCentroidIdx).Centroid]; " +
		"finalCentroids = transpose(reshape(unformattedCentroids, [2, numValidCentroids]));"
}

func addCentroidsExpr(p CentroidParams) string {
	return "filteredImg = img; " +
		"for i = 1:numValidCentroids " +
		"currX = finalCentroids(i, 1); " +
		"currY = finalCentroids(i, 2); " +
		fmt.Sprintf("filteredImg = insertShape(filteredImg, 'circle', [currX currY %d], 'LineWidth', %d, 'Color', '%s'); ",
			p.MarkerRadius, p.MarkerLineWidth, p.MarkerColor) +
		"end"
}

func kmeansExpr(p SegmentationParams) string {
	return fmt.Sprintf("[labels, centers] = imsegkmeans(img, %d);", p.Clusters)
}

const labelOverlayExpr = "filtered_img = labeloverlay(img, labels);"
