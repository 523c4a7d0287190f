// Package imaging handles the raster side of the mask editor that sits
// outside the editing core: loading source images, rendering the mask over
// them, cropping zone previews and parsing colors.
//
// # Coordinate System
//
// All pixel coordinates are native source pixels with (0,0) at the
// top-left. Source images are decoded with EXIF orientation applied, so the
// native size matches what the host displays.
//
// # Rendering
//
// Render composites the paint layer over the source with
// disintegration/imaging, then outlines selection rectangles. With Grid set
// it also draws the model's normalized grid: a line every 100 units,
// labeled with its grid value, so a zone tag such as
// "[EDIT_ZONE: 200, 100, 600, 500]" can be checked by eye.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and never modify their inputs.
package imaging
