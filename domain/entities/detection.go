package entities

// Box is an axis-aligned bounding box in image pixel coordinates.
type Box struct {
	XMin int `json:"xmin"`
	YMin int `json:"ymin"`
	XMax int `json:"xmax"`
	YMax int `json:"ymax"`
}

// Prediction is a single zero-shot detection result. Confidence is in [0, 1].
type Prediction struct {
	Box        Box     `json:"box"`
	Label      string  `json:"label"`
	Confidence float64 `json:"score"`
}
