package dto

type SelectionOutput struct {
	ExerciseIndex int
	ImageSide     int
}

type SelectImageSideInput struct {
	ExerciseIndex int
	ImageSide     int
}

type MarkersInput struct {
	ExerciseIndex int
	ImageSide     int
}

type Marker struct {
	Position int
	Top      float64
	Right    float64
}

type MarkersOutput struct {
	ExerciseIndex int
	ImageSide     int
	Version       int
	Markers       []Marker
}

type SaveMarkersInput struct {
	ExerciseIndex int
	ImageSide     int
	Markers       []Marker
}

type SetMarkerInput struct {
	ExerciseIndex int
	ImageSide     int
	Marker        Marker
}
