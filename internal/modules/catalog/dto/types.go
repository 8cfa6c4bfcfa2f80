package dto

type CoordinateOutput struct {
	Top   float64
	Right float64
}

type ExerciseOutput struct {
	Index      int
	Name       string
	Title      string
	TotalSteps int
	ImageSides []string
	Defaults   map[int]CoordinateOutput
}

type CatalogOutput struct {
	Version   int
	Exercises []ExerciseOutput
}
