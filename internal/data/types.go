package data

const (
	LabelColumn    = "species"
	LocationColumn = "location"
)

// FeatureColumns is the canonical feature order used everywhere a flower is
// turned into a vector.
var FeatureColumns = []string{"sepal_length", "sepal_width", "petal_length", "petal_width"}

const (
	Setosa     = "Setosa"
	Versicolor = "Versicolor"
	Virginica  = "Virginica"
)

type Flower struct {
	SepalLength float64 `json:"sepal_length"`
	SepalWidth  float64 `json:"sepal_width"`
	PetalLength float64 `json:"petal_length"`
	PetalWidth  float64 `json:"petal_width"`
	Species     string  `json:"species"`
	Location    int     `json:"location,omitempty"`
}

type Dataset struct {
	Flowers     []Flower
	HasLocation bool
}

func (ds *Dataset) Len() int { return len(ds.Flowers) }

func (ds *Dataset) Labels() []string {
	out := make([]string, len(ds.Flowers))
	for i, f := range ds.Flowers {
		out[i] = f.Species
	}
	return out
}

func (ds *Dataset) Locations() []int {
	out := make([]int, len(ds.Flowers))
	for i, f := range ds.Flowers {
		out[i] = f.Location
	}
	return out
}

// Clone returns a copy safe to mutate.
func (ds *Dataset) Clone() *Dataset {
	fl := make([]Flower, len(ds.Flowers))
	copy(fl, ds.Flowers)
	return &Dataset{Flowers: fl, HasLocation: ds.HasLocation}
}

// Classes returns the distinct species in first-seen order.
func (ds *Dataset) Classes() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, f := range ds.Flowers {
		if !seen[f.Species] {
			seen[f.Species] = true
			out = append(out, f.Species)
		}
	}
	return out
}
