package badge

// Profile carries the crop geometry and OCR scale tuned for one device model.
// Crops always span the full image width; only the vertical bounds vary.
type Profile struct {
	Model      string
	Scale      float64
	TitleStart int
	TitleEnd   int
	ActivStart int
	ActivEnd   int
}

// Screenshot dimensions as (height, width); each maps to exactly one profile.
var profiles = map[[2]int]Profile{
	{1334, 750}:  {Model: "iphone se", Scale: 1.75, TitleStart: 50, TitleEnd: 140, ActivStart: 975, ActivEnd: 1100},
	{1792, 828}:  {Model: "iphone 11", Scale: 1.5, TitleStart: 60, TitleEnd: 150, ActivStart: 1075, ActivEnd: 1225},
	{2556, 1179}: {Model: "iphone 15", Scale: 1, TitleStart: 110, TitleEnd: 210, ActivStart: 1550, ActivEnd: 1800},
}

// ResolveProfile maps raw pixel dimensions to a device profile. There is no
// tolerance window: anything outside the enumerated set is ErrUnsupportedModel.
func ResolveProfile(height, width int) (Profile, error) {
	p, ok := profiles[[2]int{height, width}]
	if !ok {
		return Profile{}, ErrUnsupportedModel
	}
	return p, nil
}
