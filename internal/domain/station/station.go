package station

// Origin tells whether the station name came from the option list or manual entry
type Origin string

const (
	OriginSelect Origin = "select"
	OriginManual Origin = "manual"
)

// Persistence keys of the last-used station record
const (
	KeyName   = "stationName"
	KeyOrigin = "stationNameType"
)

// String returns the string representation of the origin
func (o Origin) String() string {
	return string(o)
}

// IsValid returns true if the origin is one of the defined constants
func (o Origin) IsValid() bool {
	return o == OriginSelect || o == OriginManual
}

// Name is a station name together with where it came from
type Name struct {
	Value  string `json:"value"`
	Origin Origin `json:"origin"`
}

// Default is the state used on first run
func Default() Name {
	return Name{Origin: OriginSelect}
}
