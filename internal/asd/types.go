package asd

import "fmt"

// DataType is the spectrum type recorded by the instrument software
type DataType uint8

const (
	DataTypeRaw DataType = iota
	DataTypeReflectance
	DataTypeRadiance
	DataTypeNoUnits
	DataTypeIrradiance
	DataTypeQI
	DataTypeTransmittance
	DataTypeUnknown
	DataTypeAbsorbance
)

var dataTypeNames = [...]string{
	"Raw",
	"Reflectance",
	"Radiance",
	"No_Units",
	"Irradiance",
	"QI",
	"Transmittance",
	"Unknown",
	"Absorbance",
}

func (d DataType) String() string {
	if int(d) < len(dataTypeNames) {
		return dataTypeNames[d]
	}
	return fmt.Sprintf("DataType(%d)", uint8(d))
}

// Valid reports whether d is one of the documented data type codes
func (d DataType) Valid() bool {
	return int(d) < len(dataTypeNames)
}

// Instrument is the spectrometer model code
type Instrument uint8

var instrumentNames = [...]string{
	"Unknown",
	"PSII",
	"LSVNIR",
	"FSVNIR",
	"FSFR",
	"FSNIR",
	"CHEM",
	"FSFR Unattended",
}

func (i Instrument) String() string {
	if int(i) < len(instrumentNames) {
		return instrumentNames[i]
	}
	return fmt.Sprintf("Instrument(%d)", uint8(i))
}

// warning flag byte 1 values
var detectorWarnings = map[uint8]string{
	1:  "nir saturation",
	2:  "swir1 saturation",
	3:  "swir2 saturation",
	8:  "Tec1 alarm",
	16: "Tec2 alarm",
}
