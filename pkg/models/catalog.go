package models

// Capacity describes what a shape provides.
type Capacity struct {
	VCPU         int     `json:"vcpu" yaml:"vcpu"`
	MemoryGiB    float64 `json:"memoryGiB" yaml:"memoryGiB"`
	Architecture string  `json:"architecture" yaml:"architecture"`
}

// CatalogEntry maps a shape key (instance type, node type) to capacity and
// unit price. Pure reference data.
type CatalogEntry struct {
	ShapeKey    string   `json:"shapeKey" yaml:"shapeKey"`
	Capacity    Capacity `json:"capacity" yaml:"capacity"`
	HourlyPrice float64  `json:"hourlyPrice" yaml:"hourlyPrice"`
}

// MonthlyPrice converts the hourly unit price to the engine's fixed
// 720-hour month.
func (e CatalogEntry) MonthlyPrice() float64 {
	return e.HourlyPrice * HoursPerMonth
}

// HoursPerMonth is the fixed month length used for all savings math.
const HoursPerMonth = 720.0
