package analyzer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Thresholds collects the tunables the analyzers decide with. The defaults
// are empirically chosen and carry no documented derivation, so they live
// in configuration rather than as compiled-in constants.
type Thresholds struct {
	// Compute rightsizing targets.
	CPUTargetMean     float64 `yaml:"cpuTargetMean"`     // size so mean CPU lands near this
	CPUTargetMax      float64 `yaml:"cpuTargetMax"`      // size so max CPU lands near this
	MemoryTarget      float64 `yaml:"memoryTarget"`      // size so mean memory lands near this
	MemoryFallback    float64 `yaml:"memoryFallback"`    // required memory ratio when no agent reports memory
	WellUtilizedMean  float64 `yaml:"wellUtilizedMean"`  // skip rightsizing above this mean CPU...
	WellUtilizedMax   float64 `yaml:"wellUtilizedMax"`   // ...when max CPU also exceeds this
	OverProvisionMax  float64 `yaml:"overProvisionMax"`  // reject candidates beyond this penalty
	PenaltyPriceCoeff float64 `yaml:"penaltyPriceCoeff"` // penalty weight in candidate ranking
	ModerateImpactMax float64 `yaml:"moderateImpactMax"` // shrinking past this max CPU is moderate impact

	// Workload classification.
	IdleCPUFloor    float64 `yaml:"idleCpuFloor"`    // a sample below this counts as idle
	DevTestIdleFrac float64 `yaml:"devTestIdleFrac"` // idle fraction above this means dev/test
	PeakyCoV        float64 `yaml:"peakyCoV"`
	PeakySwing      float64 `yaml:"peakySwing"` // max-min percentage points
	SteadyCoV       float64 `yaml:"steadyCoV"`
	SteadyMinMean   float64 `yaml:"steadyMinMean"`

	// Confidence sample cutoffs (hourly samples).
	HighConfidenceSamples   int `yaml:"highConfidenceSamples"`
	MediumConfidenceSamples int `yaml:"mediumConfidenceSamples"`

	// Idle detection floors.
	DBIdleConnections  float64 `yaml:"dbIdleConnections"`
	DBIdleCPU          float64 `yaml:"dbIdleCpu"`
	DBOversizedCPU     float64 `yaml:"dbOversizedCpu"`
	NATIdleConnections float64 `yaml:"natIdleConnections"`
	NATIdleDailyBytes  float64 `yaml:"natIdleDailyBytes"`
	LBLowHourlyReqs    float64 `yaml:"lbLowHourlyReqs"`
	LBMinDataHours     float64 `yaml:"lbMinDataHours"`
	LBLowTrafficHours  float64 `yaml:"lbLowTrafficHours"`

	// Savings fractions for partial recommendations.
	OversizedSavingsFrac   float64 `yaml:"oversizedSavingsFrac"`
	MultiAZSavingsFrac     float64 `yaml:"multiAZSavingsFrac"`
	AutoStopSavingsFrac    float64 `yaml:"autoStopSavingsFrac"`
	VPCEndpointSavingsFrac float64 `yaml:"vpcEndpointSavingsFrac"`

	// Storage tiering.
	ObjectSampleCap     int     `yaml:"objectSampleCap"`
	AgedObjectFraction  float64 `yaml:"agedObjectFraction"`  // lifecycle policy trigger
	StandardMinGiB      float64 `yaml:"standardMinGiB"`      // class-transition size floor
	IAEligibleFraction  float64 `yaml:"iaEligibleFraction"`  // share of Standard assumed transitionable
	VolumeGP3MinSizeGiB int64   `yaml:"volumeGp3MinSizeGiB"` // gp2->gp3 size floor

	// Global noise floor: drop recommendations saving less than this.
	MinMonthlySavings float64 `yaml:"minMonthlySavings"`
}

// DefaultThresholds returns the engine's shipped tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUTargetMean:     70,
		CPUTargetMax:      90,
		MemoryTarget:      80,
		MemoryFallback:    0.5,
		WellUtilizedMean:  50,
		WellUtilizedMax:   80,
		OverProvisionMax:  2.0,
		PenaltyPriceCoeff: 0.01,
		ModerateImpactMax: 60,

		IdleCPUFloor:    5.0,
		DevTestIdleFrac: 0.7,
		PeakyCoV:        1.0,
		PeakySwing:      50,
		SteadyCoV:       0.5,
		SteadyMinMean:   10,

		HighConfidenceSamples:   1440,
		MediumConfidenceSamples: 480,

		DBIdleConnections:  1,
		DBIdleCPU:          5,
		DBOversizedCPU:     20,
		NATIdleConnections: 10,
		NATIdleDailyBytes:  1 << 30, // 1 GiB/day
		LBLowHourlyReqs:    10,
		LBMinDataHours:     24,
		LBLowTrafficHours:  48,

		OversizedSavingsFrac:   0.5,
		MultiAZSavingsFrac:     0.5,
		AutoStopSavingsFrac:    0.65,
		VPCEndpointSavingsFrac: 0.8,

		ObjectSampleCap:     1000,
		AgedObjectFraction:  0.2,
		StandardMinGiB:      128,
		IAEligibleFraction:  0.6,
		VolumeGP3MinSizeGiB: 8,

		MinMonthlySavings: 1.0,
	}
}

// Costs holds the fixed monthly unit prices used where no catalog shape
// applies. USD, 720-hour month.
type Costs struct {
	ElasticIPMonthly      float64 `yaml:"elasticIpMonthly"`
	LoadBalancerMonthly   float64 `yaml:"loadBalancerMonthly"`
	NATGatewayMonthly     float64 `yaml:"natGatewayMonthly"`
	NATPerGBProcessed     float64 `yaml:"natPerGBProcessed"`
	DatabaseFallbackMonth float64 `yaml:"databaseFallbackMonthly"`
	CacheFallbackMonth    float64 `yaml:"cacheFallbackMonthly"`
	S3StandardGBMonth     float64 `yaml:"s3StandardGBMonth"`
	S3InfrequentGBMonth   float64 `yaml:"s3InfrequentGBMonth"`
	EBSGp2GBMonth         float64 `yaml:"ebsGp2GBMonth"`
	EBSGp3GBMonth         float64 `yaml:"ebsGp3GBMonth"`
}

// DefaultCosts returns the shipped unit prices (us-east-1 reference).
func DefaultCosts() Costs {
	return Costs{
		ElasticIPMonthly:      3.65,
		LoadBalancerMonthly:   16.20,
		NATGatewayMonthly:     32.40,
		NATPerGBProcessed:     0.045,
		DatabaseFallbackMonth: 50.0,
		CacheFallbackMonth:    25.0,
		S3StandardGBMonth:     0.023,
		S3InfrequentGBMonth:   0.0125,
		EBSGp2GBMonth:         0.10,
		EBSGp3GBMonth:         0.08,
	}
}

type tuningFile struct {
	Thresholds *Thresholds `yaml:"thresholds"`
	Costs      *Costs      `yaml:"costs"`
}

// LoadTuning reads threshold and cost overrides from a YAML file. Missing
// sections keep the defaults.
func LoadTuning(path string) (Thresholds, Costs, error) {
	thresholds := DefaultThresholds()
	costs := DefaultCosts()

	data, err := os.ReadFile(path)
	if err != nil {
		return thresholds, costs, fmt.Errorf("failed to read tuning file: %w", err)
	}

	f := tuningFile{Thresholds: &thresholds, Costs: &costs}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return thresholds, costs, fmt.Errorf("failed to parse tuning file: %w", err)
	}
	return thresholds, costs, nil
}
