package models

import "time"

// ResourceKind identifies the type of cloud resource being analyzed.
type ResourceKind string

const (
	KindCompute      ResourceKind = "compute"
	KindVolume       ResourceKind = "volume"
	KindBucket       ResourceKind = "bucket"
	KindLoadBalancer ResourceKind = "loadBalancer"
	KindElasticIP    ResourceKind = "elasticIp"
	KindDatabase     ResourceKind = "database"
	KindCacheNode    ResourceKind = "cacheNode"
	KindNATGateway   ResourceKind = "natGateway"
)

// ResourceDescriptor is an immutable snapshot of one resource taken by the
// collection layer. The engine only reads it.
type ResourceDescriptor struct {
	ID         string       `json:"id"`
	Kind       ResourceKind `json:"kind"`
	Shape      string       `json:"shape,omitempty"`
	Attributes Attributes   `json:"attributes,omitempty"`
	CreatedAt  time.Time    `json:"createdAt,omitempty"`
}

// Attributes carries the kind-specific fields the analyzers look at.
// Only the fields relevant to the resource's kind are populated.
type Attributes struct {
	Name string `json:"name,omitempty"`

	// Elastic IP association status.
	InstanceID         string `json:"instanceId,omitempty"`
	NetworkInterfaceID string `json:"networkInterfaceId,omitempty"`
	AssociationID      string `json:"associationId,omitempty"`

	// Volume.
	StorageType string `json:"storageType,omitempty"`
	SizeGiB     int64  `json:"sizeGiB,omitempty"`
	Attached    bool   `json:"attached,omitempty"`

	// Database / cache.
	Engine  string `json:"engine,omitempty"`
	MultiAZ bool   `json:"multiAZ,omitempty"`

	// Load balancer target state.
	RegisteredTargets int `json:"registeredTargets,omitempty"`
	HealthyTargets    int `json:"healthyTargets,omitempty"`

	// NAT gateway placement.
	SubnetID            string `json:"subnetId,omitempty"`
	VPCID               string `json:"vpcId,omitempty"`
	HasGatewayEndpoints bool   `json:"hasGatewayEndpoints,omitempty"`
	RedundantInSubnet   bool   `json:"redundantInSubnet,omitempty"`

	// Bucket object sample.
	HasLifecyclePolicy bool         `json:"hasLifecyclePolicy,omitempty"`
	ObjectSample       []ObjectMeta `json:"objectSample,omitempty"`
}

// ObjectMeta is per-object metadata sampled from a bucket listing.
type ObjectMeta struct {
	SizeBytes    int64     `json:"sizeBytes"`
	StorageClass string    `json:"storageClass"`
	LastModified time.Time `json:"lastModified"`
}
