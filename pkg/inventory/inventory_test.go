package inventory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

type stubCollector struct {
	name      string
	resources []models.ResourceDescriptor
	err       error
}

func (s *stubCollector) Name() string { return s.name }

func (s *stubCollector) Collect(context.Context) ([]models.ResourceDescriptor, error) {
	return s.resources, s.err
}

func TestCollectAllMergesSorted(t *testing.T) {
	a := &stubCollector{name: "a", resources: []models.ResourceDescriptor{
		{ID: "vol-2", Kind: models.KindVolume},
		{ID: "i-9", Kind: models.KindCompute},
	}}
	b := &stubCollector{name: "b", resources: []models.ResourceDescriptor{
		{ID: "i-1", Kind: models.KindCompute},
	}}

	all, err := CollectAll(context.Background(), zap.NewNop(), a, b)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "i-1", all[0].ID)
	assert.Equal(t, "i-9", all[1].ID)
	assert.Equal(t, "vol-2", all[2].ID)
}

// A single failing collector costs its resources, not the whole run.
func TestCollectAllToleratesPartialFailure(t *testing.T) {
	ok := &stubCollector{name: "ok", resources: []models.ResourceDescriptor{
		{ID: "i-1", Kind: models.KindCompute},
	}}
	bad := &stubCollector{name: "bad", err: fmt.Errorf("access denied")}

	all, err := CollectAll(context.Background(), zap.NewNop(), ok, bad)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCollectAllFailsWhenAllFail(t *testing.T) {
	bad1 := &stubCollector{name: "bad1", err: fmt.Errorf("denied")}
	bad2 := &stubCollector{name: "bad2", err: fmt.Errorf("throttled")}

	_, err := CollectAll(context.Background(), zap.NewNop(), bad1, bad2)
	assert.ErrorContains(t, err, "all collectors failed")
}

func TestMarkRedundantGateways(t *testing.T) {
	gateways := []models.ResourceDescriptor{
		{ID: "nat-c", Attributes: models.Attributes{SubnetID: "subnet-1"}},
		{ID: "nat-a", Attributes: models.Attributes{SubnetID: "subnet-1"}},
		{ID: "nat-b", Attributes: models.Attributes{SubnetID: "subnet-2"}},
	}
	markRedundantGateways(gateways)

	// Sorted by ID; only the first gateway per subnet survives unflagged.
	assert.Equal(t, "nat-a", gateways[0].ID)
	assert.False(t, gateways[0].Attributes.RedundantInSubnet)
	assert.False(t, gateways[1].Attributes.RedundantInSubnet)
	assert.Equal(t, "nat-c", gateways[2].ID)
	assert.True(t, gateways[2].Attributes.RedundantInSubnet)
}

func TestArnSuffix(t *testing.T) {
	arn := "arn:aws:elasticloadbalancing:us-east-1:123456789012:loadbalancer/app/web/50dc6c495c0c9188"
	assert.Equal(t, "app/web/50dc6c495c0c9188", arnSuffix(arn))
	assert.Equal(t, "not-an-arn", arnSuffix("not-an-arn"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	content := `{
		"resources": [
			{"id": "vol-2", "kind": "volume", "attributes": {"storageType": "gp2", "sizeGiB": 100}},
			{"id": "i-1", "kind": "compute", "shape": "t3.large"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	resources, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, "i-1", resources[0].ID)
	assert.Equal(t, models.KindCompute, resources[0].Kind)
	assert.Equal(t, int64(100), resources[1].Attributes.SizeGiB)
}
