package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/shopspring/decimal"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// PricingClient is the slice of the AWS Pricing API the loader needs.
type PricingClient interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// regionLocations maps region codes to the location names the Pricing API
// filters on.
var regionLocations = map[string]string{
	"us-east-1":      "US East (N. Virginia)",
	"us-east-2":      "US East (Ohio)",
	"us-west-1":      "US West (N. California)",
	"us-west-2":      "US West (Oregon)",
	"eu-west-1":      "EU (Ireland)",
	"eu-central-1":   "EU (Frankfurt)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
}

// priceListItem is the subset of a Pricing API price-list document the
// loader reads.
type priceListItem struct {
	Product struct {
		Attributes map[string]string `json:"attributes"`
	} `json:"product"`
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				PricePerUnit struct {
					USD string `json:"USD"`
				} `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

// LoadFromPricingAPI builds a compute catalog from the AWS Pricing API for
// one region: on-demand, shared-tenancy Linux instances with no
// pre-installed software.
func LoadFromPricingAPI(ctx context.Context, client PricingClient, region string) (*Catalog, error) {
	location, ok := regionLocations[region]
	if !ok {
		return nil, fmt.Errorf("no pricing location known for region %q", region)
	}

	filters := []pricingtypes.Filter{
		{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("location"), Value: aws.String(location)},
		{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("operatingSystem"), Value: aws.String("Linux")},
		{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("tenancy"), Value: aws.String("Shared")},
		{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("preInstalledSw"), Value: aws.String("NA")},
		{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("capacitystatus"), Value: aws.String("Used")},
	}

	var entries []models.CatalogEntry
	var next *string
	for {
		out, err := client.GetProducts(ctx, &pricing.GetProductsInput{
			ServiceCode: aws.String("AmazonEC2"),
			Filters:     filters,
			NextToken:   next,
		})
		if err != nil {
			return nil, fmt.Errorf("pricing API query failed: %w", err)
		}

		for _, doc := range out.PriceList {
			entry, ok := parsePriceListItem(doc)
			if !ok {
				continue
			}
			entries = append(entries, entry)
		}

		if out.NextToken == nil {
			break
		}
		next = out.NextToken
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("pricing API returned no usable entries for %s", region)
	}
	return New(entries), nil
}

func parsePriceListItem(doc string) (models.CatalogEntry, bool) {
	var item priceListItem
	if err := json.Unmarshal([]byte(doc), &item); err != nil {
		return models.CatalogEntry{}, false
	}

	attrs := item.Product.Attributes
	instanceType := attrs["instanceType"]
	if instanceType == "" {
		return models.CatalogEntry{}, false
	}

	vcpu, err := strconv.Atoi(attrs["vcpu"])
	if err != nil || vcpu <= 0 {
		return models.CatalogEntry{}, false
	}

	memory, ok := parseMemoryGiB(attrs["memory"])
	if !ok {
		return models.CatalogEntry{}, false
	}

	price, ok := onDemandHourlyUSD(item)
	if !ok || price <= 0 {
		return models.CatalogEntry{}, false
	}

	arch := "x86_64"
	if strings.Contains(attrs["physicalProcessor"], "Graviton") {
		arch = "arm64"
	}

	return models.CatalogEntry{
		ShapeKey: instanceType,
		Capacity: models.Capacity{
			VCPU:         vcpu,
			MemoryGiB:    memory,
			Architecture: arch,
		},
		HourlyPrice: price,
	}, true
}

// parseMemoryGiB parses Pricing API memory strings like "8 GiB".
func parseMemoryGiB(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(s, "GiB"))
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// onDemandHourlyUSD extracts the single on-demand price dimension. Prices
// arrive as strings; decimal parsing avoids float artifacts like
// 0.09600000000000001 in the catalog.
func onDemandHourlyUSD(item priceListItem) (float64, bool) {
	for _, term := range item.Terms.OnDemand {
		for _, dim := range term.PriceDimensions {
			d, err := decimal.NewFromString(dim.PricePerUnit.USD)
			if err != nil {
				continue
			}
			price, _ := d.Float64()
			return price, true
		}
	}
	return 0, false
}
