// =============================================================================
// Catalog Scanner - ROI Calculator
// =============================================================================
//
// Profitability math for matched catalog rows: profit, ROI, margin, a letter
// grade, and the breakeven price needed for a target return. Marketplace
// fees default to a flat estimate (15% referral plus a fixed fulfillment
// fee) when the caller has no exact figure.
//
// =============================================================================

package roi

import "math"

// Default fee model used when no exact marketplace fees are known.
const (
	DefaultReferralRate   = 15.0 // percent of the selling price
	DefaultFulfillmentFee = 1.0  // flat per-unit charge
)

// DefaultMinROI is the profitability threshold applied when none is
// configured.
const DefaultMinROI = 15.0

// Result holds the full profitability breakdown for one product.
type Result struct {
	CostPrice       float64 `json:"cost_price"`
	SellingPrice    float64 `json:"selling_price"`
	Fees            float64 `json:"fees"`
	AdditionalCosts float64 `json:"additional_costs"`
	TotalCosts      float64 `json:"total_costs"`
	NetProceeds     float64 `json:"net_proceeds"`
	Profit          float64 `json:"profit"`
	ROIPercent      float64 `json:"roi_percentage"`
	MarginPercent   float64 `json:"profit_margin"`
	Grade           string  `json:"grade"`
}

// Calculator computes profitability figures. The zero value uses the
// default fee model and threshold.
type Calculator struct {
	// ReferralRate is the marketplace referral fee as a percentage of
	// the selling price. Zero means DefaultReferralRate.
	ReferralRate float64
	// FulfillmentFee is the flat per-unit fulfillment charge. Applied
	// as-is, so an explicit zero is honored only when ReferralRate is
	// also set.
	FulfillmentFee float64
	// MinROI is the ROI percentage a product must reach to count as
	// profitable. Zero means DefaultMinROI.
	MinROI float64
}

func (c *Calculator) referralRate() float64 {
	if c.ReferralRate > 0 {
		return c.ReferralRate
	}
	return DefaultReferralRate
}

func (c *Calculator) fulfillmentFee() float64 {
	if c.ReferralRate > 0 {
		return c.FulfillmentFee
	}
	return DefaultFulfillmentFee
}

func (c *Calculator) minROI() float64 {
	if c.MinROI > 0 {
		return c.MinROI
	}
	return DefaultMinROI
}

// EstimateFees approximates total marketplace fees for a selling price
// using the calculator's fee model.
func (c *Calculator) EstimateFees(sellingPrice float64) float64 {
	return sellingPrice*c.referralRate()/100 + c.fulfillmentFee()
}

// Evaluate computes the full profitability breakdown.
//
// PARAMETERS:
//   - costPrice: acquisition cost per unit
//   - sellingPrice: gross marketplace price
//   - fees: exact marketplace fees; pass a negative value to have them
//     estimated from the fee model
//   - additionalCosts: prep, inbound shipping, and similar per-unit costs
func (c *Calculator) Evaluate(costPrice, sellingPrice, fees, additionalCosts float64) Result {
	if fees < 0 {
		fees = c.EstimateFees(sellingPrice)
	}

	netProceeds := sellingPrice - fees
	totalCosts := costPrice + additionalCosts
	profit := netProceeds - totalCosts

	roiPercent := 0.0
	if totalCosts > 0 {
		roiPercent = profit / totalCosts * 100
	}
	marginPercent := 0.0
	if sellingPrice > 0 {
		marginPercent = profit / sellingPrice * 100
	}

	return Result{
		CostPrice:       costPrice,
		SellingPrice:    sellingPrice,
		Fees:            fees,
		AdditionalCosts: additionalCosts,
		TotalCosts:      totalCosts,
		NetProceeds:     netProceeds,
		Profit:          profit,
		ROIPercent:      roiPercent,
		MarginPercent:   marginPercent,
		Grade:           Grade(roiPercent),
	}
}

// Profitable reports whether an ROI percentage clears the calculator's
// threshold.
func (c *Calculator) Profitable(roiPercent float64) bool {
	return roiPercent >= c.minROI()
}

// Breakeven returns the minimum selling price needed to hit the target ROI
// under the calculator's fee model. Returns +Inf when the referral rate
// makes the target unreachable.
func (c *Calculator) Breakeven(costPrice, targetROI float64) float64 {
	targetMultiplier := 1 + targetROI/100
	feeMultiplier := 1 - c.referralRate()/100
	if feeMultiplier <= 0 {
		return math.Inf(1)
	}
	price := (costPrice*targetMultiplier + c.fulfillmentFee()) / feeMultiplier
	if price < 0 {
		return 0
	}
	return price
}

// NetOfVAT strips value-added tax from a gross price. A non-positive rate
// returns the price unchanged.
func NetOfVAT(grossPrice, ratePercent float64) float64 {
	if ratePercent <= 0 {
		return grossPrice
	}
	return grossPrice / (1 + ratePercent/100)
}

// Grade maps an ROI percentage to a letter grade from A+ down to F.
func Grade(roiPercent float64) string {
	switch {
	case roiPercent >= 30:
		return "A+"
	case roiPercent >= 25:
		return "A"
	case roiPercent >= 20:
		return "B+"
	case roiPercent >= 15:
		return "B"
	case roiPercent >= 10:
		return "C+"
	case roiPercent >= 5:
		return "C"
	case roiPercent >= 0:
		return "D"
	default:
		return "F"
	}
}
