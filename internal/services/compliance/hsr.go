package compliance

import (
	"fmt"

	"lending_docs/internal/models"
)

// Thresholds effective February 2025; the FTC revises them every January.
const (
	hsrSizeOfTransaction      = 126_400_000.0
	hsrSizeOfTransactionUpper = 505_800_000.0
	hsrSizeOfPersonSmall      = 25_300_000.0
	hsrSizeOfPersonLarge      = 252_900_000.0
	hsrTopFee                 = 2_390_000.0
)

var hsrFeeTiers = []struct {
	below float64
	fee   float64
}{
	{179_400_000, 30_000},
	{555_500_000, 105_000},
	{1_111_000_000, 265_000},
	{2_222_000_000, 425_000},
	{5_555_000_000, 850_000},
}

func HSRFilingFee(transactionValue float64) float64 {
	for _, tier := range hsrFeeTiers {
		if transactionValue < tier.below {
			return tier.fee
		}
	}
	return hsrTopFee
}

func checkHSR(in CheckInput) models.ComplianceCheckResult {
	const name = "HSR Premerger Notification"
	const regulation = "15 U.S.C. § 18a; 16 CFR Parts 801-803"
	value := in.Deal.TransactionValue

	if value <= 0 {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: "No acquisition value provided; HSR not applicable",
			Severity:    models.SeverityInfo,
		}
	}
	if value < hsrSizeOfTransaction {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: fmt.Sprintf("Transaction value %s is below the %s size-of-transaction threshold; no filing required", usd(value), usd(hsrSizeOfTransaction)),
			Severity:    models.SeverityInfo,
		}
	}

	required := value >= hsrSizeOfTransactionUpper
	if !required {
		acq, tgt := in.Deal.AcquirerSize, in.Deal.TargetSize
		if acq <= 0 || tgt <= 0 {
			return models.ComplianceCheckResult{
				Name:        name,
				Passed:      true,
				Regulation:  regulation,
				Description: fmt.Sprintf("Transaction value %s triggers the size-of-person test, but party sizes were not provided; manual review required", usd(value)),
				Severity:    models.SeverityWarning,
			}
		}
		required = (acq >= hsrSizeOfPersonLarge && tgt >= hsrSizeOfPersonSmall) ||
			(acq >= hsrSizeOfPersonSmall && tgt >= hsrSizeOfPersonLarge)
	}

	if !required {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: fmt.Sprintf("Transaction value %s meets size-of-transaction but parties do not meet the size-of-person test; no filing required", usd(value)),
			Severity:    models.SeverityInfo,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: fmt.Sprintf("HSR filing required for transaction value %s; filing fee %s; closing subject to the 30-day waiting period", usd(value), usd(HSRFilingFee(value))),
		Severity:    models.SeverityWarning,
	}
}
