package processors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"lending_docs/internal/models"
	"lending_docs/internal/ports"
)

const TypeDealCompliance = "deal_compliance"

// DealEvaluator is the slice of the evaluation service the deal import uses.
type DealEvaluator interface {
	SaveDeal(ctx context.Context, deal models.Deal) (string, error)
	Evaluate(ctx context.Context, deal models.Deal) models.ComplianceEvaluation
}

// DealComplianceProcessor parses one deal per row, stores it and records a
// compliance evaluation for it.
type DealComplianceProcessor struct {
	*BaseProcessor
	Deals DealEvaluator
	// SkipSave reports whether a SaveDeal error only means persistence is off.
	SkipSave func(error) bool
}

func (p *DealComplianceProcessor) Type() string { return TypeDealCompliance }

func (p *DealComplianceProcessor) ProcessBatch(ctx context.Context, batch []map[string]string) error {
	if p.Deals == nil {
		return errors.New("deal evaluator not configured")
	}
	log := p.logger()
	log.Info("[PROC][deals][START]", zap.Int("rows", len(batch)), zap.String("import_record_id", ports.ImportRecordID(ctx)))

	evaluated, blocked := 0, 0
	for _, m := range batch {
		deal, err := parseDeal(m)
		if err != nil {
			p.fail(ctx, TypeDealCompliance, m["deal_id"], m, err.Error())
			continue
		}

		id, err := p.Deals.SaveDeal(ctx, deal)
		switch {
		case err == nil:
			deal.ID = id
		case p.SkipSave != nil && p.SkipSave(err):
		default:
			p.fail(ctx, TypeDealCompliance, deal.ID, m, err.Error())
			continue
		}

		ev := p.Deals.Evaluate(ctx, deal)
		evaluated++
		note := fmt.Sprintf("evaluation %s: %d/%d passed", ev.ID, ev.Summary.Passed, ev.Summary.Total)
		if !ev.Summary.Enforceable {
			blocked++
			note += "; critical: " + strings.Join(criticalNames(ev.Results), ", ")
		}
		p.done(ctx, TypeDealCompliance, firstNonEmpty(deal.ID, ev.ID), m, note)
	}

	log.Info("[PROC][deals][DONE]",
		zap.Int("total", len(batch)),
		zap.Int("evaluated", evaluated),
		zap.Int("not_enforceable", blocked))
	return nil
}

func criticalNames(results []models.ComplianceCheckResult) []string {
	var out []string
	for _, r := range results {
		if !r.Passed && r.Severity == models.SeverityCritical {
			out = append(out, r.Name)
		}
	}
	return out
}

// parseDeal maps a flat row to a deal. Rates and LTV accept "7.5%", "7.5" or
// "0.075"; fees use "name:amount;name:amount".
func parseDeal(m map[string]string) (models.Deal, error) {
	d := models.Deal{
		ID:              m["deal_id"],
		ProgramID:       firstNonEmpty(m["program_id"], m["program"]),
		BorrowerName:    firstNonEmpty(m["borrower_name"], m["borrower"]),
		State:           strings.ToUpper(strings.TrimSpace(m["state"])),
		LoanPurpose:     m["loan_purpose"],
		Industry:        m["industry"],
		NAICSCode:       m["naics_code"],
		CollateralTypes: splitList(m["collateral_types"]),
	}
	t := &d.Terms
	t.InterestOnly = parseBool(m["interest_only"])
	t.PrepaymentPenalty = parseBool(m["prepayment_penalty"])
	t.BaseRateType = m["base_rate_type"]
	t.Conditions = splitList(m["conditions"])

	steps := []func() error{
		func() (err error) { t.ApprovedAmount, err = parseAmount(firstNonEmpty(m["approved_amount"], m["amount"])); return },
		func() (err error) { t.InterestRate, err = parsePercent(firstNonEmpty(m["interest_rate"], m["rate"])); return },
		func() (err error) { t.BaseRateValue, err = parsePercent(m["base_rate_value"]); return },
		func() (err error) { t.Spread, err = parsePercent(m["spread"]); return },
		func() (err error) { t.TermMonths, err = parseInt(m["term_months"]); return },
		func() (err error) { t.AmortizationMonths, err = parseInt(m["amortization_months"]); return },
		func() (err error) { t.MonthlyPayment, err = parseAmount(m["monthly_payment"]); return },
		func() (err error) { t.LateFeePercent, err = parsePercent(m["late_fee_percent"]); return },
		func() (err error) { t.LateFeeGraceDays, err = parseInt(m["late_fee_grace_days"]); return },
		func() (err error) { t.LTV, err = parseOptionalPercent(m["ltv"]); return },
		func() (err error) { t.Fees, err = parseFees(m["fees"]); return },
		func() (err error) { d.AnnualRevenue, err = parseAmount(m["annual_revenue"]); return },
		func() (err error) { d.EmployeeCount, err = parseInt(m["employee_count"]); return },
		func() (err error) { d.TangibleNetWorth, err = parseAmount(m["tangible_net_worth"]); return },
		func() (err error) { d.AvgNetIncome, err = parseAmount(m["avg_net_income"]); return },
		func() (err error) { d.JobsCreated, err = parseInt(m["jobs_created"]); return },
		func() (err error) { d.DTI, err = parseOptionalPercent(m["dti"]); return },
		func() (err error) { d.TransactionValue, err = parseAmount(m["transaction_value"]); return },
		func() (err error) { d.AcquirerSize, err = parseAmount(m["acquirer_size"]); return },
		func() (err error) { d.TargetSize, err = parseAmount(m["target_size"]); return },
		func() (err error) { d.FundingDate, err = parseDate(m["funding_date"]); return },
		func() (err error) { d.FirstPaymentDate, err = parseDate(m["first_payment_date"]); return },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return d, err
		}
	}
	if t.ApprovedAmount <= 0 {
		return d, errMissing("approved_amount")
	}
	return d, nil
}
