// Package compliance evaluates the regulatory checks a loan program declares
// against a deal. Every check is a pure function returning exactly one result;
// nothing here fails on business edge cases.
package compliance

import (
	"sort"

	"lending_docs/internal/models"
)

const (
	CheckUsury                = "usury_check"
	CheckSBASizeStandard      = "sba_size_standard"
	CheckSBA504Eligibility    = "sba_504_eligibility"
	CheckSBAJobCreation       = "sba_job_creation"
	CheckSBACreditElsewhere   = "sba_credit_elsewhere"
	CheckSBAEligibleBusiness  = "sba_eligible_business"
	CheckHSR                  = "hsr_filing"
	CheckHPML                 = "hpml_check"
	CheckATR                  = "atr_check"
	CheckPrepaymentPenalty    = "prepayment_penalty"
	CheckCommercialDisclosure = "commercial_financing_disclosure"
	CheckEnvironmentalPhase1  = "environmental_phase1"
	CheckFloodInsurance       = "flood_insurance"
	CheckBSAAML               = "bsa_aml"
	CheckOFAC                 = "ofac_screening"
	CheckUCCLienSearch        = "ucc_lien_search"
	CheckGeniusAct            = "genius_act"
	CheckLateFeeLimit         = "late_fee_limit"
)

type CheckInput struct {
	Deal    models.Deal
	Program models.LoanProgram
}

type CheckFunc func(CheckInput) models.ComplianceCheckResult

type ProgramLookup interface {
	Lookup(id string) (models.LoanProgram, bool)
}

type Evaluator struct {
	programs ProgramLookup
	checks   map[string]CheckFunc
	apor     APORSource
}

type Option func(*Evaluator)

// WithAPORSource replaces the conservative static APOR estimate used by the
// HPML check.
func WithAPORSource(src APORSource) Option {
	return func(e *Evaluator) {
		if src != nil {
			e.apor = src
		}
	}
}

func WithCheck(label string, fn CheckFunc) Option {
	return func(e *Evaluator) {
		e.checks[label] = fn
	}
}

func NewEvaluator(programs ProgramLookup, opts ...Option) *Evaluator {
	e := &Evaluator{
		programs: programs,
		apor:     DefaultAPOR(),
	}
	e.checks = map[string]CheckFunc{
		CheckUsury:                checkUsury,
		CheckSBASizeStandard:      checkSBASizeStandard,
		CheckSBA504Eligibility:    checkSBA504Eligibility,
		CheckSBAJobCreation:       checkSBAJobCreation,
		CheckSBACreditElsewhere:   checkSBACreditElsewhere,
		CheckSBAEligibleBusiness:  checkSBAEligibleBusiness,
		CheckHSR:                  checkHSR,
		CheckHPML:                 e.checkHPML,
		CheckATR:                  checkATR,
		CheckPrepaymentPenalty:    checkPrepaymentPenalty,
		CheckCommercialDisclosure: checkCommercialDisclosure,
		CheckEnvironmentalPhase1:  checkEnvironmentalPhase1,
		CheckFloodInsurance:       checkFloodInsurance,
		CheckBSAAML:               checkBSAAML,
		CheckOFAC:                 checkOFAC,
		CheckUCCLienSearch:        checkUCCLienSearch,
		CheckGeniusAct:            checkGeniusAct,
		CheckLateFeeLimit:         checkLateFeeLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Labels lists every registered check label in sorted order.
func (e *Evaluator) Labels() []string {
	out := make([]string, 0, len(e.checks))
	for k := range e.checks {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Evaluate looks up the deal's program and runs its configured checks. An
// unknown program yields a single critical Program Validation failure.
func (e *Evaluator) Evaluate(deal models.Deal) []models.ComplianceCheckResult {
	var (
		program models.LoanProgram
		ok      bool
	)
	if e.programs != nil {
		program, ok = e.programs.Lookup(deal.ProgramID)
	}
	if !ok {
		return []models.ComplianceCheckResult{{
			Name:        "Program Validation",
			Passed:      false,
			Regulation:  "Internal program registry",
			Description: "Loan program " + quote(deal.ProgramID) + " is not registered; compliance checks cannot be determined",
			Severity:    models.SeverityCritical,
		}}
	}
	return e.EvaluateProgram(deal, program)
}

// EvaluateProgram runs the program's check list in order and then the two
// structural checks, LTV and term, which always run.
func (e *Evaluator) EvaluateProgram(deal models.Deal, program models.LoanProgram) []models.ComplianceCheckResult {
	in := CheckInput{Deal: deal, Program: program}
	results := make([]models.ComplianceCheckResult, 0, len(program.ComplianceChecks)+2)

	for _, label := range program.ComplianceChecks {
		fn, ok := e.checks[label]
		if !ok {
			results = append(results, notImplemented(label))
			continue
		}
		results = append(results, fn(in))
	}

	results = append(results, checkLTVLimit(in), checkTermLimit(in))
	return results
}

func notImplemented(label string) models.ComplianceCheckResult {
	return models.ComplianceCheckResult{
		Name:        label,
		Passed:      false,
		Regulation:  "Unknown",
		Description: "Not implemented — manual review required",
		Severity:    models.SeverityWarning,
	}
}
