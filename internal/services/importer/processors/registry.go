package processors

import (
	"lending_docs/internal/ports"
)

type Deps struct {
	Base     *BaseProcessor
	Programs ports.ProgramStore
	Registry ProgramSink
	Deals    DealEvaluator
	SkipSave func(error) bool
}

// Registry maps import types to processors. The deal import is only
// registered when an evaluator is available.
func Registry(d Deps) map[string]ports.Processor {
	if d.Base == nil {
		d.Base = NewBaseProcessor(nil, nil)
	}
	out := map[string]ports.Processor{
		TypeLoanPrograms: &LoanProgramsProcessor{BaseProcessor: d.Base, Store: d.Programs, Registry: d.Registry},
	}
	if d.Deals != nil {
		out[TypeDealCompliance] = &DealComplianceProcessor{BaseProcessor: d.Base, Deals: d.Deals, SkipSave: d.SkipSave}
	}
	return out
}
