package processors

import (
	"context"

	"go.uber.org/zap"

	"lending_docs/internal/models"
	"lending_docs/internal/ports"
)

const TypeLoanPrograms = "loan_programs"

// ProgramSink is the in-memory catalog that imported programs are published to.
type ProgramSink interface {
	Put(p models.LoanProgram)
}

// LoanProgramsProcessor upserts catalog rows. Columns: id, name, category,
// max_ltv, max_term, min_amount, max_amount, compliance_checks (";" separated).
type LoanProgramsProcessor struct {
	*BaseProcessor
	Store    ports.ProgramStore
	Registry ProgramSink
}

func (p *LoanProgramsProcessor) Type() string { return TypeLoanPrograms }

func (p *LoanProgramsProcessor) ProcessBatch(ctx context.Context, batch []map[string]string) error {
	log := p.logger()
	log.Info("[PROC][programs][START]", zap.Int("rows", len(batch)), zap.String("import_record_id", ports.ImportRecordID(ctx)))

	saved := 0
	for _, m := range batch {
		program, err := parseProgram(m)
		if err != nil {
			p.fail(ctx, TypeLoanPrograms, m["id"], m, err.Error())
			continue
		}
		if p.Store != nil {
			if err := p.Store.Upsert(ctx, program); err != nil {
				p.fail(ctx, TypeLoanPrograms, program.ID, m, err.Error())
				continue
			}
		}
		if p.Registry != nil {
			p.Registry.Put(program)
		}
		saved++
		p.done(ctx, TypeLoanPrograms, program.ID, m, "")
	}

	log.Info("[PROC][programs][DONE]", zap.Int("total", len(batch)), zap.Int("saved", saved))
	return nil
}

func parseProgram(m map[string]string) (models.LoanProgram, error) {
	p := models.LoanProgram{
		ID:               firstNonEmpty(m["id"], m["program_id"]),
		Name:             firstNonEmpty(m["name"], m["program_name"]),
		Category:         m["category"],
		ComplianceChecks: splitList(m["compliance_checks"]),
	}
	if p.ID == "" {
		return p, errMissing("id")
	}
	if p.Name == "" {
		p.Name = p.ID
	}

	var err error
	if p.StructuringRules.MaxLTV, err = parsePercent(m["max_ltv"]); err != nil {
		return p, err
	}
	if p.StructuringRules.MaxTerm, err = parseInt(m["max_term"]); err != nil {
		return p, err
	}
	if p.StructuringRules.MinAmount, err = parseAmount(m["min_amount"]); err != nil {
		return p, err
	}
	if p.StructuringRules.MaxAmount, err = parseAmount(m["max_amount"]); err != nil {
		return p, err
	}
	if p.ComplianceChecks == nil {
		p.ComplianceChecks = []string{}
	}
	return p, nil
}

type errMissing string

func (e errMissing) Error() string { return "missing " + string(e) }
