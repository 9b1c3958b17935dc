package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lending_docs/internal/adapters/prose"
	"lending_docs/internal/models"
	"lending_docs/internal/repository/programs"
	"lending_docs/internal/services/compliance"
	"lending_docs/internal/services/disclosure"
	"lending_docs/internal/services/documents"
)

var errNotEnforceable = errors.New("deal has critical compliance failures")

func newRootCmd() *cobra.Command {
	var programsFile string
	root := &cobra.Command{
		Use:           "lendctl",
		Short:         "Loan disclosure and compliance tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&programsFile, "programs", "", "YAML program catalog merged over the built-in one")

	loadRegistry := func() (*programs.Registry, error) {
		reg, err := programs.Default()
		if err != nil {
			return nil, err
		}
		if programsFile != "" {
			list, err := programs.LoadFile(programsFile)
			if err != nil {
				return nil, err
			}
			reg.Merge(list)
		}
		return reg, nil
	}

	root.AddCommand(
		newDiscloseCmd(),
		newEvaluateCmd(loadRegistry),
		newProgramsCmd(loadRegistry),
		newDocumentCmd(loadRegistry),
	)
	return root
}

type disclosureInput struct {
	Terms            *models.LoanTerms `json:"terms"`
	FundingDate      *time.Time        `json:"funding_date"`
	FirstPaymentDate *time.Time        `json:"first_payment_date"`
}

func newDiscloseCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "disclose",
		Short: "Compute Loan Estimate numbers from a terms JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			var in disclosureInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}
			// a bare LoanTerms document is accepted too
			if in.Terms == nil {
				var t models.LoanTerms
				if err := json.Unmarshal(raw, &t); err != nil {
					return fmt.Errorf("parse %s: %w", file, err)
				}
				in.Terms = &t
			}
			var funding, first time.Time
			if in.FundingDate != nil {
				funding = *in.FundingDate
			}
			if in.FirstPaymentDate != nil {
				first = *in.FirstPaymentDate
			}
			return writeJSON(cmd.OutOrStdout(), disclosure.Compute(*in.Terms, funding, first))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "terms JSON file, - for stdin")
	return cmd
}

func newEvaluateCmd(loadRegistry func() (*programs.Registry, error)) *cobra.Command {
	var (
		file   string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the program's compliance checks against a deal JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			deal, err := readDeal(cmd, file)
			if err != nil {
				return err
			}
			results := compliance.NewEvaluator(reg).Evaluate(deal)
			summary := models.Summarize(results)
			if err := writeJSON(cmd.OutOrStdout(), map[string]any{"results": results, "summary": summary}); err != nil {
				return err
			}
			if strict && !summary.Enforceable {
				return errNotEnforceable
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "deal JSON file, - for stdin")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any critical check fails")
	return cmd
}

func newProgramsCmd(loadRegistry func() (*programs.Registry, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "List loan programs and their checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tMAX LTV\tMAX TERM\tCHECKS")
			for _, p := range reg.All() {
				term := fmt.Sprint(p.StructuringRules.MaxTerm)
				if p.StructuringRules.MaxTerm == 0 {
					term = "revolving"
				}
				fmt.Fprintf(tw, "%s\t%s\t%.0f%%\t%s\t%s\n",
					p.ID, p.Name, p.StructuringRules.MaxLTV*100, term, strings.Join(p.ComplianceChecks, ","))
			}
			return tw.Flush()
		},
	}
}

func newDocumentCmd(loadRegistry func() (*programs.Registry, error)) *cobra.Command {
	var file, kind, out string
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Render a document workbook for a deal with template prose",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			deal, err := readDeal(cmd, file)
			if err != nil {
				return err
			}
			svc := documents.NewService(compliance.NewEvaluator(reg), reg, prose.FallbackGenerator{}, nil, nil, nil)
			doc, err := svc.Generate(context.Background(), documents.Request{Type: kind, Deal: deal, CreatedBy: "lendctl"})
			if err != nil {
				return err
			}
			if out == "" {
				out = kind + ".xlsx"
			}
			if err := os.WriteFile(out, doc.Content, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(doc.Content))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "deal JSON file, - for stdin")
	cmd.Flags().StringVarP(&kind, "type", "t", models.DocumentTermSheet, "loan_estimate, compliance_report or term_sheet")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <type>.xlsx)")
	return cmd
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(file)
}

func readDeal(cmd *cobra.Command, file string) (models.Deal, error) {
	var deal models.Deal
	raw, err := readInput(cmd, file)
	if err != nil {
		return deal, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&deal); err != nil {
		return deal, fmt.Errorf("parse deal: %w", err)
	}
	return deal, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
