package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/onboarding"
	"github.com/spf13/cobra"
)

func newAuditCmd(open openFunc) *cobra.Command {
	var pageSize int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report completed profiles with unanswered onboarding steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			s, closeFn, err := open(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := runAudit(ctx, s, pageSize)
			if err != nil {
				return err
			}
			report.print(cmd.OutOrStdout())
			if len(report.Ambiguous) > 0 {
				return fmt.Errorf("%d ambiguous profiles", len(report.Ambiguous))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&pageSize, "page-size", 500, "Profiles read per query")
	return cmd
}

type auditFinding struct {
	UserID string
	Step   domain.Step
}

type auditReport struct {
	Scanned   int
	Ambiguous []auditFinding
}

// runAudit pages through every completed profile and re-runs the router on
// it. Any earlier unmet guard means the completion flag is stale.
func runAudit(ctx context.Context, s *stores, pageSize int) (*auditReport, error) {
	if pageSize <= 0 {
		pageSize = 500
	}
	report := &auditReport{}
	for offset := 0; ; offset += pageSize {
		page, err := s.profiles.ListCompleted(ctx, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list completed profiles: %w", err)
		}
		for _, p := range page {
			prefs, err := s.preferences.GetByUserID(ctx, p.UserID)
			if err != nil && !errors.Is(err, domain.ErrPreferencesNotFound) {
				return nil, fmt.Errorf("get preferences of %s: %w", p.UserID, err)
			}
			report.Scanned++
			if d := onboarding.Evaluate(p, prefs, true); d.Ambiguous {
				report.Ambiguous = append(report.Ambiguous, auditFinding{UserID: p.UserID.String(), Step: d.Target.Step})
			}
		}
		if len(page) < pageSize {
			return report, nil
		}
	}
}

func (r *auditReport) print(w io.Writer) {
	for _, f := range r.Ambiguous {
		fmt.Fprintf(w, "%s\tunanswered: %s\n", f.UserID, f.Step)
	}
	fmt.Fprintf(w, "scanned %d completed profiles, %d ambiguous\n", r.Scanned, len(r.Ambiguous))
}
