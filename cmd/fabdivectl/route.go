package main

import (
	"fmt"
	"io"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/onboarding"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRouteCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "route <user-id>",
		Short: "Print where the router sends a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			s, closeFn, err := open(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			loader := onboarding.NewLoader(s.profiles, s.preferences)
			rc, err := loader.LoadRoutingContext(ctx, userID)
			if err != nil {
				return err
			}
			nav := onboarding.NewNavigator(loader, onboarding.Paths{
				SignedOut: s.paths.SignedOutPath,
				Done:      s.paths.DonePath,
			}, nil, logger.NewNop())
			printDecision(cmd.OutOrStdout(), userID, rc, onboarding.Evaluate(rc.Profile, rc.Preferences, true), nav)
			return nil
		},
	}
}

func printDecision(w io.Writer, userID uuid.UUID, rc *onboarding.RoutingContext, d onboarding.Decision, nav *onboarding.Navigator) {
	fmt.Fprintf(w, "user:        %s\n", userID)
	fmt.Fprintf(w, "profile:     %s\n", presence(rc.Profile != nil))
	fmt.Fprintf(w, "preferences: %s\n", presence(rc.Preferences != nil))
	fmt.Fprintf(w, "target:      %s\n", d.Target)
	fmt.Fprintf(w, "path:        %s\n", nav.Path(d.Target))
	if d.Ambiguous {
		fmt.Fprintf(w, "warning:     profile_completed is set but %s is unanswered\n", d.Target.Step)
	}
	if d.Target.Kind == domain.TargetDone {
		fmt.Fprintln(w, "onboarding:  done")
	}
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}
