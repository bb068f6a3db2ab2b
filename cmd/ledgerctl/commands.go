package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lg/energy-ledger/internal/ledger"
)

var (
	dateFlag     string
	fromFlag     string
	toFlag       string
	weekFlag     string
	planText     string
	workoutFlags []string
)

// dateOrToday parses s, or returns today when s is empty.
func dateOrToday(s string) (ledger.DateOnly, error) {
	if s == "" {
		return ledger.DateOf(nowFunc()), nil
	}
	return ledger.ParseDate(s)
}

// rangeOrWeek parses --from/--to, defaulting to the current Mon–Sun week.
func rangeOrWeek() (ledger.DateOnly, ledger.DateOnly, error) {
	from := ledger.MondayOf(ledger.DateOf(nowFunc()))
	if fromFlag != "" {
		d, err := ledger.ParseDate(fromFlag)
		if err != nil {
			return from, from, err
		}
		from = d
	}
	to := from.AddDays(6)
	if toFlag != "" {
		d, err := ledger.ParseDate(toFlag)
		if err != nil {
			return from, to, err
		}
		to = d
	}
	return from, to, nil
}

// parseWorkoutSlot reads DATE,DURATION[,TIME[,TITLE]], e.g.
// "2026-10-13,30,07:00,Morning run". Time and title fall back to the
// materializer's defaults when omitted.
func parseWorkoutSlot(s string) (ledger.WorkoutSlot, error) {
	parts := strings.SplitN(s, ",", 4)
	if len(parts) < 2 {
		return ledger.WorkoutSlot{}, fmt.Errorf("workout %q: want DATE,DURATION[,TIME[,TITLE]]", s)
	}
	date, err := ledger.ParseDate(strings.TrimSpace(parts[0]))
	if err != nil {
		return ledger.WorkoutSlot{}, fmt.Errorf("workout %q: %w", s, err)
	}
	duration, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return ledger.WorkoutSlot{}, fmt.Errorf("workout %q: duration must be minutes", s)
	}
	slot := ledger.WorkoutSlot{Date: date, DurationMin: duration}
	if len(parts) > 2 {
		slot.Time = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		slot.Title = strings.TrimSpace(parts[3])
	}
	return slot, nil
}

func printSummary(cmd *cobra.Command, s ledger.DailySummary) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n",
		s.Date, s.CaloriesIn, s.RestCalories, s.WorkoutCalories, s.CaloriesOut, s.NetCalories)
}

const summaryHeader = "DATE\tIN\tREST\tWORKOUT\tOUT\tNET"

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute the summary for one open day",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateOrToday(dateFlag)
		if err != nil {
			return err
		}
		return withService(cmd.Context(), func(svc *ledger.Service) error {
			sum, err := svc.Recompute(cmd.Context(), userID, date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summaryHeader)
			printSummary(cmd, sum)
			return nil
		})
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute every open logged day in a range",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := rangeOrWeek()
		if err != nil {
			return err
		}
		return withService(cmd.Context(), func(svc *ledger.Service) error {
			sums, err := svc.RefreshSummaries(cmd.Context(), userID, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d day(s)\n", len(sums))
			return nil
		})
	},
}

var closeDayCmd = &cobra.Command{
	Use:   "close-day",
	Short: "Close a day so its summary becomes final",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateOrToday(dateFlag)
		if err != nil {
			return err
		}
		return withService(cmd.Context(), func(svc *ledger.Service) error {
			res, err := svc.CloseDay(cmd.Context(), userID, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Closed %s\n", res.Day.Date)
			return nil
		})
	},
}

var reopenDayCmd = &cobra.Command{
	Use:   "reopen-day",
	Short: "Reopen a closed day for editing",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateOrToday(dateFlag)
		if err != nil {
			return err
		}
		return withService(cmd.Context(), func(svc *ledger.Service) error {
			if _, err := svc.ReopenDay(cmd.Context(), userID, date); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", date)
			return nil
		})
	},
}

var materializeWeekCmd = &cobra.Command{
	Use:   "materialize-week",
	Short: "Write a week of planned meals and workouts",
	Example: `  ledgerctl materialize-week --user 1 --week-start 2026-10-12 \
    --workout 2026-10-13,30,07:00,Run --workout 2026-10-16,45`,
	RunE: func(cmd *cobra.Command, args []string) error {
		weekStart := ledger.MondayOf(ledger.DateOf(nowFunc()))
		if weekFlag != "" {
			d, err := ledger.ParseDate(weekFlag)
			if err != nil {
				return err
			}
			weekStart = d
		}
		var slots []ledger.WorkoutSlot
		for _, w := range workoutFlags {
			slot, err := parseWorkoutSlot(w)
			if err != nil {
				return err
			}
			slots = append(slots, slot)
		}
		return withService(cmd.Context(), func(svc *ledger.Service) error {
			res, err := svc.MaterializeWeek(cmd.Context(), userID, ledger.WeekPlanInput{
				WeekStart: weekStart,
				Workouts:  slots,
				PlanText:  planText,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Week %d-W%02d: target %.0f kcal/day (rest %.0f)\n",
				res.ISOYear, res.ISOWeek, res.TargetIntake, res.RestCalories)
			fmt.Fprintf(out, "Wrote %d planned event(s)\n", len(res.Events))
			return nil
		})
	},
}

var summariesCmd = &cobra.Command{
	Use:   "summaries",
	Short: "Print stored daily summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := rangeOrWeek()
		if err != nil {
			return err
		}
		return withService(cmd.Context(), func(svc *ledger.Service) error {
			sums, err := svc.ListSummaries(cmd.Context(), userID, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summaryHeader)
			for _, s := range sums {
				printSummary(cmd, s)
			}
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{recomputeCmd, closeDayCmd, reopenDayCmd} {
		c.Flags().StringVar(&dateFlag, "date", "", "Date YYYY-MM-DD (default today)")
	}
	for _, c := range []*cobra.Command{refreshCmd, summariesCmd} {
		c.Flags().StringVar(&fromFlag, "from", "", "Start date YYYY-MM-DD (default this Monday)")
		c.Flags().StringVar(&toFlag, "to", "", "End date YYYY-MM-DD (default from+6)")
	}
	materializeWeekCmd.Flags().StringVar(&weekFlag, "week-start", "", "Monday of the week (default this week)")
	materializeWeekCmd.Flags().StringVar(&planText, "plan-text", "", "Plan narrative (default: reuse stored text)")
	materializeWeekCmd.Flags().StringArrayVar(&workoutFlags, "workout", nil, "Workout slot DATE,DURATION[,TIME[,TITLE]] (repeatable)")

	rootCmd.AddCommand(recomputeCmd, refreshCmd, closeDayCmd, reopenDayCmd, materializeWeekCmd, summariesCmd)
}
